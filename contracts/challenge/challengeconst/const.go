package challengeconst

const (
	// TokenID is the identifier of the only token the challenge contract manages.
	TokenID = "\x01"

	// MaxRoyaltyBasisPoints is the royalty rate equal to the whole sale price.
	MaxRoyaltyBasisPoints = 10000
	// DefaultRoyaltyBasisPoints is the royalty rate set on deployment unless
	// another one is provided.
	DefaultRoyaltyBasisPoints = 1000
)

// ERC-165 interface identifiers reported by supportsInterface.
const (
	InterfaceERC165         = "\x01\xff\xc9\xa7"
	InterfaceERC721         = "\x80\xac\x58\xcd"
	InterfaceERC721Metadata = "\x5b\x5e\x13\x9f"
	InterfaceERC2981        = "\x2a\x55\x20\x5a"
)

// Exception messages thrown by the challenge contract.
const (
	// ErrInvalidToken is thrown when the contract receives anything except the key token.
	ErrInvalidToken = "received invalid token"
	// ErrNotOwner is thrown when an administrative method is called by anyone
	// except the contract owner.
	ErrNotOwner = "caller is not the owner"
	// ErrNotOwnerOrApproved is thrown when the challenge token is transferred
	// or approved without holder, approved address or operator witness.
	ErrNotOwnerOrApproved = "caller is not token owner or approved"
	// ErrChallengeAlreadyUnlocked is thrown on GAS deposit after unlock.
	ErrChallengeAlreadyUnlocked = "challenge already unlocked"
	// ErrUnsafeRecipient is thrown when the challenge token is sent to a contract
	// which can't accept NEP-11 tokens.
	ErrUnsafeRecipient = "transfer to non NEP-11 receiver"
	// ErrTokenNotFound is thrown on any token-specific call with an unknown token ID.
	ErrTokenNotFound = "token not found"
	// ErrIncorrectOwner is thrown by transferFrom when `from` doesn't hold the token.
	ErrIncorrectOwner = "transfer from incorrect owner"
	// ErrApproveToHolder is thrown on approval of the current token holder.
	ErrApproveToHolder = "approval to current owner"
	// ErrApproveToCaller is thrown when an account sets itself as its own operator.
	ErrApproveToCaller = "approve to caller"
	// ErrInvalidRoyalty is thrown when royalty basis points are out of [0, MaxRoyaltyBasisPoints].
	ErrInvalidRoyalty = "invalid royalty basis points"
	// ErrOnlyGAS is thrown when the contract receives NEP-17 tokens other than GAS.
	ErrOnlyGAS = "only GAS can be accepted"
	// ErrKeyTransferFailed is thrown when the key contract refuses to transfer the key token.
	ErrKeyTransferFailed = "key token transfer failed"
	// ErrPrizeTransferFailed is thrown when the GAS prize can't be sent to the winner.
	ErrPrizeTransferFailed = "prize transfer failed"
)
