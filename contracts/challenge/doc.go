/*
Package challenge implements the Token Hacker Challenge contract.

The contract manages a single non-divisible NEP-11 token. Initially it is
owned by the deployer. The token and all GAS collected by the contract go to
the first one who sends the key token (a specific token of a specific NEP-11
contract set on deployment) to the challenge contract. The winner is the
account passed as transfer data or, if there is no valid account there, the
sender of the transaction. After that the challenge is unlocked forever: GAS
deposits are refused and the token behaves as an ordinary NEP-11 token with
ERC-721 style approvals and ERC-2981 style royalty.

Contract owner can change royalty settings, withdraw the key token held by
the contract and transfer contract ownership.

# Contract notifications

Transfer notification. This is a NEP-11 standard notification.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: tokenId
	    type: ByteArray

Unlock notification. It is produced once, when the key token is received and
the prize is paid out.

	Unlock:
	  - name: winner
	    type: Hash160
	  - name: amount
	    type: Integer

Approval notification. It is produced when an account is approved to
transfer the token.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: approved
	    type: Hash160
	  - name: tokenId
	    type: ByteArray

ApprovalForAll notification. It is produced when an operator is set or
removed for the holder.

	ApprovalForAll:
	  - name: owner
	    type: Hash160
	  - name: operator
	    type: Hash160
	  - name: approved
	    type: Boolean

OwnershipTransferred notification. It is produced when contract owner is
changed.

	OwnershipTransferred:
	  - name: previousOwner
	    type: Hash160
	  - name: newOwner
	    type: Hash160

RoyaltySet notification. It is produced on deployment and on every royalty
change.

	RoyaltySet:
	  - name: receiver
	    type: Hash160
	  - name: basisPoints
	    type: Integer
*/
package challenge

/*
Contract storage model.

# Keys
Collection name, symbol and token URI:
  'n' -> string
  's' -> string
  'u' -> string

Key token contract and key token ID:
  'k' -> interop.Hash160
  'i' -> []byte

Unlock flag, present only after the key token is received:
  'l' -> int

Contract owner and royalty settings:
  'o' -> interop.Hash160
  'r' -> interop.Hash160
  'b' -> int

Token holder and approved account:
  'h' -> interop.Hash160
  'a' -> interop.Hash160

# Prefixes
Token list:
  't' + tokenID -> tokenID

Tokens of the account:
  'c' + account + tokenID -> tokenID

Operators of the holder:
  'p' + holder + operator -> int
*/
