package challenge

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/thc-contract/common"
	"github.com/nspcc-dev/thc-contract/contracts/challenge/challengeconst"
)

// Storage keys and prefixes.
const (
	nameKey         = 'n'
	symbolKey       = 's'
	tokenURIKey     = 'u'
	keyContractKey  = 'k'
	keyIDKey        = 'i'
	unlockedKey     = 'l'
	ownerKey        = 'o'
	royaltyRcvKey   = 'r'
	royaltyRateKey  = 'b'
	holderKey       = 'h'
	approvedKey     = 'a'
	tokenPrefix     = 't'
	accountPrefix   = 'c'
	operatorsPrefix = 'p'
)

const (
	decimals = 0

	onPaymentMethod = "onNEP11Payment"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]any)
	if len(args) < 5 {
		panic("invalid deploy arguments")
	}

	keyContract := args[3].(interop.Hash160)
	if !common.IsValidHash160(keyContract) {
		panic("invalid key contract")
	}
	keyID := args[4].([]byte)
	if len(keyID) == 0 {
		panic("invalid key token ID")
	}

	deployer := runtime.GetScriptContainer().Sender
	royaltyReceiver := deployer
	royaltyRate := challengeconst.DefaultRoyaltyBasisPoints
	if len(args) > 5 && args[5] != nil {
		royaltyReceiver = args[5].(interop.Hash160)
	}
	if len(args) > 6 && args[6] != nil {
		royaltyRate = args[6].(int)
	}

	ctx := storage.GetContext()
	storage.Put(ctx, []byte{nameKey}, args[0].(string))
	storage.Put(ctx, []byte{symbolKey}, args[1].(string))
	storage.Put(ctx, []byte{tokenURIKey}, args[2].(string))
	storage.Put(ctx, []byte{keyContractKey}, keyContract)
	storage.Put(ctx, []byte{keyIDKey}, keyID)
	storage.Put(ctx, []byte{ownerKey}, deployer)
	putRoyalty(ctx, royaltyReceiver, royaltyRate)

	tokenID := []byte(challengeconst.TokenID)
	storage.Put(ctx, append([]byte{tokenPrefix}, tokenID...), tokenID)
	setHolder(ctx, nil, deployer)
	postTransfer(nil, deployer, tokenID, nil, false)

	runtime.Log("challenge contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(script []byte, manifest []byte, data any) {
	checkOwner(storage.GetReadOnlyContext())

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("challenge contract updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// OnNEP11Payment accepts the key token and unlocks the challenge. The winner
// is the account encoded in data or, if there is none, the sender of the
// transaction that moved the key token. Any other token is refused.
func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
	ctx := storage.GetContext()

	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(getKeyContract(ctx)) || amount != 1 || !common.BytesEqual(tokenID, getKeyID(ctx)) {
		panic(challengeconst.ErrInvalidToken)
	}

	if isUnlocked(ctx) {
		runtime.Log("key token is returned to the unlocked challenge")
		return
	}

	unlock(ctx, resolveWinner(runtime.GetScriptContainer().Sender, data))
}

// OnNEP17Payment accepts GAS deposits while the challenge is locked.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		common.AbortWithMessage(challengeconst.ErrOnlyGAS)
	}

	if isUnlocked(storage.GetReadOnlyContext()) {
		panic(challengeconst.ErrChallengeAlreadyUnlocked)
	}
}

// unlock moves the challenge token to the winner and pays out the whole GAS
// balance of the contract. It must be called only once.
func unlock(ctx storage.Context, winner interop.Hash160) {
	holder := getHolder(ctx)
	setHolder(ctx, holder, winner)
	storage.Put(ctx, []byte{unlockedKey}, 1)

	self := runtime.GetExecutingScriptHash()
	prize := gas.BalanceOf(self)
	if prize > 0 && !gas.Transfer(self, winner, prize, nil) {
		panic(challengeconst.ErrPrizeTransferFailed)
	}

	postTransfer(holder, winner, []byte(challengeconst.TokenID), nil, false)
	runtime.Notify("Unlock", winner, prize)
	runtime.Log("challenge unlocked")
}

// IsUnlocked returns true if the key token has already been received.
func IsUnlocked() bool {
	return isUnlocked(storage.GetReadOnlyContext())
}

// KeyContract returns the address of the key token contract.
func KeyContract() interop.Hash160 {
	return getKeyContract(storage.GetReadOnlyContext())
}

// KeyID returns the identifier of the key token.
func KeyID() []byte {
	return getKeyID(storage.GetReadOnlyContext())
}

// Symbol returns token symbol.
func Symbol() string {
	return storage.Get(storage.GetReadOnlyContext(), []byte{symbolKey}).(string)
}

// Decimals returns token decimals.
func Decimals() int {
	return decimals
}

// TotalSupply returns the number of tokens, which is always 1.
func TotalSupply() int {
	return 1
}

// Name returns the collection name.
func Name() string {
	return storage.Get(storage.GetReadOnlyContext(), []byte{nameKey}).(string)
}

// TokenURI returns metadata URI of the token.
func TokenURI(tokenID []byte) string {
	checkTokenID(tokenID)
	return storage.Get(storage.GetReadOnlyContext(), []byte{tokenURIKey}).(string)
}

// Properties returns NEP-11 token properties.
func Properties(tokenID []byte) map[string]any {
	checkTokenID(tokenID)
	ctx := storage.GetReadOnlyContext()
	return map[string]any{
		"name":     storage.Get(ctx, []byte{nameKey}).(string),
		"tokenURI": storage.Get(ctx, []byte{tokenURIKey}).(string),
	}
}

// OwnerOf returns current holder of the token.
func OwnerOf(tokenID []byte) interop.Hash160 {
	checkTokenID(tokenID)
	return getHolder(storage.GetReadOnlyContext())
}

// BalanceOf returns 1 for the token holder and 0 for anyone else.
func BalanceOf(owner interop.Hash160) int {
	if !common.IsValidHash160(owner) {
		panic("invalid owner")
	}
	if owner.Equals(getHolder(storage.GetReadOnlyContext())) {
		return 1
	}
	return 0
}

// Tokens returns iterator over all tokens of the contract.
func Tokens() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{tokenPrefix}, storage.ValuesOnly)
}

// TokensOf returns iterator over tokens owned by the specified owner.
func TokensOf(owner interop.Hash160) iterator.Iterator {
	if !common.IsValidHash160(owner) {
		panic("invalid owner")
	}
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{accountPrefix}, owner...), storage.ValuesOnly)
}

// Transfer is a NEP-11 transfer of the token. If the receiver is a contract,
// it must have onNEP11Payment method which is called after the transfer.
func Transfer(to interop.Hash160, tokenID []byte, data any) bool {
	if !common.IsValidHash160(to) {
		panic("invalid receiver")
	}
	checkTokenID(tokenID)

	ctx := storage.GetContext()
	from := getHolder(ctx)
	if !isOwnerOrApproved(ctx, from) {
		panic(challengeconst.ErrNotOwnerOrApproved)
	}
	if management.GetContract(to) != nil && !management.HasMethod(to, onPaymentMethod, 4) {
		panic(challengeconst.ErrUnsafeRecipient)
	}

	setHolder(ctx, from, to)
	postTransfer(from, to, tokenID, data, true)
	return true
}

// TransferFrom moves the token from its holder to the receiver without
// calling the receiver contract.
func TransferFrom(from, to interop.Hash160, tokenID []byte) {
	if !common.IsValidHash160(to) {
		panic("invalid receiver")
	}
	checkTokenID(tokenID)

	ctx := storage.GetContext()
	holder := getHolder(ctx)
	if !isOwnerOrApproved(ctx, holder) {
		panic(challengeconst.ErrNotOwnerOrApproved)
	}
	if !from.Equals(holder) {
		panic(challengeconst.ErrIncorrectOwner)
	}

	setHolder(ctx, holder, to)
	postTransfer(holder, to, tokenID, nil, false)
}

// Approve allows the approved account to transfer the token. Only a single
// account can be approved at a time, nil clears the approval.
func Approve(approved interop.Hash160, tokenID []byte) {
	checkTokenID(tokenID)

	ctx := storage.GetContext()
	holder := getHolder(ctx)
	if approved.Equals(holder) {
		panic(challengeconst.ErrApproveToHolder)
	}
	if !isOwnerOrOperator(ctx, holder) {
		panic(challengeconst.ErrNotOwnerOrApproved)
	}

	if approved == nil {
		storage.Delete(ctx, []byte{approvedKey})
	} else {
		if !common.IsValidHash160(approved) {
			panic("invalid approved account")
		}
		storage.Put(ctx, []byte{approvedKey}, approved)
	}
	runtime.Notify("Approval", holder, approved, tokenID)
}

// GetApproved returns the account approved for the token or nil.
func GetApproved(tokenID []byte) interop.Hash160 {
	checkTokenID(tokenID)
	approved := storage.Get(storage.GetReadOnlyContext(), []byte{approvedKey})
	if approved == nil {
		return nil
	}
	return approved.(interop.Hash160)
}

// SetApprovalForAll allows or forbids the operator to manage all tokens of
// the holder. It must be witnessed by the holder.
func SetApprovalForAll(holder, operator interop.Hash160, approved bool) {
	if !common.IsValidHash160(holder) || !common.IsValidHash160(operator) {
		panic("invalid account")
	}
	if holder.Equals(operator) {
		panic(challengeconst.ErrApproveToCaller)
	}
	common.CheckWitness(holder)

	ctx := storage.GetContext()
	key := operatorKey(holder, operator)
	if approved {
		storage.Put(ctx, key, 1)
	} else {
		storage.Delete(ctx, key)
	}
	runtime.Notify("ApprovalForAll", holder, operator, approved)
}

// IsApprovedForAll checks whether the operator can manage tokens of the holder.
func IsApprovedForAll(holder, operator interop.Hash160) bool {
	return storage.Get(storage.GetReadOnlyContext(), operatorKey(holder, operator)) != nil
}

// SupportsInterface reports whether the contract implements the ERC-165
// interface with the given identifier.
func SupportsInterface(interfaceID []byte) bool {
	switch string(interfaceID) {
	case challengeconst.InterfaceERC165,
		challengeconst.InterfaceERC721,
		challengeconst.InterfaceERC721Metadata,
		challengeconst.InterfaceERC2981:
		return true
	default:
		return false
	}
}

// RoyaltyInfo returns royalty receiver and the royalty amount for the given
// sale price. The same royalty applies to any token ID.
func RoyaltyInfo(tokenID []byte, salePrice int) []any {
	ctx := storage.GetReadOnlyContext()
	rate := storage.Get(ctx, []byte{royaltyRateKey}).(int)
	return []any{
		storage.Get(ctx, []byte{royaltyRcvKey}).(interop.Hash160),
		salePrice * rate / challengeconst.MaxRoyaltyBasisPoints,
	}
}

// SetRoyalty sets royalty receiver and rate in basis points.
func SetRoyalty(receiver interop.Hash160, basisPoints int) {
	ctx := storage.GetContext()
	checkOwner(ctx)
	if !common.IsValidHash160(receiver) {
		panic("invalid receiver")
	}
	putRoyalty(ctx, receiver, basisPoints)
}

// WithdrawKeyToken sends the key token held by the contract to the given account.
func WithdrawKeyToken(to interop.Hash160) {
	ctx := storage.GetReadOnlyContext()
	checkOwner(ctx)
	if !common.IsValidHash160(to) {
		panic("invalid receiver")
	}

	ok := contract.Call(getKeyContract(ctx), "transfer", contract.All, to, getKeyID(ctx), nil).(bool)
	if !ok {
		panic(challengeconst.ErrKeyTransferFailed)
	}
}

// Owner returns the contract owner.
func Owner() interop.Hash160 {
	return getOwner(storage.GetReadOnlyContext())
}

// TransferOwnership makes newOwner the contract owner.
func TransferOwnership(newOwner interop.Hash160) {
	ctx := storage.GetContext()
	prev := getOwner(ctx)
	checkOwner(ctx)
	if !common.IsValidHash160(newOwner) {
		panic("invalid owner")
	}
	storage.Put(ctx, []byte{ownerKey}, newOwner)
	runtime.Notify("OwnershipTransferred", prev, newOwner)
}

// Serialized script hash is a ByteString or Buffer type byte followed by
// the length byte and 20 bytes of the hash.
const (
	byteStringType = 0x28
	bufferType     = 0x30

	serializedHashLen = 2 + interop.Hash160Len
)

// resolveWinner picks the account data points to, or operator if data is not
// a 20-byte script hash. Data is inspected in serialized form, so arrays,
// maps and other compound items are never converted.
func resolveWinner(operator interop.Hash160, data any) interop.Hash160 {
	if data == nil {
		return operator
	}

	raw := std.Serialize(data)
	if len(raw) != serializedHashLen || raw[1] != interop.Hash160Len {
		return operator
	}
	if raw[0] != byteStringType && raw[0] != bufferType {
		return operator
	}
	return interop.Hash160(raw[2:])
}

// isOwnerOrApproved checks that the transaction is witnessed by the holder,
// by the account approved for the token or by an operator of the holder.
func isOwnerOrApproved(ctx storage.Context, holder interop.Hash160) bool {
	if isOwnerOrOperator(ctx, holder) {
		return true
	}
	approved := storage.Get(ctx, []byte{approvedKey})
	return approved != nil && runtime.CheckWitness(approved.(interop.Hash160))
}

func isOwnerOrOperator(ctx storage.Context, holder interop.Hash160) bool {
	if runtime.CheckWitness(holder) {
		return true
	}
	it := storage.Find(ctx, append([]byte{operatorsPrefix}, holder...), storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		if runtime.CheckWitness(iterator.Value(it).([]byte)) {
			return true
		}
	}
	return false
}

// setHolder reassigns the token and clears its approval.
func setHolder(ctx storage.Context, from, to interop.Hash160) {
	tokenID := []byte(challengeconst.TokenID)
	if from != nil {
		storage.Delete(ctx, append(append([]byte{accountPrefix}, from...), tokenID...))
	}
	storage.Delete(ctx, []byte{approvedKey})
	storage.Put(ctx, []byte{holderKey}, to)
	storage.Put(ctx, append(append([]byte{accountPrefix}, to...), tokenID...), tokenID)
}

// postTransfer sends Transfer notification to the network and, for safe
// transfers, calls onNEP11Payment method of the receiver contract.
func postTransfer(from, to interop.Hash160, tokenID []byte, data any, safe bool) {
	runtime.Notify("Transfer", from, to, 1, tokenID)
	if safe && management.GetContract(to) != nil {
		contract.Call(to, onPaymentMethod, contract.All, from, 1, tokenID, data)
	}
}

func putRoyalty(ctx storage.Context, receiver interop.Hash160, basisPoints int) {
	if basisPoints < 0 || basisPoints > challengeconst.MaxRoyaltyBasisPoints {
		panic(challengeconst.ErrInvalidRoyalty)
	}
	storage.Put(ctx, []byte{royaltyRcvKey}, receiver)
	storage.Put(ctx, []byte{royaltyRateKey}, basisPoints)
	runtime.Notify("RoyaltySet", receiver, basisPoints)
}

func checkOwner(ctx storage.Context) {
	common.CheckWitnessWithMessage(getOwner(ctx), challengeconst.ErrNotOwner)
}

func checkTokenID(tokenID []byte) {
	if string(tokenID) != challengeconst.TokenID {
		panic(challengeconst.ErrTokenNotFound)
	}
}

func operatorKey(holder, operator interop.Hash160) []byte {
	return append(append([]byte{operatorsPrefix}, holder...), operator...)
}

func isUnlocked(ctx storage.Context) bool {
	return storage.Get(ctx, []byte{unlockedKey}) != nil
}

func getHolder(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, []byte{holderKey}).(interop.Hash160)
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, []byte{ownerKey}).(interop.Hash160)
}

func getKeyContract(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, []byte{keyContractKey}).(interop.Hash160)
}

func getKeyID(ctx storage.Context) []byte {
	return storage.Get(ctx, []byte{keyIDKey}).([]byte)
}
