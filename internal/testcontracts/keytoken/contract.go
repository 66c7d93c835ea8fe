package keytoken

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/thc-contract/common"
)

const (
	minterKey       = 'm'
	supplyKey       = 's'
	ownerPrefix     = 'o'
	balancePrefix   = 'b'
	accountPrefix   = 'a'
	operatorsPrefix = 'p'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}
	ctx := storage.GetContext()
	storage.Put(ctx, []byte{minterKey}, runtime.GetScriptContainer().Sender)
	storage.Put(ctx, []byte{supplyKey}, 0)
}

func Symbol() string {
	return "KEY"
}

func Decimals() int {
	return 0
}

func TotalSupply() int {
	return storage.Get(storage.GetReadOnlyContext(), []byte{supplyKey}).(int)
}

func BalanceOf(owner interop.Hash160) int {
	b := storage.Get(storage.GetReadOnlyContext(), append([]byte{balancePrefix}, owner...))
	if b == nil {
		return 0
	}
	return b.(int)
}

func TokensOf(owner interop.Hash160) iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), append([]byte{accountPrefix}, owner...), storage.ValuesOnly)
}

func OwnerOf(tokenID []byte) interop.Hash160 {
	owner := storage.Get(storage.GetReadOnlyContext(), append([]byte{ownerPrefix}, tokenID...))
	if owner == nil {
		panic("token not found")
	}
	return owner.(interop.Hash160)
}

// Mint creates a new token owned by the given account. Only the deployer can mint.
func Mint(to interop.Hash160, tokenID []byte) {
	ctx := storage.GetContext()
	common.CheckWitness(storage.Get(ctx, []byte{minterKey}).(interop.Hash160))
	if storage.Get(ctx, append([]byte{ownerPrefix}, tokenID...)) != nil {
		panic("token already exists")
	}
	storage.Put(ctx, []byte{supplyKey}, TotalSupply()+1)
	move(ctx, nil, to, tokenID)
	postTransfer(nil, to, tokenID, nil)
}

// Transfer moves the token to the receiver. It must be witnessed by the
// token owner or by one of its operators.
func Transfer(to interop.Hash160, tokenID []byte, data any) bool {
	ctx := storage.GetContext()
	from := OwnerOf(tokenID)
	if !runtime.CheckWitness(from) && !isOperatorWitnessed(ctx, from) {
		return false
	}
	move(ctx, from, to, tokenID)
	postTransfer(from, to, tokenID, data)
	return true
}

// SetApprovalForAll allows the operator to transfer any token of the owner.
func SetApprovalForAll(owner, operator interop.Hash160, approved bool) {
	common.CheckWitness(owner)
	key := append(append([]byte{operatorsPrefix}, owner...), operator...)
	ctx := storage.GetContext()
	if approved {
		storage.Put(ctx, key, 1)
	} else {
		storage.Delete(ctx, key)
	}
}

func isOperatorWitnessed(ctx storage.Context, owner interop.Hash160) bool {
	it := storage.Find(ctx, append([]byte{operatorsPrefix}, owner...), storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		if runtime.CheckWitness(iterator.Value(it).([]byte)) {
			return true
		}
	}
	return false
}

func move(ctx storage.Context, from, to interop.Hash160, tokenID []byte) {
	if from != nil {
		storage.Delete(ctx, append(append([]byte{accountPrefix}, from...), tokenID...))
		storage.Put(ctx, append([]byte{balancePrefix}, from...), BalanceOf(from)-1)
	}
	storage.Put(ctx, append([]byte{ownerPrefix}, tokenID...), to)
	storage.Put(ctx, append(append([]byte{accountPrefix}, to...), tokenID...), tokenID)
	storage.Put(ctx, append([]byte{balancePrefix}, to...), BalanceOf(to)+1)
}

func postTransfer(from, to interop.Hash160, tokenID []byte, data any) {
	runtime.Notify("Transfer", from, to, 1, tokenID)
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP11Payment", contract.All, from, 1, tokenID, data)
	}
}
