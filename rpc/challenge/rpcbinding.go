// Package challenge contains RPC wrappers for TokenHackerChallenge contract.
package challenge

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep11"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// RoyaltyInfo is a result of royaltyInfo method.
type RoyaltyInfo struct {
	Receiver util.Uint160
	Amount   *big.Int
}

// UnlockEvent represents "Unlock" event emitted by the contract.
type UnlockEvent struct {
	Winner util.Uint160
	Amount *big.Int
}

// ApprovalEvent represents "Approval" event emitted by the contract.
type ApprovalEvent struct {
	Owner    util.Uint160
	Approved util.Uint160
	TokenID  []byte
}

// ApprovalForAllEvent represents "ApprovalForAll" event emitted by the contract.
type ApprovalForAllEvent struct {
	Owner    util.Uint160
	Operator util.Uint160
	Approved bool
}

// OwnershipTransferredEvent represents "OwnershipTransferred" event emitted by the contract.
type OwnershipTransferredEvent struct {
	PreviousOwner util.Uint160
	NewOwner      util.Uint160
}

// RoyaltySetEvent represents "RoyaltySet" event emitted by the contract.
type RoyaltySetEvent struct {
	Receiver    util.Uint160
	BasisPoints *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	nep11.Invoker
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	nep11.Actor

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	nep11.NonDivisibleReader
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	nep11.BaseWriter
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{*nep11.NewNonDivisibleReader(invoker, hash), invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	var nep11ndt = nep11.NewNonDivisible(actor, hash)
	return &Contract{ContractReader{nep11ndt.NonDivisibleReader, actor, hash}, nep11ndt.BaseWriter, actor, hash}
}

// Name invokes `name` method of contract.
func (c *ContractReader) Name() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "name"))
}

// TokenURI invokes `tokenURI` method of contract.
func (c *ContractReader) TokenURI(tokenID []byte) (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "tokenURI", tokenID))
}

// Tokens invokes `tokens` method of contract.
func (c *ContractReader) Tokens() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "tokens"))
}

// TokensExpanded is similar to Tokens (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) TokensExpanded(_numOfIteratorItems int) ([][]byte, error) {
	return unwrap.ArrayOfBytes(c.invoker.CallAndExpandIterator(c.hash, "tokens", _numOfIteratorItems))
}

// GetApproved invokes `getApproved` method of contract. Zero hash is
// returned if nobody is approved.
func (c *ContractReader) GetApproved(tokenID []byte) (util.Uint160, error) {
	return itemToHash160(unwrap.Item(c.invoker.Call(c.hash, "getApproved", tokenID)))
}

// IsApprovedForAll invokes `isApprovedForAll` method of contract.
func (c *ContractReader) IsApprovedForAll(holder util.Uint160, operator util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isApprovedForAll", holder, operator))
}

// SupportsInterface invokes `supportsInterface` method of contract.
func (c *ContractReader) SupportsInterface(interfaceID []byte) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "supportsInterface", interfaceID))
}

// RoyaltyInfo invokes `royaltyInfo` method of contract.
func (c *ContractReader) RoyaltyInfo(tokenID []byte, salePrice *big.Int) (*RoyaltyInfo, error) {
	return itemToRoyaltyInfo(unwrap.Item(c.invoker.Call(c.hash, "royaltyInfo", tokenID, salePrice)))
}

// IsUnlocked invokes `isUnlocked` method of contract.
func (c *ContractReader) IsUnlocked() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isUnlocked"))
}

// KeyContract invokes `keyContract` method of contract.
func (c *ContractReader) KeyContract() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "keyContract"))
}

// KeyID invokes `keyID` method of contract.
func (c *ContractReader) KeyID() ([]byte, error) {
	return unwrap.Bytes(c.invoker.Call(c.hash, "keyID"))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Approve creates a transaction invoking `approve` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Approve(approved util.Uint160, tokenID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "approve", approved, tokenID)
}

// ApproveTransaction creates a transaction invoking `approve` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ApproveTransaction(approved util.Uint160, tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "approve", approved, tokenID)
}

// ApproveUnsigned creates a transaction invoking `approve` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ApproveUnsigned(approved util.Uint160, tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "approve", nil, approved, tokenID)
}

// SetApprovalForAll creates a transaction invoking `setApprovalForAll` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetApprovalForAll(holder util.Uint160, operator util.Uint160, approved bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setApprovalForAll", holder, operator, approved)
}

// SetApprovalForAllTransaction creates a transaction invoking `setApprovalForAll` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetApprovalForAllTransaction(holder util.Uint160, operator util.Uint160, approved bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setApprovalForAll", holder, operator, approved)
}

// SetApprovalForAllUnsigned creates a transaction invoking `setApprovalForAll` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetApprovalForAllUnsigned(holder util.Uint160, operator util.Uint160, approved bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setApprovalForAll", nil, holder, operator, approved)
}

// TransferFrom creates a transaction invoking `transferFrom` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferFrom(from util.Uint160, to util.Uint160, tokenID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferFrom", from, to, tokenID)
}

// TransferFromTransaction creates a transaction invoking `transferFrom` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferFromTransaction(from util.Uint160, to util.Uint160, tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferFrom", from, to, tokenID)
}

// TransferFromUnsigned creates a transaction invoking `transferFrom` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferFromUnsigned(from util.Uint160, to util.Uint160, tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferFrom", nil, from, to, tokenID)
}

// SetRoyalty creates a transaction invoking `setRoyalty` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetRoyalty(receiver util.Uint160, basisPoints *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setRoyalty", receiver, basisPoints)
}

// SetRoyaltyTransaction creates a transaction invoking `setRoyalty` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetRoyaltyTransaction(receiver util.Uint160, basisPoints *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setRoyalty", receiver, basisPoints)
}

// SetRoyaltyUnsigned creates a transaction invoking `setRoyalty` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetRoyaltyUnsigned(receiver util.Uint160, basisPoints *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setRoyalty", nil, receiver, basisPoints)
}

// WithdrawKeyToken creates a transaction invoking `withdrawKeyToken` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) WithdrawKeyToken(to util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdrawKeyToken", to)
}

// WithdrawKeyTokenTransaction creates a transaction invoking `withdrawKeyToken` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawKeyTokenTransaction(to util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdrawKeyToken", to)
}

// WithdrawKeyTokenUnsigned creates a transaction invoking `withdrawKeyToken` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawKeyTokenUnsigned(to util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdrawKeyToken", nil, to)
}

// TransferOwnership creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferOwnership(newOwner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferOwnership", newOwner)
}

// TransferOwnershipTransaction creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferOwnershipTransaction(newOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferOwnership", newOwner)
}

// TransferOwnershipUnsigned creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferOwnershipUnsigned(newOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferOwnership", nil, newOwner)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// itemToHash160 converts stack item into util.Uint160, Null is converted to
// zero hash.
func itemToHash160(item stackitem.Item, err error) (util.Uint160, error) {
	if err != nil {
		return util.Uint160{}, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

// itemToRoyaltyInfo converts stack item into *RoyaltyInfo.
func itemToRoyaltyInfo(item stackitem.Item, err error) (*RoyaltyInfo, error) {
	if err != nil {
		return nil, err
	}
	var res = new(RoyaltyInfo)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of RoyaltyInfo from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *RoyaltyInfo) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.Receiver, err = itemToHash160(arr[0], nil)
	if err != nil {
		return fmt.Errorf("field Receiver: %w", err)
	}

	res.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// eventItems returns fields of the notification with the given name from all
// executions of the application log. Each call of fn gets fields of a single
// notification and its position in the log.
func eventItems(log *result.ApplicationLog, name string, fields int, fn func(arr []stackitem.Item) error) error {
	if log == nil {
		return errors.New("nil application log")
	}

	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			if e.Item == nil {
				return fmt.Errorf("nil %s item (execution #%d, event #%d)", name, i, j)
			}
			arr, ok := e.Item.Value().([]stackitem.Item)
			if !ok {
				return fmt.Errorf("%s is not an array (execution #%d, event #%d)", name, i, j)
			}
			if len(arr) != fields {
				return fmt.Errorf("wrong number of %s elements (execution #%d, event #%d)", name, i, j)
			}
			if err := fn(arr); err != nil {
				return fmt.Errorf("failed to deserialize %sEvent from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
		}
	}

	return nil
}

// UnlockEventsFromApplicationLog retrieves a set of all emitted events
// with "Unlock" name from the provided [result.ApplicationLog].
func UnlockEventsFromApplicationLog(log *result.ApplicationLog) ([]*UnlockEvent, error) {
	var res []*UnlockEvent
	err := eventItems(log, "Unlock", 2, func(arr []stackitem.Item) error {
		var (
			e   = new(UnlockEvent)
			err error
		)
		e.Winner, err = itemToHash160(arr[0], nil)
		if err != nil {
			return fmt.Errorf("field Winner: %w", err)
		}
		e.Amount, err = arr[1].TryInteger()
		if err != nil {
			return fmt.Errorf("field Amount: %w", err)
		}
		res = append(res, e)
		return nil
	})
	return res, err
}

// ApprovalEventsFromApplicationLog retrieves a set of all emitted events
// with "Approval" name from the provided [result.ApplicationLog].
func ApprovalEventsFromApplicationLog(log *result.ApplicationLog) ([]*ApprovalEvent, error) {
	var res []*ApprovalEvent
	err := eventItems(log, "Approval", 3, func(arr []stackitem.Item) error {
		var (
			e   = new(ApprovalEvent)
			err error
		)
		e.Owner, err = itemToHash160(arr[0], nil)
		if err != nil {
			return fmt.Errorf("field Owner: %w", err)
		}
		e.Approved, err = itemToHash160(arr[1], nil)
		if err != nil {
			return fmt.Errorf("field Approved: %w", err)
		}
		e.TokenID, err = arr[2].TryBytes()
		if err != nil {
			return fmt.Errorf("field TokenID: %w", err)
		}
		res = append(res, e)
		return nil
	})
	return res, err
}

// ApprovalForAllEventsFromApplicationLog retrieves a set of all emitted events
// with "ApprovalForAll" name from the provided [result.ApplicationLog].
func ApprovalForAllEventsFromApplicationLog(log *result.ApplicationLog) ([]*ApprovalForAllEvent, error) {
	var res []*ApprovalForAllEvent
	err := eventItems(log, "ApprovalForAll", 3, func(arr []stackitem.Item) error {
		var (
			e   = new(ApprovalForAllEvent)
			err error
		)
		e.Owner, err = itemToHash160(arr[0], nil)
		if err != nil {
			return fmt.Errorf("field Owner: %w", err)
		}
		e.Operator, err = itemToHash160(arr[1], nil)
		if err != nil {
			return fmt.Errorf("field Operator: %w", err)
		}
		e.Approved, err = arr[2].TryBool()
		if err != nil {
			return fmt.Errorf("field Approved: %w", err)
		}
		res = append(res, e)
		return nil
	})
	return res, err
}

// OwnershipTransferredEventsFromApplicationLog retrieves a set of all emitted events
// with "OwnershipTransferred" name from the provided [result.ApplicationLog].
func OwnershipTransferredEventsFromApplicationLog(log *result.ApplicationLog) ([]*OwnershipTransferredEvent, error) {
	var res []*OwnershipTransferredEvent
	err := eventItems(log, "OwnershipTransferred", 2, func(arr []stackitem.Item) error {
		var (
			e   = new(OwnershipTransferredEvent)
			err error
		)
		e.PreviousOwner, err = itemToHash160(arr[0], nil)
		if err != nil {
			return fmt.Errorf("field PreviousOwner: %w", err)
		}
		e.NewOwner, err = itemToHash160(arr[1], nil)
		if err != nil {
			return fmt.Errorf("field NewOwner: %w", err)
		}
		res = append(res, e)
		return nil
	})
	return res, err
}

// RoyaltySetEventsFromApplicationLog retrieves a set of all emitted events
// with "RoyaltySet" name from the provided [result.ApplicationLog].
func RoyaltySetEventsFromApplicationLog(log *result.ApplicationLog) ([]*RoyaltySetEvent, error) {
	var res []*RoyaltySetEvent
	err := eventItems(log, "RoyaltySet", 2, func(arr []stackitem.Item) error {
		var (
			e   = new(RoyaltySetEvent)
			err error
		)
		e.Receiver, err = itemToHash160(arr[0], nil)
		if err != nil {
			return fmt.Errorf("field Receiver: %w", err)
		}
		e.BasisPoints, err = arr[1].TryInteger()
		if err != nil {
			return fmt.Errorf("field BasisPoints: %w", err)
		}
		res = append(res, e)
		return nil
	})
	return res, err
}
