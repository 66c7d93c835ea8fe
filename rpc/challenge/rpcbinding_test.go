package challenge

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}
func (t *testInv) TraverseIterator(uuid.UUID, *result.Iterator, int) ([]stackitem.Item, error) {
	return nil, nil
}
func (t *testInv) TerminateSession(uuid.UUID) error {
	return nil
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{State: "HALT", Stack: items}
}

func TestReaderErrors(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.err = errors.New("bad")
	_, err := r.IsUnlocked()
	require.Error(t, err)
	_, err = r.GetApproved([]byte{1})
	require.Error(t, err)
	_, err = r.RoyaltyInfo([]byte{1}, big.NewInt(100))
	require.Error(t, err)

	ti.err = nil
	ti.res = &result.Invoke{State: "FAULT", FaultException: "token not found"}
	_, err = r.GetApproved([]byte{2})
	require.Error(t, err)

	ti.res = halt(stackitem.Make(100500))
	_, err = r.RoyaltyInfo([]byte{1}, big.NewInt(100))
	require.Error(t, err)

	ti.res = halt(stackitem.Make([]stackitem.Item{stackitem.Make(1)}))
	_, err = r.RoyaltyInfo([]byte{1}, big.NewInt(100))
	require.Error(t, err)
}

func TestReaderValues(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})
	h := util.Uint160{4, 5, 6}

	ti.res = halt(stackitem.Make(true))
	unlocked, err := r.IsUnlocked()
	require.NoError(t, err)
	require.True(t, unlocked)

	ti.res = halt(stackitem.Null{})
	approved, err := r.GetApproved([]byte{1})
	require.NoError(t, err)
	require.Equal(t, util.Uint160{}, approved)

	ti.res = halt(stackitem.Make(h.BytesBE()))
	approved, err = r.GetApproved([]byte{1})
	require.NoError(t, err)
	require.Equal(t, h, approved)

	ti.res = halt(stackitem.Make(h.BytesBE()))
	key, err := r.KeyContract()
	require.NoError(t, err)
	require.Equal(t, h, key)

	ti.res = halt(stackitem.Make([]stackitem.Item{
		stackitem.Make(h.BytesBE()),
		stackitem.Make(25),
	}))
	info, err := r.RoyaltyInfo([]byte{1}, big.NewInt(250))
	require.NoError(t, err)
	require.Equal(t, h, info.Receiver)
	require.Equal(t, int64(25), info.Amount.Int64())

	ti.res = halt(stackitem.Make("Token Hacker Challenge"))
	name, err := r.Name()
	require.NoError(t, err)
	require.Equal(t, "Token Hacker Challenge", name)
}

func appLog(events ...state.NotificationEvent) *result.ApplicationLog {
	return &result.ApplicationLog{
		Executions: []state.Execution{{Events: events}},
	}
}

func TestEventsFromApplicationLog(t *testing.T) {
	var (
		ctr    = util.Uint160{1, 2, 3}
		winner = util.Uint160{7, 8, 9}
		holder = util.Uint160{10, 11}
	)

	t.Run("nil log", func(t *testing.T) {
		_, err := UnlockEventsFromApplicationLog(nil)
		require.Error(t, err)
	})

	t.Run("unlock", func(t *testing.T) {
		log := appLog(
			state.NotificationEvent{
				ScriptHash: ctr,
				Name:       "Transfer",
				Item:       stackitem.NewArray([]stackitem.Item{stackitem.Null{}}),
			},
			state.NotificationEvent{
				ScriptHash: ctr,
				Name:       "Unlock",
				Item: stackitem.NewArray([]stackitem.Item{
					stackitem.Make(winner.BytesBE()),
					stackitem.Make(300_0000),
				}),
			},
		)

		res, err := UnlockEventsFromApplicationLog(log)
		require.NoError(t, err)
		require.Len(t, res, 1)
		require.Equal(t, winner, res[0].Winner)
		require.Equal(t, int64(300_0000), res[0].Amount.Int64())
	})

	t.Run("malformed unlock", func(t *testing.T) {
		log := appLog(state.NotificationEvent{
			ScriptHash: ctr,
			Name:       "Unlock",
			Item:       stackitem.NewArray([]stackitem.Item{stackitem.Make(winner.BytesBE())}),
		})
		_, err := UnlockEventsFromApplicationLog(log)
		require.Error(t, err)

		log = appLog(state.NotificationEvent{
			ScriptHash: ctr,
			Name:       "Unlock",
			Item: stackitem.NewArray([]stackitem.Item{
				stackitem.Make([]byte{1, 2, 3}),
				stackitem.Make(1),
			}),
		})
		_, err = UnlockEventsFromApplicationLog(log)
		require.Error(t, err)
	})

	t.Run("approval", func(t *testing.T) {
		log := appLog(
			state.NotificationEvent{
				ScriptHash: ctr,
				Name:       "Approval",
				Item: stackitem.NewArray([]stackitem.Item{
					stackitem.Make(holder.BytesBE()),
					stackitem.Make(winner.BytesBE()),
					stackitem.Make([]byte{1}),
				}),
			},
			state.NotificationEvent{
				ScriptHash: ctr,
				Name:       "Approval",
				Item: stackitem.NewArray([]stackitem.Item{
					stackitem.Make(holder.BytesBE()),
					stackitem.Null{},
					stackitem.Make([]byte{1}),
				}),
			},
		)

		res, err := ApprovalEventsFromApplicationLog(log)
		require.NoError(t, err)
		require.Len(t, res, 2)
		require.Equal(t, winner, res[0].Approved)
		require.Equal(t, util.Uint160{}, res[1].Approved)
		require.Equal(t, []byte{1}, res[1].TokenID)
	})

	t.Run("approval for all", func(t *testing.T) {
		log := appLog(state.NotificationEvent{
			ScriptHash: ctr,
			Name:       "ApprovalForAll",
			Item: stackitem.NewArray([]stackitem.Item{
				stackitem.Make(holder.BytesBE()),
				stackitem.Make(winner.BytesBE()),
				stackitem.Make(true),
			}),
		})

		res, err := ApprovalForAllEventsFromApplicationLog(log)
		require.NoError(t, err)
		require.Equal(t, []*ApprovalForAllEvent{{Owner: holder, Operator: winner, Approved: true}}, res)
	})

	t.Run("ownership and royalty", func(t *testing.T) {
		log := appLog(
			state.NotificationEvent{
				ScriptHash: ctr,
				Name:       "OwnershipTransferred",
				Item: stackitem.NewArray([]stackitem.Item{
					stackitem.Make(holder.BytesBE()),
					stackitem.Make(winner.BytesBE()),
				}),
			},
			state.NotificationEvent{
				ScriptHash: ctr,
				Name:       "RoyaltySet",
				Item: stackitem.NewArray([]stackitem.Item{
					stackitem.Make(winner.BytesBE()),
					stackitem.Make(2500),
				}),
			},
		)

		owners, err := OwnershipTransferredEventsFromApplicationLog(log)
		require.NoError(t, err)
		require.Equal(t, []*OwnershipTransferredEvent{{PreviousOwner: holder, NewOwner: winner}}, owners)

		royalties, err := RoyaltySetEventsFromApplicationLog(log)
		require.NoError(t, err)
		require.Len(t, royalties, 1)
		require.Equal(t, winner, royalties[0].Receiver)
		require.Equal(t, int64(2500), royalties[0].BasisPoints.Int64())

		unlocks, err := UnlockEventsFromApplicationLog(log)
		require.NoError(t, err)
		require.Empty(t, unlocks)
	})
}
