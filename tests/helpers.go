package tests

import (
	"math/rand"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func randomBytes(n int) []byte {
	a := make([]byte, n)
	rand.Read(a) //nolint:staticcheck // SA1019: rand.Read has been deprecated since Go 1.20
	return a
}

// eventsOf returns parameters of all notifications with the given name
// emitted by the contract in the transaction.
func eventsOf(t testing.TB, e *neotest.Executor, h util.Uint256, ctr util.Uint160, name string) [][]stackitem.Item {
	var res [][]stackitem.Item
	for _, ev := range e.GetTxExecResult(t, h).Events {
		if ev.ScriptHash != ctr || ev.Name != name {
			continue
		}
		res = append(res, eventParams(t, ev))
	}
	return res
}

func eventParams(t testing.TB, ev state.NotificationEvent) []stackitem.Item {
	arr, ok := ev.Item.Value().([]stackitem.Item)
	require.True(t, ok, "notification %s is not an array", ev.Name)
	return arr
}

// hashItem returns script hash in the form contract getters return it after
// reading from storage.
func hashItem(h util.Uint160) stackitem.Item {
	return stackitem.NewBuffer(h.BytesBE())
}
