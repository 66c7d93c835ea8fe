package deploy

import (
	"context"
	"errors"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/config/netmode"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func validChallengePrm() ChallengePrm {
	return ChallengePrm{
		Name:        "Token Hacker Challenge",
		Symbol:      "THC",
		TokenURI:    "ipfs://QmTokenHackerChallenge",
		KeyContract: util.Uint160{1, 2, 3},
		KeyID:       []byte{1},
	}
}

func TestChallengePrmValidate(t *testing.T) {
	require.NoError(t, validChallengePrm().Validate())

	for _, tc := range []struct {
		name   string
		modify func(*ChallengePrm)
	}{
		{name: "zero key contract", modify: func(p *ChallengePrm) { p.KeyContract = util.Uint160{} }},
		{name: "empty key ID", modify: func(p *ChallengePrm) { p.KeyID = nil }},
		{name: "negative royalty", modify: func(p *ChallengePrm) {
			bps := int64(-1)
			p.RoyaltyBasisPoints = &bps
		}},
		{name: "royalty overflow", modify: func(p *ChallengePrm) {
			bps := int64(10001)
			p.RoyaltyBasisPoints = &bps
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := validChallengePrm()
			tc.modify(&p)
			require.Error(t, p.Validate())
		})
	}

	p := validChallengePrm()
	bps := int64(10000)
	p.RoyaltyBasisPoints = &bps
	require.NoError(t, p.Validate())
}

func TestChallengePrmDeployData(t *testing.T) {
	p := validChallengePrm()
	require.Equal(t, []any{p.Name, p.Symbol, p.TokenURI, p.KeyContract, p.KeyID, nil, nil}, p.DeployData())

	receiver := util.Uint160{9}
	bps := int64(2500)
	p.RoyaltyReceiver = &receiver
	p.RoyaltyBasisPoints = &bps
	require.Equal(t, []any{p.Name, p.Symbol, p.TokenURI, p.KeyContract, p.KeyID, receiver, int64(2500)}, p.DeployData())
}

// testChain is a Blockchain where only the contract state lookup is
// available, any other RPC call panics.
type testChain struct {
	actor.RPCActor

	contracts map[util.Uint160]*state.Contract
}

func (c *testChain) GetVersion() (*result.Version, error) {
	return &result.Version{Protocol: result.Protocol{Network: netmode.UnitTestNet}}, nil
}

func (c *testChain) GetContractStateByHash(h util.Uint160) (*state.Contract, error) {
	cs, ok := c.contracts[h]
	if !ok {
		return nil, errors.New("Unknown contract")
	}
	return cs, nil
}

func testDeployPrm(t *testing.T, chain Blockchain) Prm {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	exe, err := nef.NewFile(make([]byte, 32))
	require.NoError(t, err)

	return Prm{
		Logger:       zaptest.NewLogger(t),
		Blockchain:   chain,
		LocalAccount: acc,
		Contract: CommonDeployPrm{
			NEF:      *exe,
			Manifest: *manifest.NewManifest("TokenHackerChallenge"),
		},
		Challenge: validChallengePrm(),
	}
}

func TestDeployInvalidParameters(t *testing.T) {
	chain := &testChain{}

	prm := testDeployPrm(t, chain)
	prm.Challenge.KeyContract = util.Uint160{}
	_, err := Deploy(context.Background(), prm)
	require.ErrorIs(t, err, errZeroKeyContract)

	prm = testDeployPrm(t, chain)
	prm.Funding = -1
	_, err = Deploy(context.Background(), prm)
	require.Error(t, err)
}

func TestDeployAlreadyDeployed(t *testing.T) {
	chain := &testChain{contracts: make(map[util.Uint160]*state.Contract)}
	prm := testDeployPrm(t, chain)

	exp := state.CreateContractHash(prm.LocalAccount.ScriptHash(), prm.Contract.NEF.Checksum, prm.Contract.Manifest.Name)
	chain.contracts[exp] = &state.Contract{ContractBase: state.ContractBase{Hash: exp}}

	h, err := Deploy(context.Background(), prm)
	require.NoError(t, err)
	require.Equal(t, exp, h)
}

func TestDeployCanceled(t *testing.T) {
	prm := testDeployPrm(t, &testChain{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Deploy(ctx, prm)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFundInvalidAmount(t *testing.T) {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	for _, amount := range []int64{0, -1} {
		err = Fund(context.Background(), FundPrm{
			Logger:       zaptest.NewLogger(t),
			Blockchain:   &testChain{},
			LocalAccount: acc,
			Challenge:    util.Uint160{1},
			Amount:       amount,
		})
		require.Error(t, err)
	}
}
