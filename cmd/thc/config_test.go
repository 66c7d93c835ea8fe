package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/thc-contract/contracts"
	"github.com/stretchr/testify/require"
)

var royaltyReceiver = util.Uint160{9, 8, 7}

var testConfig = `
rpc: http://localhost:30333
wallet:
  path: wallet.json
  password: one
challenge:
  name: Token Hacker Challenge
  symbol: THC
  token_uri: ipfs://QmTokenHackerChallenge
  key_contract: "0x0000000000000000000000000000000000030201"
  key_id: "2"
  royalty:
    receiver: ` + address.Uint160ToString(royaltyReceiver) + `
    basis_points: 2500
  funding: "0.03"
`

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig([]byte(testConfig))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:30333", cfg.RPC)
	require.Equal(t, walletConfig{Path: "wallet.json", Password: "one"}, cfg.Wallet)
	require.Equal(t, contracts.ChallengeDir, cfg.ContractDir)

	prm, err := cfg.Challenge.challengePrm()
	require.NoError(t, err)
	require.Equal(t, "Token Hacker Challenge", prm.Name)
	require.Equal(t, "THC", prm.Symbol)
	require.Equal(t, util.Uint160{1, 2, 3}, prm.KeyContract)
	require.Equal(t, []byte{1}, prm.KeyID)

	require.NotNil(t, prm.RoyaltyReceiver)
	require.Equal(t, royaltyReceiver, *prm.RoyaltyReceiver)
	require.NotNil(t, prm.RoyaltyBasisPoints)
	require.EqualValues(t, 2500, *prm.RoyaltyBasisPoints)

	funding, err := cfg.Challenge.funding()
	require.NoError(t, err)
	require.EqualValues(t, 300_0000, funding)
}

func TestParseConfigErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "unknown field", data: "rpc: a\nwallet:\n  path: b\nunknown: c\n"},
		{name: "missing RPC", data: "wallet:\n  path: b\n"},
		{name: "missing wallet", data: "rpc: a\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseConfig([]byte(tc.data))
			require.Error(t, err)
		})
	}
}

func TestChallengeConfigErrors(t *testing.T) {
	valid := challengeConfig{
		KeyContract: util.Uint160{1, 2, 3}.StringLE(),
		KeyID:       base58.Encode([]byte("key")),
	}

	prm, err := valid.challengePrm()
	require.NoError(t, err)
	require.Equal(t, []byte("key"), prm.KeyID)
	require.Nil(t, prm.RoyaltyReceiver)
	require.Nil(t, prm.RoyaltyBasisPoints)

	funding, err := valid.funding()
	require.NoError(t, err)
	require.Zero(t, funding)

	for _, tc := range []struct {
		name   string
		modify func(*challengeConfig)
	}{
		{name: "invalid key contract", modify: func(c *challengeConfig) { c.KeyContract = "not a hash" }},
		{name: "zero key contract", modify: func(c *challengeConfig) { c.KeyContract = util.Uint160{}.StringLE() }},
		{name: "invalid key ID", modify: func(c *challengeConfig) { c.KeyID = "0OIl" }},
		{name: "empty key ID", modify: func(c *challengeConfig) { c.KeyID = "" }},
		{name: "invalid royalty receiver", modify: func(c *challengeConfig) { c.Royalty.Receiver = "NotAnAddress" }},
		{name: "royalty overflow", modify: func(c *challengeConfig) {
			bps := int64(10001)
			c.Royalty.BasisPoints = &bps
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.modify(&c)
			_, err := c.challengePrm()
			require.Error(t, err)
		})
	}

	c := valid
	c.Funding = "-1"
	_, err = c.funding()
	require.Error(t, err)

	c.Funding = "one"
	_, err = c.funding()
	require.Error(t, err)
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thc.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	cfg, err := readConfig(path)
	require.NoError(t, err)
	require.Equal(t, "wallet.json", cfg.Wallet.Path)

	_, err = readConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestParseHash160(t *testing.T) {
	h := util.Uint160{1, 2, 3}

	for _, s := range []string{h.StringLE(), "0x" + h.StringLE(), address.Uint160ToString(h)} {
		res, err := parseHash160(s)
		require.NoError(t, err, s)
		require.Equal(t, h, res, s)
	}

	_, err := parseHash160("123")
	require.Error(t, err)
}
