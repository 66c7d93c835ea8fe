package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/thc-contract/contracts"
	"github.com/nspcc-dev/thc-contract/deploy"
	"gopkg.in/yaml.v3"
)

// config is a YAML configuration of the challenge deployment.
type config struct {
	RPC string `yaml:"rpc"`

	Wallet walletConfig `yaml:"wallet"`

	// Directory with contract.nef and manifest.json of the compiled contract.
	ContractDir string `yaml:"contract_dir"`

	Challenge challengeConfig `yaml:"challenge"`
}

type walletConfig struct {
	Path     string `yaml:"path"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
}

type challengeConfig struct {
	Name        string        `yaml:"name"`
	Symbol      string        `yaml:"symbol"`
	TokenURI    string        `yaml:"token_uri"`
	KeyContract string        `yaml:"key_contract"`
	KeyID       string        `yaml:"key_id"` // base58
	Royalty     royaltyConfig `yaml:"royalty"`
	Funding     string        `yaml:"funding"` // GAS, e.g. "0.03"
}

type royaltyConfig struct {
	Receiver    string `yaml:"receiver"`
	BasisPoints *int64 `yaml:"basis_points"`
}

func readConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*config, error) {
	var cfg config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decode YAML config: %w", err)
	}

	if cfg.RPC == "" {
		return nil, errors.New("missing RPC endpoint")
	}
	if cfg.Wallet.Path == "" {
		return nil, errors.New("missing wallet path")
	}
	if cfg.ContractDir == "" {
		cfg.ContractDir = contracts.ChallengeDir
	}

	return &cfg, nil
}

// challengePrm converts configured challenge into deployment parameters.
func (c challengeConfig) challengePrm() (deploy.ChallengePrm, error) {
	var res = deploy.ChallengePrm{
		Name:               c.Name,
		Symbol:             c.Symbol,
		TokenURI:           c.TokenURI,
		RoyaltyBasisPoints: c.Royalty.BasisPoints,
	}

	var err error

	res.KeyContract, err = parseHash160(c.KeyContract)
	if err != nil {
		return res, fmt.Errorf("invalid key contract: %w", err)
	}

	res.KeyID, err = base58.Decode(c.KeyID)
	if err != nil {
		return res, fmt.Errorf("invalid key token ID: %w", err)
	}

	if c.Royalty.Receiver != "" {
		receiver, err := parseHash160(c.Royalty.Receiver)
		if err != nil {
			return res, fmt.Errorf("invalid royalty receiver: %w", err)
		}
		res.RoyaltyReceiver = &receiver
	}

	return res, res.Validate()
}

// funding returns configured prize deposit in GAS fractions.
func (c challengeConfig) funding() (int64, error) {
	if c.Funding == "" {
		return 0, nil
	}
	return parseGAS(c.Funding)
}

func parseGAS(s string) (int64, error) {
	v, err := fixedn.Fixed8FromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid GAS amount %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative GAS amount %q", s)
	}
	return int64(v), nil
}

// parseHash160 accepts both Neo address and hex-encoded LE script hash with
// optional 0x prefix.
func parseHash160(s string) (util.Uint160, error) {
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}
	return util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
}
