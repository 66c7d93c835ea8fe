package deploy

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/thc-contract/contracts/challenge/challengeconst"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the challenge deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash may return non-nil state.Contract along
	// with an error.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// ChallengePrm groups parameters the challenge contract is initialized with.
type ChallengePrm struct {
	Name     string
	Symbol   string
	TokenURI string

	// Contract of the key token unlocking the challenge.
	KeyContract util.Uint160
	// Identifier of the key token within KeyContract.
	KeyID []byte

	// Optional royalty receiver, deployer by default.
	RoyaltyReceiver *util.Uint160
	// Optional royalty rate in basis points, 1000 by default.
	RoyaltyBasisPoints *int64
}

// Prm groups all parameters of the challenge deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance the challenge is deployed to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It becomes the challenge owner and the first token holder.
	LocalAccount *wallet.Account

	Contract  CommonDeployPrm
	Challenge ChallengePrm

	// Amount of GAS fractions (1e-8) deposited as a prize right after the
	// deployment. Zero means no deposit.
	Funding int64
}

var errZeroKeyContract = errors.New("zero key contract address")

// Validate checks that the challenge can be initialized with the parameters.
func (p ChallengePrm) Validate() error {
	if p.KeyContract.Equals(util.Uint160{}) {
		return errZeroKeyContract
	}
	if len(p.KeyID) == 0 {
		return errors.New("empty key token ID")
	}
	if p.RoyaltyBasisPoints != nil {
		if bps := *p.RoyaltyBasisPoints; bps < 0 || bps > challengeconst.MaxRoyaltyBasisPoints {
			return fmt.Errorf("royalty basis points %d out of [0, %d]", bps, challengeconst.MaxRoyaltyBasisPoints)
		}
	}
	return nil
}

// DeployData returns data argument of the challenge contract deployment.
func (p ChallengePrm) DeployData() []any {
	var receiver, bps any
	if p.RoyaltyReceiver != nil {
		receiver = *p.RoyaltyReceiver
	}
	if p.RoyaltyBasisPoints != nil {
		bps = *p.RoyaltyBasisPoints
	}
	return []any{p.Name, p.Symbol, p.TokenURI, p.KeyContract, p.KeyID, receiver, bps}
}

// Deploy deploys the challenge contract from Prm.LocalAccount and funds it
// with Prm.Funding GAS. Address of the contract is returned.
//
// Deploy is idempotent regarding the contract itself: if the contract with
// the same NEF, name and sender already exists, it is not deployed again, but
// the funding is still made.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	var res util.Uint160

	if err := prm.Challenge.Validate(); err != nil {
		return res, fmt.Errorf("invalid challenge parameters: %w", err)
	}
	if prm.Funding < 0 {
		return res, fmt.Errorf("negative funding %d", prm.Funding)
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return res, fmt.Errorf("init transaction sender from single local account: %w", err)
	}

	res = state.CreateContractHash(act.Sender(), prm.Contract.NEF.Checksum, prm.Contract.Manifest.Name)
	log := prm.Logger.With(zap.Stringer("contract", res))

	if err = ctx.Err(); err != nil {
		return res, err
	}

	_, err = prm.Blockchain.GetContractStateByHash(res)
	if err == nil {
		log.Info("challenge contract is already deployed, skip")
	} else {
		log.Info("deploying challenge contract...",
			zap.String("name", prm.Challenge.Name),
			zap.Stringer("key contract", prm.Challenge.KeyContract))

		_, err = waitHalt(act.Wait(management.New(act).Deploy(&prm.Contract.NEF, &prm.Contract.Manifest, prm.Challenge.DeployData())))
		if err != nil {
			return res, fmt.Errorf("deploy challenge contract: %w", err)
		}

		log.Info("challenge contract successfully deployed")
	}

	if prm.Funding == 0 {
		return res, nil
	}

	if err = ctx.Err(); err != nil {
		return res, err
	}

	err = fund(act, res, prm.Funding)
	if err != nil {
		return res, err
	}

	log.Info("challenge contract successfully funded", zap.Int64("amount", prm.Funding))

	return res, nil
}

// FundPrm groups parameters of the prize deposit.
type FundPrm struct {
	Logger       *zap.Logger
	Blockchain   actor.RPCActor
	LocalAccount *wallet.Account

	// Challenge contract address.
	Challenge util.Uint160
	// Amount of GAS fractions (1e-8) to deposit.
	Amount int64
}

// Fund transfers FundPrm.Amount of GAS from the local account to the
// challenge contract. Deposits are refused by the contract once the
// challenge is unlocked.
func Fund(ctx context.Context, prm FundPrm) error {
	if prm.Amount <= 0 {
		return fmt.Errorf("non-positive amount %d", prm.Amount)
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return fmt.Errorf("init transaction sender from single local account: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	err = fund(act, prm.Challenge, prm.Amount)
	if err != nil {
		return err
	}

	prm.Logger.Info("GAS deposited", zap.Stringer("contract", prm.Challenge), zap.Int64("amount", prm.Amount))

	return nil
}

func fund(act *actor.Actor, to util.Uint160, amount int64) error {
	_, err := waitHalt(act.Wait(gas.New(act).Transfer(act.Sender(), to, big.NewInt(amount), nil)))
	if err != nil {
		return fmt.Errorf("transfer %d GAS fractions to %s: %w", amount, to.StringLE(), err)
	}
	return nil
}

// waitHalt checks that the awaited transaction was successfully executed.
func waitHalt(res *state.AppExecResult, err error) (*state.AppExecResult, error) {
	if err != nil {
		return nil, err
	}
	if res.VMState != vmstate.Halt {
		return res, fmt.Errorf("transaction %s failed: %s", res.Container.StringLE(), res.FaultException)
	}
	return res, nil
}
