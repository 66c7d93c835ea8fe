// Command thc deploys and inspects Token Hacker Challenge contracts.
package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/thc-contract/common"
	"github.com/nspcc-dev/thc-contract/contracts"
	"github.com/nspcc-dev/thc-contract/contracts/challenge/challengeconst"
	"github.com/nspcc-dev/thc-contract/deploy"
	"github.com/nspcc-dev/thc-contract/rpc/challenge"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const tokensPageSize = 100

var (
	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Path to the YAML configuration file",
		Value: "thc.yml",
	}
	rpcFlag = cli.StringFlag{
		Name:  "rpc, r",
		Usage: "Network address of the Neo RPC server",
	}
	contractFlag = cli.StringFlag{
		Name:  "contract",
		Usage: "Challenge contract address or LE script hash",
	}
	debugFlag = cli.BoolFlag{
		Name:  "debug, d",
		Usage: "Enable debug logging",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "thc"
	app.Usage = "Token Hacker Challenge contract tool"
	app.Version = versionString(common.Version)
	app.Flags = []cli.Flag{debugFlag}
	app.Commands = []cli.Command{
		{
			Name:   "deploy",
			Usage:  "Deploy and fund the challenge contract",
			Flags:  []cli.Flag{configFlag},
			Action: deployChallenge,
		},
		{
			Name:  "fund",
			Usage: "Deposit GAS prize to the challenge contract",
			Flags: []cli.Flag{
				configFlag,
				contractFlag,
				cli.StringFlag{
					Name:  "amount",
					Usage: "Amount of GAS to deposit",
				},
			},
			Action: fundChallenge,
		},
		{
			Name:   "inspect",
			Usage:  "Print the challenge contract state",
			Flags:  []cli.Flag{rpcFlag, contractFlag},
			Action: inspectChallenge,
		},
		{
			Name:   "tokens",
			Usage:  "List tokens of the challenge contract",
			Flags:  []cli.Flag{rpcFlag, contractFlag},
			Action: listTokens,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// versionString formats numeric contract version as major.minor.patch.
func versionString(v int) string {
	return fmt.Sprintf("%d.%d.%d", v/1_000_000, v/1_000%1_000, v%1_000)
}

func newLogger(debug bool) (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.Encoding = "console"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		c.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return c.Build()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func contractAddress(c *cli.Context) (util.Uint160, error) {
	s := c.String(contractFlag.Name)
	if s == "" {
		return util.Uint160{}, cli.NewExitError("missing challenge contract", 1)
	}
	h, err := parseHash160(s)
	if err != nil {
		return h, cli.NewExitError(fmt.Errorf("invalid challenge contract: %w", err), 1)
	}
	return h, nil
}

func deployChallenge(c *cli.Context) error {
	cfg, err := readConfig(c.String("config"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	log, err := newLogger(c.GlobalBool("debug"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	prm := deploy.Prm{Logger: log}

	prm.Challenge, err = cfg.Challenge.challengePrm()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid challenge configuration: %w", err), 1)
	}
	prm.Funding, err = cfg.Challenge.funding()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	ctr, err := contracts.Read(os.DirFS(filepath.Dir(cfg.ContractDir)), filepath.Base(cfg.ContractDir))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	prm.Contract = deploy.CommonDeployPrm{NEF: ctr.NEF, Manifest: ctr.Manifest}

	prm.LocalAccount, err = openAccount(cfg.Wallet)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	rpc, err := dialRPC(ctx, cfg.RPC)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer rpc.Close()
	prm.Blockchain = rpc

	h, err := deploy.Deploy(ctx, prm)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	fmt.Fprintf(c.App.Writer, "%s (%s)\n", address.Uint160ToString(h), h.StringLE())
	return nil
}

func fundChallenge(c *cli.Context) error {
	cfg, err := readConfig(c.String("config"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	h, err := contractAddress(c)
	if err != nil {
		return err
	}

	amount, err := parseGAS(c.String("amount"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	log, err := newLogger(c.GlobalBool("debug"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	acc, err := openAccount(cfg.Wallet)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	rpc, err := dialRPC(ctx, cfg.RPC)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer rpc.Close()

	err = deploy.Fund(ctx, deploy.FundPrm{
		Logger:       log,
		Blockchain:   rpc,
		LocalAccount: acc,
		Challenge:    h,
		Amount:       amount,
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

// status is a snapshot of the challenge contract state.
type status struct {
	Name        string
	Symbol      string
	Owner       util.Uint160
	Holder      util.Uint160
	Unlocked    bool
	KeyContract util.Uint160
	KeyID       []byte
	Prize       *big.Int
	Royalty     *challenge.RoyaltyInfo
}

func readStatus(r *challenge.ContractReader, prize func() (*big.Int, error)) (*status, error) {
	var (
		st  status
		err error
	)

	if st.Name, err = r.Name(); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if st.Symbol, err = r.Symbol(); err != nil {
		return nil, fmt.Errorf("symbol: %w", err)
	}
	if st.Owner, err = r.Owner(); err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	if st.Holder, err = r.OwnerOf([]byte(challengeconst.TokenID)); err != nil {
		return nil, fmt.Errorf("token holder: %w", err)
	}
	if st.Unlocked, err = r.IsUnlocked(); err != nil {
		return nil, fmt.Errorf("unlock status: %w", err)
	}
	if st.KeyContract, err = r.KeyContract(); err != nil {
		return nil, fmt.Errorf("key contract: %w", err)
	}
	if st.KeyID, err = r.KeyID(); err != nil {
		return nil, fmt.Errorf("key token ID: %w", err)
	}
	if st.Prize, err = prize(); err != nil {
		return nil, fmt.Errorf("prize: %w", err)
	}
	st.Royalty, err = r.RoyaltyInfo([]byte(challengeconst.TokenID), big.NewInt(challengeconst.MaxRoyaltyBasisPoints))
	if err != nil {
		return nil, fmt.Errorf("royalty: %w", err)
	}

	return &st, nil
}

func (st *status) print(w io.Writer) {
	fmt.Fprintf(w, "Name:\t\t%s (%s)\n", st.Name, st.Symbol)
	fmt.Fprintf(w, "Owner:\t\t%s\n", address.Uint160ToString(st.Owner))
	fmt.Fprintf(w, "Holder:\t\t%s\n", address.Uint160ToString(st.Holder))
	fmt.Fprintf(w, "Unlocked:\t%t\n", st.Unlocked)
	fmt.Fprintf(w, "Key:\t\t%s #%s\n", st.KeyContract.StringLE(), base58.Encode(st.KeyID))
	fmt.Fprintf(w, "Prize:\t\t%s GAS\n", fixedn.ToString(st.Prize, 8))
	// Sale price is equal to max basis points, so the amount is a rate.
	fmt.Fprintf(w, "Royalty:\t%s bps to %s\n", st.Royalty.Amount, address.Uint160ToString(st.Royalty.Receiver))
}

func inspectChallenge(c *cli.Context) error {
	h, err := contractAddress(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	rpc, err := dialRPC(ctx, c.String("rpc"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer rpc.Close()

	inv := newInvoker(rpc)
	st, err := readStatus(challenge.NewReader(inv, h), func() (*big.Int, error) {
		return gas.NewReader(inv).BalanceOf(h)
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	st.print(c.App.Writer)
	return nil
}

func listTokens(c *cli.Context) error {
	h, err := contractAddress(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	rpc, err := dialRPC(ctx, c.String("rpc"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer rpc.Close()

	inv := newInvoker(rpc)
	sess, iter, err := challenge.NewReader(inv, h).Tokens()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = inv.TerminateSession(sess) }()

	for {
		items, err := inv.TraverseIterator(sess, &iter, tokensPageSize)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("traverse tokens: %w", err), 1)
		}
		for _, item := range items {
			id, err := item.TryBytes()
			if err != nil {
				return cli.NewExitError(fmt.Errorf("invalid token ID: %w", err), 1)
			}
			fmt.Fprintln(c.App.Writer, base58.Encode(id))
		}
		if len(items) < tokensPageSize {
			return nil
		}
	}
}
