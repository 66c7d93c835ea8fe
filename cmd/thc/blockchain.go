package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

const rpcTimeout = 15 * time.Second

// dialRPC dials Neo RPC server. Connection and all requests are done within
// 15s timeout.
func dialRPC(ctx context.Context, endpoint string) (*rpcclient.Client, error) {
	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{
		DialTimeout:    rpcTimeout,
		RequestTimeout: rpcTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	return c, nil
}

// newInvoker returns invoker for read-only calls using sessions, so that
// iterators are returned as is.
func newInvoker(c *rpcclient.Client) *invoker.Invoker {
	return invoker.New(c, nil)
}

// openAccount opens wallet and decrypts account with the given address or
// the default one if address is empty.
func openAccount(cfg walletConfig) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var acc *wallet.Account
	if cfg.Address != "" {
		h, err := address.StringToUint160(cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}
		acc = w.GetAccount(h)
	} else {
		acc = w.GetAccount(w.GetChangeAddress())
	}
	if acc == nil {
		return nil, errors.New("account not found in the wallet")
	}

	err = acc.Decrypt(cfg.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}
