// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/unwriter/datacash/chain"
	"github.com/unwriter/datacash/internal/prompt"
	"github.com/unwriter/datacash/internal/zero"
	"github.com/unwriter/datacash/wallet"
	"github.com/unwriter/datacash/wallet/txauthor"
	"github.com/unwriter/datacash/wallet/txrules"
)

// errCanceled is returned when the user declines to broadcast.
var errCanceled = errors.New("broadcast canceled")

func main() {
	// Work around defer not working after os.Exit.
	if err := datacashMain(); err != nil {
		os.Exit(1)
	}
}

// datacashMain is a work-around main function that is required since deferred
// functions (such as log flushing) are not called with calls to os.Exit.
// Instead, main runs this function and checks for a non-nil error, at which
// point any defers have already run, and if the error is non-nil, the program
// can be exited with an error exit status.
func datacashMain() error {
	cfg, args, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	command := "build"
	switch len(args) {
	case 0:
	case 1:
		command = args[0]
	default:
		err := fmt.Errorf("unexpected arguments %v", args[1:])
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if command != "build" && command != "send" {
		err := fmt.Errorf("unknown command %q -- use build or send",
			command)
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	ctx, stop := interruptListener(context.Background())
	defer stop()

	err = run(ctx, cfg, command, os.Stdin, os.Stdout)
	if err != nil {
		log.Errorf("%v", err)
		return err
	}
	return nil
}

// run executes command with the request described by cfg, writing the result
// to out.
func run(ctx context.Context, cfg *config, command string, stdin io.Reader,
	out io.Writer) error {

	stdinReader := bufio.NewReader(stdin)

	req, err := buildRequest(cfg, activeNet, stdinReader)
	if err != nil {
		return err
	}
	if cfg.PromptKey {
		req.Key, err = prompt.ProvidePrivateKey(stdinReader,
			activeNet.Params)
		if err != nil {
			return err
		}
	}
	defer zero.WIF(req.Key)

	backend, err := newBackEnd(cfg)
	if err != nil {
		return err
	}
	defer backend.Stop()

	builder, err := txauthor.NewBuilder(&txauthor.Config{
		Net:    activeNet,
		Inputs: backend,
		Fees: &txrules.FeePolicy{
			DefaultFee:   cfg.DefaultFee.Amount,
			FeeRatePerKb: cfg.FeeRate.Amount,
			SafetyMargin: cfg.SafetyMargin,
		},
		DustLimit: cfg.DustLimit.Amount,
	})
	if err != nil {
		return err
	}
	sender := wallet.NewSender(builder, backend)

	draft, err := sender.Build(ctx, req)
	if err != nil {
		return err
	}

	log.Infof("Built %d byte transaction %v: %d %s, %d %s, fee %v",
		draft.Tx.SerializeSizeStripped(), draft.Tx.TxHash(),
		len(draft.Tx.TxIn), pickNoun(len(draft.Tx.TxIn), "input", "inputs"),
		len(draft.Tx.TxOut), pickNoun(len(draft.Tx.TxOut), "output", "outputs"),
		draft.Fee)

	if command == "build" {
		fmt.Fprintln(out, draft.String())
		return nil
	}

	if cfg.Confirm {
		ok, err := prompt.Confirm(stdinReader, os.Stderr,
			fmt.Sprintf("Broadcast transaction %v paying a fee of %v?",
				draft.Tx.TxHash(), draft.Fee), "no")
		if err != nil {
			return err
		}
		if !ok {
			return errCanceled
		}
	}

	txid, err := sender.Publish(ctx, req.Endpoint, draft)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, txid)
	return nil
}

// newBackEnd creates the ledger back end selected by cfg.
func newBackEnd(cfg *config) (chain.Interface, error) {
	switch cfg.BackEnd {
	case "rpc":
		var certs []byte
		if !cfg.NoTLS {
			var err error
			certs, err = os.ReadFile(cfg.CAFile.Value)
			if err != nil {
				return nil, fmt.Errorf("cannot open CA file: %w",
					err)
			}
		} else {
			log.Info("Client TLS is disabled")
		}

		client, err := chain.NewRPCClientWithConfig(&chain.RPCClientConfig{
			Conn: &rpcclient.ConnConfig{
				Host:         cfg.RPCConnect,
				User:         cfg.RPCUser,
				Pass:         cfg.RPCPass,
				Certificates: certs,
				DisableTLS:   cfg.NoTLS,
				HTTPPostMode: true,
			},
			MinConf: cfg.MinConf,
		})
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return chain.NewInsightClient(&chain.InsightConfig{
			URL:     cfg.Indexer.Value,
			Timeout: cfg.Timeout,
		}), nil
	}
}
