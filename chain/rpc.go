// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"errors"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
)

const (
	// defaultMaxConf is the upper confirmation bound passed to
	// listunspent, matching the bound used by the reference client.
	defaultMaxConf = 9999999
)

// RPCClientConfig defines the config options used when initializing the RPC
// Client.
type RPCClientConfig struct {
	// Conn describes the connection configuration parameters for the
	// client.
	Conn *rpcclient.ConnConfig

	// MinConf is the minimum number of confirmations of the outputs
	// returned by ListUnspent.  Zero includes mempool outputs.
	MinConf int
}

// validate checks the required config options are set.
func (r *RPCClientConfig) validate() error {
	if r == nil {
		return errors.New("missing rpc config")
	}

	// Make sure connection config is supplied.
	if r.Conn == nil {
		return errors.New("missing conn config")
	}

	if r.MinConf < 0 {
		return errors.New("minconf must not be negative")
	}

	// If disableTLS is false, the remote RPC certificate must be provided
	// in the certs slice.
	if !r.Conn.DisableTLS && r.Conn.Certificates == nil {
		return errors.New("must provide certs when TLS is enabled")
	}

	return nil
}

// RPCClient represents a persistent client connection to a bitcoin RPC server
// with the wallet enabled, such as btcd paired with btcwallet or a bitcoind
// or Bitcoin Cash node.  Requests are made in HTTP POST mode so no websocket
// is held open.
type RPCClient struct {
	*rpcclient.Client

	host    string
	minConf int
}

// Compile time check to ensure RPCClient satisfies the chain.Interface.
var _ Interface = (*RPCClient)(nil)

// NewRPCClientWithConfig creates a client for the server described by cfg.
func NewRPCClientWithConfig(cfg *RPCClientConfig) (*RPCClient, error) {
	// Make sure the config is valid.
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.Conn.HTTPPostMode = true

	client, err := rpcclient.New(cfg.Conn, nil)
	if err != nil {
		return nil, err
	}

	return &RPCClient{
		Client:  client,
		host:    cfg.Conn.Host,
		minConf: cfg.MinConf,
	}, nil
}

// BackEnd returns the name of the driver.
func (c *RPCClient) BackEnd() string {
	return "rpc"
}

// Stop disconnects the client and waits for its goroutines to exit.
func (c *RPCClient) Stop() {
	c.Client.Shutdown()
	c.Client.WaitForShutdown()
}

// ListUnspent returns the unspent outputs paying to addr as seen by the
// wallet of the connected node.  The node must watch addr.
//
// This is part of the chain.UtxoSource interface.
func (c *RPCClient) ListUnspent(ctx context.Context, endpoint string,
	addr btcutil.Address) ([]*Utxo, error) {

	c.warnEndpoint(endpoint)

	results, err := receive(ctx, func() ([]btcjson.ListUnspentResult, error) {
		return c.Client.ListUnspentMinMaxAddressesAsync(
			c.minConf, defaultMaxConf, []btcutil.Address{addr},
		).Receive()
	})
	if err != nil {
		return nil, err
	}

	utxos := make([]*Utxo, 0, len(results))
	for _, r := range results {
		amount, err := btcutil.NewAmount(r.Amount)
		if err != nil {
			return nil, err
		}

		utxo, err := newUtxo(
			r.TxID, r.Vout, r.ScriptPubKey, amount,
			r.Confirmations, r.Address,
		)
		if err != nil {
			return nil, err
		}
		utxos = append(utxos, utxo)
	}

	log.Debugf("Node returned %d unspent outputs for %v", len(utxos), addr)

	return utxos, nil
}

// Broadcast sends a raw transaction to the node.
//
// This is part of the chain.Broadcaster interface.
func (c *RPCClient) Broadcast(ctx context.Context, endpoint string,
	tx *wire.MsgTx) (*chainhash.Hash, error) {

	c.warnEndpoint(endpoint)

	txid, err := receive(ctx, func() (*chainhash.Hash, error) {
		return c.Client.SendRawTransactionAsync(tx, false).Receive()
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, MapBroadcastErr(err)
	}

	return txid, nil
}

// warnEndpoint logs per call endpoint overrides, which the RPC back end can not
// honour.
func (c *RPCClient) warnEndpoint(endpoint string) {
	if endpoint != "" {
		log.Warnf("Ignoring endpoint %v, the rpc back end only talks "+
			"to %v", endpoint, c.host)
	}
}

// receive runs a blocking rpcclient call on its own goroutine so the caller
// returns as soon as ctx is done.
func receive[T any](ctx context.Context, call func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		value, err := call()
		done <- result{value: value, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err

	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
