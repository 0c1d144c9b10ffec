// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netparams

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// SigHashForkID is the replay protection flag Bitcoin Cash requires on every
// signature hash type.  When set, signature hashes are computed with the
// BIP0143 digest algorithm.
const SigHashForkID txscript.SigHashType = 0x40

// Params is used to group parameters for various networks such as the main
// network and test networks.
type Params struct {
	*chaincfg.Params

	// Network is the user facing network name.  It differs from the
	// embedded chain params name for networks that share btcd's address
	// and key encodings, such as Bitcoin Cash.
	Network string

	// IndexerURL is the default Insight compatible indexer used to look
	// up unspent outputs and broadcast transactions.
	IndexerURL string

	// RPCClientPort is the default JSON-RPC port of a full node on the
	// network.
	RPCClientPort string

	// SigHashType is the hash type used when signing inputs.
	SigHashType txscript.SigHashType
}

// ForkID returns whether signatures on the network commit to the fork id
// flag.
func (p *Params) ForkID() bool {
	return p.SigHashType&SigHashForkID == SigHashForkID
}

// BCHMainNetParams contains parameters specific to the Bitcoin Cash main
// network.  Legacy base58 addresses and WIF keys share the bitcoin main
// network encodings.
var BCHMainNetParams = Params{
	Params:        &chaincfg.MainNetParams,
	Network:       "bch",
	IndexerURL:    "https://cashexplorer.bitcoin.com",
	RPCClientPort: "8332",
	SigHashType:   txscript.SigHashAll | SigHashForkID,
}

// BCHTestNetParams contains parameters specific to the Bitcoin Cash test
// network.
var BCHTestNetParams = Params{
	Params:        &chaincfg.TestNet3Params,
	Network:       "bchtest",
	IndexerURL:    "https://test-bch-insight.bitpay.com",
	RPCClientPort: "18332",
	SigHashType:   txscript.SigHashAll | SigHashForkID,
}

// MainNetParams contains parameters specific to the bitcoin main network
// (wire.MainNet).
var MainNetParams = Params{
	Params:        &chaincfg.MainNetParams,
	Network:       "mainnet",
	IndexerURL:    "https://insight.bitpay.com",
	RPCClientPort: "8332",
	SigHashType:   txscript.SigHashAll,
}

// TestNet3Params contains parameters specific to the bitcoin test network
// (version 3) (wire.TestNet3).
var TestNet3Params = Params{
	Params:        &chaincfg.TestNet3Params,
	Network:       "testnet3",
	IndexerURL:    "https://test-insight.bitpay.com",
	RPCClientPort: "18332",
	SigHashType:   txscript.SigHashAll,
}

// RegressionNetParams contains parameters specific to the regression test
// network (wire.TestNet).  The indexer is expected to run locally.
var RegressionNetParams = Params{
	Params:        &chaincfg.RegressionNetParams,
	Network:       "regtest",
	IndexerURL:    "http://127.0.0.1:3001",
	RPCClientPort: "18443",
	SigHashType:   txscript.SigHashAll,
}

// SimNetParams contains parameters specific to the simulation test network
// (wire.SimNet).
var SimNetParams = Params{
	Params:        &chaincfg.SimNetParams,
	Network:       "simnet",
	IndexerURL:    "http://127.0.0.1:3001",
	RPCClientPort: "18556",
	SigHashType:   txscript.SigHashAll,
}

var byName = map[string]*Params{
	BCHMainNetParams.Network:    &BCHMainNetParams,
	BCHTestNetParams.Network:    &BCHTestNetParams,
	MainNetParams.Network:       &MainNetParams,
	TestNet3Params.Network:      &TestNet3Params,
	RegressionNetParams.Network: &RegressionNetParams,
	SimNetParams.Network:        &SimNetParams,
}

// Lookup returns the parameters registered under the given network name.
func Lookup(network string) (*Params, error) {
	params, ok := byName[network]
	if !ok {
		return nil, fmt.Errorf("unknown network %q", network)
	}
	return params, nil
}
