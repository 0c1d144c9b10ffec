// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// BackEnds returns a list of the available back ends.
func BackEnds() []string {
	return []string{
		"insight",
		"rpc",
	}
}

// UtxoSource looks up the spendable outputs paying to an address.
//
// The endpoint argument selects the service queried for this call only.  An
// empty endpoint means the source's configured default.
type UtxoSource interface {
	ListUnspent(ctx context.Context, endpoint string,
		addr btcutil.Address) ([]*Utxo, error)
}

// Broadcaster relays a signed transaction to the network and returns the
// transaction id reported by the remote service.
//
// Rejections are reported as errors matching one of the sentinel errors of
// this package, see MapBroadcastErr.
type Broadcaster interface {
	Broadcast(ctx context.Context, endpoint string,
		tx *wire.MsgTx) (*chainhash.Hash, error)
}

// Interface is a ledger back end able to both look up spendable outputs and
// broadcast transactions.
type Interface interface {
	UtxoSource
	Broadcaster

	// BackEnd returns the name of the driver.
	BackEnd() string

	// Stop releases the connections held by the back end.
	Stop()
}
