// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Utxo is an unspent transaction output as reported by a back end.
type Utxo struct {
	OutPoint      wire.OutPoint
	Address       string
	PkScript      []byte
	Amount        btcutil.Amount
	Confirmations int64
}

// TxOut returns the output the Utxo describes.
func (u *Utxo) TxOut() *wire.TxOut {
	return wire.NewTxOut(int64(u.Amount), u.PkScript)
}

// String returns the outpoint and value of the output, used in log lines.
func (u *Utxo) String() string {
	return fmt.Sprintf("%v (%v)", u.OutPoint, u.Amount)
}

// newUtxo validates and converts the loosely typed fields every back end
// reports into a Utxo.
func newUtxo(txid string, vout uint32, scriptHex string,
	amount btcutil.Amount, confs int64, addr string) (*Utxo, error) {

	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, fmt.Errorf("invalid txid %q: %w", txid, err)
	}

	pkScript, err := hex.DecodeString(scriptHex)
	if err != nil {
		return nil, fmt.Errorf("invalid script for %v:%d: %w", txid,
			vout, err)
	}

	if amount < 0 || amount > btcutil.MaxSatoshi {
		return nil, fmt.Errorf("invalid amount %d for %v:%d",
			int64(amount), txid, vout)
	}

	return &Utxo{
		OutPoint:      *wire.NewOutPoint(hash, vout),
		Address:       addr,
		PkScript:      pkScript,
		Amount:        amount,
		Confirmations: confs,
	}, nil
}
