// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txrules

import (
	"errors"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
)

// DefaultRelayFeePerKb is the default minimum relay fee policy for a mempool.
const DefaultRelayFeePerKb btcutil.Amount = 1e3

// DefaultDustLimit is the smallest positive output value relayed by nodes
// with default policies.  It is the dust threshold of a P2PKH output at the
// default relay fee.
const DefaultDustLimit btcutil.Amount = 546

// IsDustAmount determines whether a transaction output value would cause the
// output to be considered dust.  Zero value outputs are never dust: they only
// show up as data carriers, which are unspendable by construction.
func IsDustAmount(amount, dustLimit btcutil.Amount) bool {
	return amount > 0 && amount < dustLimit
}

// IsDustOutput determines whether a transaction output is considered dust.
// Transactions with dust outputs are not standard and are rejected by mempools
// with default policies.
func IsDustOutput(output *wire.TxOut, dustLimit btcutil.Amount) bool {
	return IsDustAmount(btcutil.Amount(output.Value), dustLimit)
}

// FilterDust returns the outputs which are not dust, preserving their order.
// The passed slice is not modified.
func FilterDust(outputs []*wire.TxOut, dustLimit btcutil.Amount) []*wire.TxOut {
	kept := make([]*wire.TxOut, 0, len(outputs))
	for _, output := range outputs {
		if IsDustOutput(output, dustLimit) {
			continue
		}
		kept = append(kept, output)
	}
	return kept
}

// Transaction rule violations
var (
	ErrAmountNegative   = errors.New("transaction output amount is negative")
	ErrAmountExceedsMax = errors.New("transaction output amount exceeds maximum value")
	ErrOutputIsDust     = errors.New("transaction output is dust")
)

// CheckOutput performs simple consensus and policy tests on a transaction
// output.
func CheckOutput(output *wire.TxOut, dustLimit btcutil.Amount) error {
	if output.Value < 0 {
		return ErrAmountNegative
	}
	if output.Value > btcutil.MaxSatoshi {
		return ErrAmountExceedsMax
	}
	if IsDustOutput(output, dustLimit) {
		return ErrOutputIsDust
	}
	return nil
}

// FeeForSerializeSize calculates the required fee for a transaction of some
// arbitrary size given a mempool's relay fee policy.
func FeeForSerializeSize(relayFeePerKb btcutil.Amount, txSerializeSize int) btcutil.Amount {
	fee := relayFeePerKb * btcutil.Amount(txSerializeSize) / 1000

	if fee == 0 && relayFeePerKb > 0 {
		fee = relayFeePerKb
	}

	if fee < 0 || fee > btcutil.MaxSatoshi {
		fee = btcutil.MaxSatoshi
	}

	return fee
}
