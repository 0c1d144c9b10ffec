// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txrules

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/unwriter/datacash/wallet/txsizes"
)

const (
	// DefaultFee is the flat fee used when neither an explicit fee nor
	// a size based estimate applies.
	DefaultFee btcutil.Amount = 400

	// DefaultSafetyMargin is the percentage added on top of the estimated
	// serialize size of a transaction before it is priced.
	DefaultSafetyMargin = 10
)

// FeeSource describes which rule produced a fee.
type FeeSource uint8

const (
	// FeeOverride is a fee given explicitly by the caller.
	FeeOverride FeeSource = iota

	// FeeEstimate is a fee derived from the estimated transaction size.
	FeeEstimate

	// FeeDefault is the flat default fee.
	FeeDefault
)

// String returns a human readable name for the fee source.
func (s FeeSource) String() string {
	switch s {
	case FeeOverride:
		return "override"
	case FeeEstimate:
		return "estimate"
	case FeeDefault:
		return "default"
	default:
		return "unknown"
	}
}

// FeePolicy decides the fee paid by a transaction.
//
// Resolution order, highest precedence first:
//
//  1. an explicit override, used verbatim
//  2. when signing a transaction with inputs, an estimate priced at
//     FeeRatePerKb over the worst case signed size padded by SafetyMargin
//     percent
//  3. DefaultFee
type FeePolicy struct {
	DefaultFee   btcutil.Amount
	FeeRatePerKb btcutil.Amount
	SafetyMargin uint32
}

// NewFeePolicy returns a FeePolicy populated with the package defaults.
func NewFeePolicy() *FeePolicy {
	return &FeePolicy{
		DefaultFee:   DefaultFee,
		FeeRatePerKb: DefaultRelayFeePerKb,
		SafetyMargin: DefaultSafetyMargin,
	}
}

// Resolve picks the fee for tx.  The estimate is only considered when signing
// is true and tx already lists its inputs, which a key of the given form will
// sign.  It must be called before any signature script is attached, the
// signed size being accounted for by the estimator.
func (p *FeePolicy) Resolve(override *btcutil.Amount, signing bool,
	tx *wire.MsgTx, form txsizes.PubKeyForm) (btcutil.Amount, FeeSource) {

	switch {
	case override != nil:
		return *override, FeeOverride

	case signing && len(tx.TxIn) > 0:
		return p.Estimate(tx, form), FeeEstimate

	default:
		return p.DefaultFee, FeeDefault
	}
}

// Estimate prices the worst case signed size of tx, padded by the safety
// margin and rounded up to the next byte.
func (p *FeePolicy) Estimate(tx *wire.MsgTx, form txsizes.PubKeyForm) btcutil.Amount {
	size := txsizes.EstimateTxSize(tx, form)
	padded := (size*(100+int(p.SafetyMargin)) + 99) / 100
	return FeeForSerializeSize(p.FeeRatePerKb, padded)
}
