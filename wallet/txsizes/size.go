// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txsizes estimates the serialized size a transaction will have once
// every input spending a pay-to-pubkey-hash output is signed.  Estimates
// never depend on signature scripts, so an unsigned draft and its signed
// form are priced the same.
package txsizes

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const (
	// envelopeSize is the version and lock time of a transaction.
	envelopeSize = 4 + 4

	// outPointSize is the previous output referenced by an input.
	outPointSize = chainhash.HashSize + 4

	// sequenceSize is the sequence number closing every input.
	sequenceSize = 4
)

// PubKeyForm is the serialization of the public key pushed by the signature
// scripts of a transaction.
type PubKeyForm uint8

const (
	// Compressed keys serialize to 33 bytes.
	Compressed PubKeyForm = iota

	// Uncompressed keys serialize to 65 bytes.
	Uncompressed
)

const (
	// MaxP2PKHSigScriptSize is the largest signature script spending a
	// P2PKH output of a compressed key: a push of a DER signature of at
	// most 72 bytes followed by its hash type, then a push of the 33 byte
	// public key.
	MaxP2PKHSigScriptSize = 1 + 72 + 1 + 1 + 33

	// MaxP2PKHUncompressedSigScriptSize is MaxP2PKHSigScriptSize for a key
	// pushed in its 65 byte uncompressed form.
	MaxP2PKHUncompressedSigScriptSize = 1 + 72 + 1 + 1 + 65

	// P2PKHPkScriptSize is the size of
	// OP_DUP OP_HASH160 <20 byte hash> OP_EQUALVERIFY OP_CHECKSIG.
	P2PKHPkScriptSize = 3 + 20 + 2

	// P2PKHInputSize is the largest serialized input spending a P2PKH
	// output of a compressed key.  The signature script length always
	// fits a one byte compact size.
	P2PKHInputSize = outPointSize + 1 + MaxP2PKHSigScriptSize + sequenceSize

	// P2PKHUncompressedInputSize is P2PKHInputSize for an uncompressed key.
	P2PKHUncompressedInputSize = outPointSize + 1 +
		MaxP2PKHUncompressedSigScriptSize + sequenceSize

	// P2PKHOutputSize is the serialized size of a P2PKH output, the shape
	// of every payment and change output.
	P2PKHOutputSize = 8 + 1 + P2PKHPkScriptSize
)

// InputSize returns the largest serialized P2PKH input signed by a key of the
// given form.
func InputSize(form PubKeyForm) int {
	if form == Uncompressed {
		return P2PKHUncompressedInputSize
	}
	return P2PKHInputSize
}

// OutputsSize is the serialized size of outputs, without their count.
func OutputsSize(outputs []*wire.TxOut) int {
	size := 0
	for _, out := range outputs {
		size += out.SerializeSize()
	}
	return size
}

// Estimate returns the largest serialized size of a transaction spending
// inputs P2PKH outputs, signed by a key of the given form, and paying
// outputs, plus a P2PKH change output when withChange is set.
func Estimate(inputs int, form PubKeyForm, outputs []*wire.TxOut,
	withChange bool) int {

	numOutputs := len(outputs)
	size := envelopeSize + inputs*InputSize(form) + OutputsSize(outputs)
	if withChange {
		numOutputs++
		size += P2PKHOutputSize
	}

	return size + wire.VarIntSerializeSize(uint64(inputs)) +
		wire.VarIntSerializeSize(uint64(numOutputs))
}

// EstimateTxSize estimates the signed size of tx, whose outputs are final,
// once a key of the given form signs every input.
func EstimateTxSize(tx *wire.MsgTx, form PubKeyForm) int {
	return Estimate(len(tx.TxIn), form, tx.TxOut, false)
}
