// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txauthor

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/unwriter/datacash/netparams"
)

// AddAllInputScripts signs every input of tx with key.  Previous output
// scripts being redeemed by each input are passed in prevPkScripts and their
// values in inputValues.  Both slices must match the inputs of tx.
//
// Networks using the fork id signature hash sign the BIP0143 digest of each
// input, every other network the legacy digest.  Only pay to pubkey hash
// outputs of key are supported.
func AddAllInputScripts(tx *wire.MsgTx, prevPkScripts [][]byte,
	inputValues []btcutil.Amount, key *btcutil.WIF,
	params *netparams.Params) error {

	inputFetcher, err := TXPrevOutFetcher(tx, prevPkScripts, inputValues)
	if err != nil {
		return err
	}

	var hashCache *txscript.TxSigHashes
	if params.ForkID() {
		hashCache = txscript.NewTxSigHashes(tx, inputFetcher)
	}

	for i, txIn := range tx.TxIn {
		pkScript := prevPkScripts[i]

		if !txscript.IsPayToPubKeyHash(pkScript) {
			return fmt.Errorf("%w: input %d spends a %v output", ErrSign,
				i, txscript.GetScriptClass(pkScript))
		}

		var sigScript []byte
		if params.ForkID() {
			sigScript, err = forkIDSignatureScript(
				tx, hashCache, i, int64(inputValues[i]),
				pkScript, params.SigHashType, key,
			)
		} else {
			sigScript, err = txscript.SignatureScript(
				tx, i, pkScript, params.SigHashType,
				key.PrivKey, key.CompressPubKey,
			)
		}
		if err != nil {
			return fmt.Errorf("%w: input %d: %v", ErrSign, i, err)
		}

		txIn.SignatureScript = sigScript
	}

	return nil
}

// forkIDSignatureScript returns the signature script spending the pay to pubkey
// hash output pkScript with a fork id signature.  The digest is the one
// BIP0143 defines over the same fields, with the fork id bit set in the hash
// type.  The input value *must* be the value of the output being spent, it is
// committed to by the digest.
func forkIDSignatureScript(tx *wire.MsgTx, hashCache *txscript.TxSigHashes,
	idx int, inputValue int64, pkScript []byte,
	hashType txscript.SigHashType, key *btcutil.WIF) ([]byte, error) {

	sig, err := ForkIDSignature(
		tx, hashCache, idx, inputValue, pkScript, hashType, key,
	)
	if err != nil {
		return nil, err
	}

	return txscript.NewScriptBuilder().
		AddData(sig).
		AddData(key.SerializePubKey()).
		Script()
}

// ForkIDSignature returns the DER signature of input idx, with hashType
// appended, as carried in the signature script of a fork id transaction.
func ForkIDSignature(tx *wire.MsgTx, hashCache *txscript.TxSigHashes,
	idx int, inputValue int64, pkScript []byte,
	hashType txscript.SigHashType, key *btcutil.WIF) ([]byte, error) {

	if hashType&netparams.SigHashForkID == 0 {
		return nil, errors.New("hash type does not carry the fork id")
	}

	hash, err := txscript.CalcWitnessSigHash(
		pkScript, hashCache, hashType, tx, idx, inputValue,
	)
	if err != nil {
		return nil, err
	}

	signature := ecdsa.Sign(key.PrivKey, hash)

	return append(signature.Serialize(), byte(hashType)), nil
}

// TXPrevOutFetcher creates a txscript.PrevOutFetcher from a given slice of
// previous pk scripts and input values.
func TXPrevOutFetcher(tx *wire.MsgTx, prevPkScripts [][]byte,
	inputValues []btcutil.Amount) (*txscript.MultiPrevOutFetcher, error) {

	if len(tx.TxIn) != len(prevPkScripts) {
		return nil, errors.New("tx.TxIn and prevPkScripts slices " +
			"must have equal length")
	}
	if len(tx.TxIn) != len(inputValues) {
		return nil, errors.New("tx.TxIn and inputValues slices " +
			"must have equal length")
	}

	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for idx, txin := range tx.TxIn {
		fetcher.AddPrevOut(txin.PreviousOutPoint, &wire.TxOut{
			Value:    int64(inputValues[idx]),
			PkScript: prevPkScripts[idx],
		})
	}

	return fetcher, nil
}
