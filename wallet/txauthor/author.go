// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txauthor builds the transactions carrying application data: it
// composes the data output, funds and pays from the spendable outputs of a
// signing key, prices the fee and signs.
package txauthor

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
	"github.com/unwriter/datacash/chain"
	"github.com/unwriter/datacash/netparams"
	"github.com/unwriter/datacash/wallet/nulldata"
	"github.com/unwriter/datacash/wallet/txrules"
	"github.com/unwriter/datacash/wallet/txsizes"
)

// Config holds the defaults a Builder applies to every request.
type Config struct {
	// Net selects the network addresses, keys and signatures belong to.
	Net *netparams.Params

	// Inputs looks up the spendable outputs of signing keys.  Requests
	// without a key never use it.
	Inputs chain.UtxoSource

	// Fees prices transactions.  Nil means txrules.NewFeePolicy.
	Fees *txrules.FeePolicy

	// DustLimit is the smallest positive output value kept in signed
	// transactions.  Zero means txrules.DefaultDustLimit.
	DustLimit btcutil.Amount
}

// Builder creates transactions.  It is immutable once created and safe for
// concurrent use.
type Builder struct {
	net       *netparams.Params
	inputs    chain.UtxoSource
	fees      txrules.FeePolicy
	dustLimit btcutil.Amount
}

// NewBuilder creates a Builder from cfg.
func NewBuilder(cfg *Config) (*Builder, error) {
	if cfg == nil || cfg.Net == nil {
		return nil, errors.New("missing network params")
	}

	fees := txrules.NewFeePolicy()
	if cfg.Fees != nil {
		fees = cfg.Fees
	}

	dustLimit := cfg.DustLimit
	if dustLimit == 0 {
		dustLimit = txrules.DefaultDustLimit
	}
	if dustLimit < 0 {
		return nil, fmt.Errorf("negative dust limit %v", dustLimit)
	}

	return &Builder{
		net:       cfg.Net,
		inputs:    cfg.Inputs,
		fees:      *fees,
		dustLimit: dustLimit,
	}, nil
}

// Net returns the network the Builder creates transactions for.
func (b *Builder) Net() *netparams.Params {
	return b.net
}

// Build creates the transaction described by req.
//
// A request without a key yields an unsigned transaction holding the outputs
// of req.Tx, if any, and the data output.  A request with a key additionally
// spends every output the key can spend, pays each recipient, returns the
// change to the key and is signed.
//
// A signed req.Tx can only be passed through unchanged: asking to add data
// to it or to sign it again fails with ErrAlreadySigned.
func (b *Builder) Build(ctx context.Context,
	req *BuildRequest) (*Draft, error) {

	if req == nil {
		req = &BuildRequest{}
	}

	draft := newDraft(wire.NewMsgTx(wire.TxVersion))
	if req.Tx != nil {
		imported, err := DecodeDraft(req.Tx)
		if err != nil {
			return nil, err
		}
		if imported.IsSigned() && (req.Key != nil || req.Data != nil) {
			return nil, ErrAlreadySigned
		}
		draft = imported
	}

	if req.Fee != nil && (*req.Fee < 0 || *req.Fee > btcutil.MaxSatoshi) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFee, *req.Fee)
	}

	// Data is only embedded in new transactions.  An imported
	// transaction already carries whatever data it was built with.
	var dataScript []byte
	if req.Tx == nil {
		var err error
		dataScript, err = nulldata.Compose(req.Data)
		if err != nil {
			return nil, err
		}
		if req.Data != nil && dataScript == nil {
			log.Debugf("Ignoring %v data payload", req.Data.Kind())
		}
	}

	if !req.signing() {
		return b.buildUnsigned(draft, dataScript, req)
	}
	return b.buildSigned(ctx, draft, dataScript, req)
}

// buildUnsigned appends the data output and records the declared fee.  No
// inputs are added, so the fee is not reflected in the outputs.
func (b *Builder) buildUnsigned(draft *Draft, dataScript []byte,
	req *BuildRequest) (*Draft, error) {

	if dataScript != nil {
		draft.Tx.AddTxOut(wire.NewTxOut(0, dataScript))
	}

	var source txrules.FeeSource
	draft.Fee, source = b.fees.Resolve(
		req.Fee, false, draft.Tx, txsizes.Compressed,
	)

	log.Debugf("Built unsigned transaction with %d outputs, %v fee %v",
		len(draft.Tx.TxOut), source, draft.Fee)

	return draft, nil
}

// buildSigned funds, prices, filters and signs the draft.
func (b *Builder) buildSigned(ctx context.Context, draft *Draft,
	dataScript []byte, req *BuildRequest) (*Draft, error) {

	key := req.Key
	if !key.IsForNet(b.net.Params) {
		return nil, fmt.Errorf("%w: key is not for %v", ErrSign,
			b.net.Network)
	}

	changeAddr, err := btcutil.NewAddressPubKeyHash(
		btcutil.Hash160(key.SerializePubKey()), b.net.Params,
	)
	if err != nil {
		return nil, err
	}
	changeScript, err := txscript.PayToAddrScript(changeAddr)
	if err != nil {
		return nil, err
	}

	// Recipients are checked before any lookup is made.
	payments, err := b.paymentOutputs(req.To)
	if err != nil {
		return nil, err
	}

	if err := b.addInputs(ctx, draft, req.Endpoint, changeAddr); err != nil {
		return nil, err
	}

	tx := draft.Tx
	if dataScript != nil {
		tx.AddTxOut(wire.NewTxOut(0, dataScript))
	}
	for _, payment := range payments {
		tx.AddTxOut(payment)
	}

	// The change output is added before pricing so the estimate accounts
	// for it.  Its value is set once the fee is known.
	change := wire.NewTxOut(0, changeScript)
	tx.AddTxOut(change)

	keyForm := txsizes.Compressed
	if !key.CompressPubKey {
		keyForm = txsizes.Uncompressed
	}
	fee, source := b.fees.Resolve(req.Fee, true, tx, keyForm)

	nonChange := SumOutputValues(tx.TxOut[:len(tx.TxOut)-1])
	changeAmount := draft.TotalInput - nonChange - fee
	if changeAmount < 0 {
		return nil, fmt.Errorf("%w: have %v, need %v plus %v fee",
			ErrInsufficientFunds, draft.TotalInput, nonChange, fee)
	}
	change.Value = int64(changeAmount)

	if changeAmount == 0 {
		tx.TxOut = tx.TxOut[:len(tx.TxOut)-1]
	}
	tx.TxOut = txrules.FilterDust(tx.TxOut, b.dustLimit)

	draft.ChangeIndex = -1
	for i, out := range tx.TxOut {
		if out == change {
			draft.ChangeIndex = i
		}
	}

	// Dust dropped by the filter, including a dust change, goes to the
	// miner.
	draft.Fee = draft.TotalInput - SumOutputValues(tx.TxOut)

	log.Debugf("Pricing %d input transaction: %v fee %v, change %v",
		len(tx.TxIn), source, fee, changeAmount)

	err = AddAllInputScripts(
		tx, draft.PrevScripts, draft.PrevInputValues, key, b.net,
	)
	if err != nil {
		return nil, err
	}

	log.Tracef("Signed transaction %v", logClosure(func() string {
		return spew.Sdump(tx)
	}))

	return draft, nil
}

// paymentOutputs turns recipients into outputs, in order.  Dust payments are
// accepted here and dropped with the other dust later.
func (b *Builder) paymentOutputs(recipients []Recipient) ([]*wire.TxOut, error) {
	outputs := make([]*wire.TxOut, 0, len(recipients))
	for i, r := range recipients {
		addr, err := btcutil.DecodeAddress(r.Address, b.net.Params)
		if err != nil {
			return nil, fmt.Errorf("%w: recipient %d: %v",
				ErrInvalidRecipient, i, err)
		}
		if !addr.IsForNet(b.net.Params) {
			return nil, fmt.Errorf("%w: recipient %d: address %v "+
				"is not for %v", ErrInvalidRecipient, i,
				r.Address, b.net.Network)
		}

		if r.Amount <= 0 {
			return nil, fmt.Errorf("%w: recipient %d: amount %v "+
				"is not positive", ErrInvalidRecipient, i, r.Amount)
		}

		pkScript, err := txscript.PayToAddrScript(addr)
		if err != nil {
			return nil, fmt.Errorf("%w: recipient %d: %v",
				ErrInvalidRecipient, i, err)
		}

		output := wire.NewTxOut(int64(r.Amount), pkScript)
		if err := txrules.CheckOutput(output, 0); err != nil {
			return nil, fmt.Errorf("%w: recipient %d: %v",
				ErrInvalidRecipient, i, err)
		}
		outputs = append(outputs, output)
	}
	return outputs, nil
}

// addInputs spends every output addr can spend.  Inputs the draft already
// has are kept in front and must be among those outputs, as their previous
// scripts and values are needed to sign them.
func (b *Builder) addInputs(ctx context.Context, draft *Draft,
	endpoint string, addr btcutil.Address) error {

	if b.inputs == nil {
		return fmt.Errorf("%w: no utxo source configured",
			ErrInputLookup)
	}

	utxos, err := b.inputs.ListUnspent(ctx, endpoint, addr)
	if err != nil {
		return fmt.Errorf("%w: %v: %w", ErrInputLookup, addr, err)
	}

	log.Debugf("Found %d spendable outputs for %v", len(utxos), addr)

	byOutPoint := make(map[wire.OutPoint]*chain.Utxo, len(utxos))
	for _, utxo := range utxos {
		byOutPoint[utxo.OutPoint] = utxo
	}

	tx := draft.Tx
	spent := make(map[wire.OutPoint]struct{}, len(tx.TxIn))
	draft.PrevScripts = make([][]byte, 0, len(tx.TxIn)+len(utxos))
	draft.PrevInputValues = make([]btcutil.Amount, 0, cap(draft.PrevScripts))
	draft.TotalInput = 0

	for i, txIn := range tx.TxIn {
		utxo, ok := byOutPoint[txIn.PreviousOutPoint]
		if !ok {
			return fmt.Errorf("%w: input %d spends %v which is not "+
				"a spendable output of %v", ErrSign, i,
				txIn.PreviousOutPoint, addr)
		}
		spent[txIn.PreviousOutPoint] = struct{}{}
		draft.addPrevOut(utxo)
	}

	for _, utxo := range utxos {
		if _, ok := spent[utxo.OutPoint]; ok {
			continue
		}
		spent[utxo.OutPoint] = struct{}{}

		tx.AddTxIn(wire.NewTxIn(&utxo.OutPoint, nil, nil))
		draft.addPrevOut(utxo)
	}

	return nil
}

// addPrevOut records the output spent by the next input.
func (d *Draft) addPrevOut(utxo *chain.Utxo) {
	d.PrevScripts = append(d.PrevScripts, utxo.PkScript)
	d.PrevInputValues = append(d.PrevInputValues, utxo.Amount)
	d.TotalInput += utxo.Amount
}
