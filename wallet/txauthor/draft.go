// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txauthor

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
)

// Draft holds a transaction produced by the Builder along with what is known
// about the outputs it spends.
//
// Only the transaction itself survives serialization.  A decoded Draft knows
// nothing of its previous outputs or fee.
type Draft struct {
	Tx              *wire.MsgTx
	Fee             btcutil.Amount
	PrevScripts     [][]byte
	PrevInputValues []btcutil.Amount
	TotalInput      btcutil.Amount
	ChangeIndex     int // negative if no change
}

// newDraft wraps tx in a Draft with no change output.
func newDraft(tx *wire.MsgTx) *Draft {
	return &Draft{
		Tx:          tx,
		ChangeIndex: -1,
	}
}

// IsSigned reports whether the transaction carries a signature, which is
// judged from its first input only.  A transaction without inputs is never
// signed, and neither is one whose first input is unsigned, even when a later
// input carries a signature script.
func (d *Draft) IsSigned() bool {
	if len(d.Tx.TxIn) == 0 {
		return false
	}
	in := d.Tx.TxIn[0]
	return len(in.SignatureScript) > 0 || len(in.Witness) > 0
}

// Bytes serializes the transaction.  The witness encoding is never used,
// none of the supported chains carry witness data and a transaction without
// inputs would be mistaken for its marker.
func (d *Draft) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(d.Tx.SerializeSizeStripped())

	// Writing to a bytes.Buffer can only fail by running out of memory.
	_ = d.Tx.SerializeNoWitness(&buf)

	return buf.Bytes()
}

// String returns the hex encoding of the serialized transaction.
func (d *Draft) String() string {
	return hex.EncodeToString(d.Bytes())
}

// DecodeDraft decodes a transaction serialized by Draft.Bytes.  Trailing bytes
// are an error.
func DecodeDraft(serialized []byte) (*Draft, error) {
	r := bytes.NewReader(serialized)

	tx := new(wire.MsgTx)
	if err := tx.DeserializeNoWitness(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTx, err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedTx,
			r.Len())
	}

	return newDraft(tx), nil
}

// DecodeDraftHex decodes the hex encoding of a serialized transaction.
func DecodeDraftHex(s string) (*Draft, error) {
	serialized, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTx, err)
	}
	return DecodeDraft(serialized)
}

// SumOutputValues sums up the list of TxOuts and returns an Amount.
func SumOutputValues(outputs []*wire.TxOut) (totalOutput btcutil.Amount) {
	for _, txOut := range outputs {
		totalOutput += btcutil.Amount(txOut.Value)
	}
	return totalOutput
}
