// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txauthor

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/unwriter/datacash/wallet/nulldata"
)

// Recipient is a payment to include in a signed transaction.
type Recipient struct {
	// Address is the encoded address to pay.  It must belong to the
	// network of the Builder.
	Address string

	// Amount is the value paid, in satoshi.
	Amount btcutil.Amount
}

// BuildRequest describes the transaction a caller wants.  Every field is
// optional.
type BuildRequest struct {
	// Tx is a serialized transaction to continue from, typically the
	// output of an earlier Build.  When set, Data is ignored.
	Tx []byte

	// Data is embedded in an OP_RETURN output.
	Data *nulldata.Payload

	// Key signs the transaction.  Its spendable outputs fund it and
	// receive the change.
	Key *btcutil.WIF

	// To lists the payments made by a signed transaction, in output
	// order.  It is ignored when Key is nil.
	To []Recipient

	// Fee overrides the fee policy when set, even when zero.
	Fee *btcutil.Amount

	// Endpoint overrides the indexer queried for spendable outputs.
	Endpoint string
}

// signing reports whether the request takes the signing branch.
func (r *BuildRequest) signing() bool {
	return r.Key != nil
}
