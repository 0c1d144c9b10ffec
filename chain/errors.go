// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"errors"
	"fmt"
	"strings"
)

// Broadcast rejections.  Back ends report rejections as free form strings
// which MapBroadcastErr maps onto these errors.
var (
	// ErrTxAlreadyKnown is returned when the transaction is already
	// confirmed in the chain.
	ErrTxAlreadyKnown = errors.New("txn already known")

	// ErrTxAlreadyInMempool is returned when the transaction is already in
	// the mempool of the remote node.
	ErrTxAlreadyInMempool = errors.New("txn already in mempool")

	// ErrMempoolConflict is returned when the transaction spends an
	// output already spent by another mempool transaction.
	ErrMempoolConflict = errors.New("txn mempool conflict")

	// ErrMissingInputs is returned when an input of the transaction is
	// unknown or already spent.
	ErrMissingInputs = errors.New("missing inputs")

	// ErrDustOutput is returned when the transaction pays a dust output.
	ErrDustOutput = errors.New("dust output")

	// ErrInsufficientFee is returned when the fee does not meet the relay
	// policy of the remote node.
	ErrInsufficientFee = errors.New("insufficient fee")

	// ErrNonStandard is returned for any other relay policy violation.
	ErrNonStandard = errors.New("non-standard transaction")

	// ErrUndefined is returned when a rejection could not be mapped.
	ErrUndefined = errors.New("undefined broadcast error")
)

// rejectReason pairs a lower case substring of a rejection message with the
// error it maps to.
type rejectReason struct {
	match string
	err   error
}

// rejectReasons lists the known rejection messages of btcd, bitcoind and
// Bitcoin Cash nodes, as relayed verbatim by Insight.  The list is ordered and
// the first match wins.
var rejectReasons = []rejectReason{
	{"txn-already-known", ErrTxAlreadyKnown},
	{"transaction already exists", ErrTxAlreadyKnown},
	{"database contains entry for spent tx output", ErrTxAlreadyKnown},
	{"transaction already in block chain", ErrTxAlreadyKnown},

	{"txn-already-in-mempool", ErrTxAlreadyInMempool},
	{"already have transaction", ErrTxAlreadyInMempool},

	{"txn-mempool-conflict", ErrMempoolConflict},
	{"output already spent in mempool", ErrMempoolConflict},

	{"missing-inputs", ErrMissingInputs},
	{"missingorspent", ErrMissingInputs},
	{"either does not exist or has already been spent", ErrMissingInputs},

	{"min relay fee not met", ErrInsufficientFee},
	{"mempool min fee not met", ErrInsufficientFee},
	{"insufficient fee", ErrInsufficientFee},
	{"insufficient priority", ErrInsufficientFee},
	{"fees which is under the required amount", ErrInsufficientFee},

	{"dust", ErrDustOutput},

	{"non-standard", ErrNonStandard},
	{"scriptpubkey", ErrNonStandard},
	{"scriptsig-not-pushonly", ErrNonStandard},
	{"scriptsig-size", ErrNonStandard},
	{"multi-op-return", ErrNonStandard},
	{"tx-size", ErrNonStandard},
	{"oversize-op-return", ErrNonStandard},
}

// broadcastErrs are the errors MapBroadcastErr may return.
var broadcastErrs = []error{
	ErrTxAlreadyKnown, ErrTxAlreadyInMempool, ErrMempoolConflict,
	ErrMissingInputs, ErrDustOutput, ErrInsufficientFee, ErrNonStandard,
	ErrUndefined,
}

// MapBroadcastErr takes an error returned by a back end when relaying a
// transaction and maps it to one of the errors defined here.  The original
// error message is kept in the returned error.
func MapBroadcastErr(err error) error {
	if err == nil {
		return nil
	}

	// Errors that were already mapped are returned as is.
	for _, known := range broadcastErrs {
		if errors.Is(err, known) {
			return err
		}
	}

	for _, reason := range rejectReasons {
		if matchErrStr(err, reason.match) {
			return fmt.Errorf("%w: %v", reason.err, err)
		}
	}

	return fmt.Errorf("%w: %v", ErrUndefined, err)
}

// matchErrStr takes an error returned from a back end and matches it against
// the specified string. Both are lower cased and have their dashes replaced
// by spaces before comparing.
func matchErrStr(err error, s string) bool {
	target := strings.ToLower(s)
	target = strings.ReplaceAll(target, "-", " ")

	errStr := strings.ToLower(err.Error())
	errStr = strings.ReplaceAll(errStr, "-", " ")

	return strings.Contains(errStr, target)
}
