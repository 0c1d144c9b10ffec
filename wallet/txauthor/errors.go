// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txauthor

import "errors"

var (
	// ErrAlreadySigned is returned when a request asks to embed data in,
	// or sign again, a transaction that already carries signatures.
	ErrAlreadySigned = errors.New("the transaction is already signed " +
		"and cannot be modified")

	// ErrMalformedTx is returned when the transaction of a request can
	// not be decoded.
	ErrMalformedTx = errors.New("malformed transaction")

	// ErrInputLookup is returned when the spendable outputs of the
	// signing key could not be fetched.
	ErrInputLookup = errors.New("input lookup failed")

	// ErrInsufficientFunds is returned when the spendable outputs of the
	// signing key do not cover the outputs and the fee.
	ErrInsufficientFunds = errors.New("insufficient funds available " +
		"to construct transaction")

	// ErrInvalidRecipient is returned for a recipient with an address
	// that does not decode on the configured network or an out of range
	// amount.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrInvalidFee is returned for a fee override that is negative or
	// above the total supply.
	ErrInvalidFee = errors.New("invalid fee")

	// ErrSign is returned when an input could not be signed.
	ErrSign = errors.New("unable to sign transaction")
)
