// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

// AmountFlag embeds a btcutil.Amount and implements the flags.Marshaler and
// Unmarshaler interfaces so it can be used as a config struct field.
//
// Plain integers are read as satoshis.  Values with a fractional part or a
// " BTC" suffix are read as whole coins.  Like ExplicitString, it records
// whether the value was set by the flags parser.
type AmountFlag struct {
	btcutil.Amount
	explicitlySet bool
}

// NewAmountFlag creates an AmountFlag with a default btcutil.Amount.
func NewAmountFlag(defaultValue btcutil.Amount) *AmountFlag {
	return &AmountFlag{Amount: defaultValue}
}

// ExplicitlySet reports whether the value came from the flags parser rather
// than from NewAmountFlag.
func (a *AmountFlag) ExplicitlySet() bool { return a.explicitlySet }

// MarshalFlag satisfies the flags.Marshaler interface.
func (a *AmountFlag) MarshalFlag() (string, error) {
	return strconv.FormatInt(int64(a.Amount), 10), nil
}

// UnmarshalFlag satisfies the flags.Unmarshaler interface.
func (a *AmountFlag) UnmarshalFlag(value string) error {
	value = strings.TrimSpace(value)

	var amount btcutil.Amount
	switch {
	case strings.HasSuffix(value, " BTC") || strings.Contains(value, "."):
		value = strings.TrimSuffix(value, " BTC")
		valueF64, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		amount, err = btcutil.NewAmount(valueF64)
		if err != nil {
			return err
		}

	default:
		value = strings.TrimSuffix(value, " sat")
		sat, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		amount = btcutil.Amount(sat)
	}

	if amount < 0 || amount > btcutil.MaxSatoshi {
		return fmt.Errorf("amount %v out of range", amount)
	}

	a.Amount = amount
	a.explicitlySet = true
	return nil
}
