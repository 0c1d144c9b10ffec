// Copyright (c) 2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"github.com/btcsuite/btclog"
	"github.com/unwriter/datacash/build"
)

// log is silent unless the application hands the package a logger.
var log btclog.Logger

func init() {
	UseLogger(build.NewSubLogger("WLLT", nil))
}

// UseLogger sets the logger used to report published transactions.
func UseLogger(logger btclog.Logger) {
	log = logger
}

func pickNoun(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
