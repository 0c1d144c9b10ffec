// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/btcsuite/btclog"
	"github.com/unwriter/datacash/build"
)

// log traces the requests made to ledger back ends.  Nothing is written
// until the application calls UseLogger.
var log btclog.Logger

func init() {
	UseLogger(build.NewSubLogger("CHIO", nil))
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
