// Copyright (c) 2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zero clears private key material from memory once it is no longer
// needed.
package zero

import (
	"github.com/btcsuite/btcd/btcutil"
)

// Bytes sets all bytes in the passed slice to zero.  This is used to
// explicitly clear the text a private key was decoded from.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// WIF clears the private key held by w.  The key is unusable afterwards.  It
// is safe to call with a nil key.
func WIF(w *btcutil.WIF) {
	if w == nil || w.PrivKey == nil {
		return
	}

	w.PrivKey.Zero()
}
