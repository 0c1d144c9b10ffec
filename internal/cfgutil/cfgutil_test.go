// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/require"
)

func TestAmountFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    btcutil.Amount
		wantErr bool
	}{
		{value: "400", want: 400},
		{value: "0", want: 0},
		{value: " 546 ", want: 546},
		{value: "1000 sat", want: 1000},
		{value: "0.0001", want: 10000},
		{value: "1 BTC", want: btcutil.SatoshiPerBitcoin},
		{value: "0.5 BTC", want: btcutil.SatoshiPerBitcoin / 2},
		{value: "-1", wantErr: true},
		{value: "22000000 BTC", wantErr: true},
		{value: "four", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, test := range tests {
		var a AmountFlag
		err := a.UnmarshalFlag(test.value)
		if test.wantErr {
			require.Error(t, err, test.value)
			continue
		}
		require.NoError(t, err, test.value)
		require.Equal(t, test.want, a.Amount, test.value)
		require.True(t, a.ExplicitlySet(), test.value)
	}

	defaultFee := NewAmountFlag(400)
	require.False(t, defaultFee.ExplicitlySet())
	s, err := defaultFee.MarshalFlag()
	require.NoError(t, err)
	require.Equal(t, "400", s)
}

// TestFlagsParse asserts both flag types plug into the flags parser.
func TestFlagsParse(t *testing.T) {
	t.Parallel()

	type options struct {
		Fee     *AmountFlag     `long:"fee"`
		Indexer *ExplicitString `long:"indexer"`
		Other   *ExplicitString `long:"other"`
	}

	opts := options{
		Fee:     NewAmountFlag(400),
		Indexer: NewExplicitString("https://default.example"),
		Other:   NewExplicitString("untouched"),
	}

	_, err := flags.NewParser(&opts, flags.None).ParseArgs([]string{
		"--fee=250", "--indexer=https://other.example",
	})
	require.NoError(t, err)

	require.Equal(t, btcutil.Amount(250), opts.Fee.Amount)
	require.True(t, opts.Fee.ExplicitlySet())
	require.True(t, opts.Indexer.ExplicitlySet())
	require.Equal(t, "https://other.example", opts.Indexer.Value)
	require.False(t, opts.Other.ExplicitlySet())
	require.Equal(t, "untouched", opts.Other.Value)
}

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr    string
		want    string
		wantErr bool
	}{
		{addr: "localhost", want: "localhost:8332"},
		{addr: "localhost:18332", want: "localhost:18332"},
		{addr: "127.0.0.1", want: "127.0.0.1:8332"},
		{addr: "::1", want: "[::1]:8332"},
		{addr: "[::1]:1234", want: "[::1]:1234"},
		{addr: "a:b:c:d]", wantErr: true},
	}

	for _, test := range tests {
		got, err := NormalizeAddress(test.addr, "8332")
		if test.wantErr {
			require.Error(t, err, test.addr)
			continue
		}
		require.NoError(t, err, test.addr)
		require.Equal(t, test.want, got, test.addr)
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "datacash.conf")

	exists, err := FileExists(path)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, os.WriteFile(path, []byte("fee=400\n"), 0600))

	exists, err = FileExists(path)
	require.NoError(t, err)
	require.True(t, exists)
}
