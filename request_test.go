package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
	"github.com/unwriter/datacash/netparams"
	"github.com/unwriter/datacash/wallet/nulldata"
	"github.com/unwriter/datacash/wallet/txauthor"
)

func testKey(t *testing.T, params *netparams.Params) *btcutil.WIF {
	t.Helper()

	privKey, _ := btcec.PrivKeyFromBytes(chainhash.HashB([]byte("cli")))
	key, err := btcutil.NewWIF(privKey, params.Params, true)
	require.NoError(t, err)
	return key
}

func TestReadRequestFile(t *testing.T) {
	t.Parallel()

	req, err := readRequestFile(strings.NewReader(`{
		"tx": "0100",
		"data": ["0x6d02", "hello"],
		"cash": {
			"key": "wif",
			"fee": 0,
			"rpc": "https://insight.example",
			"to": [{"address": "addr", "value": 1000}]
		}
	}`))
	require.NoError(t, err)
	require.Equal(t, "0100", req.Tx)
	require.Equal(t, nulldata.KindPushes, req.Data.Kind())
	require.Equal(t, []string{"0x6d02", "hello"}, req.Data.Items())
	require.Equal(t, "wif", req.Cash.Key)
	require.NotNil(t, req.Cash.Fee)
	require.Zero(t, *req.Cash.Fee)
	require.Equal(t, "https://insight.example", req.Cash.RPC)
	require.Equal(t, []recipientEntry{{Address: "addr", Value: 1000}},
		req.Cash.To)

	// Script hex and unsupported payloads decode too.
	req, err = readRequestFile(strings.NewReader(`{"data": "6a0101"}`))
	require.NoError(t, err)
	require.Equal(t, nulldata.KindScript, req.Data.Kind())

	req, err = readRequestFile(strings.NewReader(`{"data": 42}`))
	require.NoError(t, err)
	require.False(t, req.Data.IsSupported())

	// Empty input is an empty request.
	req, err = readRequestFile(strings.NewReader(""))
	require.NoError(t, err)
	require.Nil(t, req.Data)
	require.Nil(t, req.Cash)

	_, err = readRequestFile(strings.NewReader(`{"data": ["0xzz"`))
	require.Error(t, err)
}

// TestBuildRequestFromFile asserts every field of a request file reaches the
// build request.
func TestBuildRequestFromFile(t *testing.T) {
	t.Parallel()

	params := &netparams.BCHMainNetParams
	key := testKey(t, params)

	path := filepath.Join(t.TempDir(), "request.json")
	err := os.WriteFile(path, []byte(`{
		"tx": "01000000000000000000",
		"data": ["hello"],
		"cash": {
			"key": "`+key.String()+`",
			"fee": 300,
			"rpc": "https://insight.example",
			"to": [{"address": "1BoatSLRHtKNngkdXEeobR76b53LETtpyT", "value": 1000}]
		}
	}`), 0600)
	require.NoError(t, err)

	cfg := newDefaultConfig()
	cfg.Request = path

	req, err := buildRequest(&cfg, params, strings.NewReader(""))
	require.NoError(t, err)

	require.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 0}, req.Tx)
	require.Equal(t, []string{"hello"}, req.Data.Items())
	require.Equal(t, key.String(), req.Key.String())
	require.Equal(t, btcutil.Amount(300), *req.Fee)
	require.Equal(t, "https://insight.example", req.Endpoint)
	require.Equal(t, []txauthor.Recipient{{
		Address: "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
		Amount:  1000,
	}}, req.To)
}

// TestBuildRequestFlagsWin asserts command line options replace those of the
// request file, and recipients add up.
func TestBuildRequestFlagsWin(t *testing.T) {
	t.Parallel()

	params := &netparams.BCHMainNetParams

	cfg := newDefaultConfig()
	cfg.Request = "-"
	cfg.Data = []string{"0x6d02", "flag"}
	cfg.Endpoint = "https://other.example"
	cfg.To = []string{"1BoatSLRHtKNngkdXEeobR76b53LETtpyT:2000"}
	require.NoError(t, cfg.Fee.UnmarshalFlag("150"))

	stdin := strings.NewReader(`{
		"data": ["file"],
		"cash": {
			"fee": 300,
			"rpc": "https://insight.example",
			"to": [{"address": "1111111111111111111114oLvT2", "value": 1000}]
		}
	}`)

	req, err := buildRequest(&cfg, params, stdin)
	require.NoError(t, err)

	require.Equal(t, []string{"0x6d02", "flag"}, req.Data.Items())
	require.Equal(t, btcutil.Amount(150), *req.Fee)
	require.Equal(t, "https://other.example", req.Endpoint)
	require.Len(t, req.To, 2)
	require.Equal(t, btcutil.Amount(1000), req.To[0].Amount)
	require.Equal(t, btcutil.Amount(2000), req.To[1].Amount)
	require.Nil(t, req.Key)
	require.Nil(t, req.Tx)
}

func TestBuildRequestErrors(t *testing.T) {
	t.Parallel()

	params := &netparams.BCHMainNetParams
	testnetKey := testKey(t, &netparams.BCHTestNetParams)

	tests := []struct {
		name   string
		modify func(cfg *config)
	}{
		{
			name:   "bad tx hex",
			modify: func(cfg *config) { cfg.Tx = "xyz" },
		},
		{
			name:   "bad key",
			modify: func(cfg *config) { cfg.Key = "not a key" },
		},
		{
			name: "key for other network",
			modify: func(cfg *config) {
				cfg.Key = testnetKey.String()
			},
		},
		{
			name:   "bad recipient",
			modify: func(cfg *config) { cfg.To = []string{"addr"} },
		},
		{
			name:   "missing request file",
			modify: func(cfg *config) { cfg.Request = "/nonexistent" },
		},
	}

	for _, test := range tests {
		cfg := newDefaultConfig()
		test.modify(&cfg)

		_, err := buildRequest(&cfg, params, strings.NewReader(""))
		require.Error(t, err, test.name)
	}

	cfg := newDefaultConfig()
	cfg.Tx = "xyz"
	_, err := buildRequest(&cfg, params, strings.NewReader(""))
	require.ErrorIs(t, err, txauthor.ErrMalformedTx)
}

func TestParseRecipient(t *testing.T) {
	t.Parallel()

	r, err := parseRecipient("1BoatSLRHtKNngkdXEeobR76b53LETtpyT:546")
	require.NoError(t, err)
	require.Equal(t, "1BoatSLRHtKNngkdXEeobR76b53LETtpyT", r.Address)
	require.Equal(t, btcutil.Amount(546), r.Amount)

	for _, s := range []string{"addr", "addr:", "addr:1.5", "addr:x"} {
		_, err := parseRecipient(s)
		require.ErrorIs(t, err, txauthor.ErrInvalidRecipient, s)
	}
}
