// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/unwriter/datacash/internal/zero"
	"github.com/unwriter/datacash/netparams"
	"github.com/unwriter/datacash/wallet/nulldata"
	"github.com/unwriter/datacash/wallet/txauthor"
)

// requestFile is the JSON request accepted by --request.
//
//	{
//	  "tx": "<hex>",
//	  "data": ["0x6d02", "hello"] | "<script hex>",
//	  "cash": {
//	    "key": "<wif>",
//	    "fee": 400,
//	    "rpc": "https://insight.example",
//	    "to": [{"address": "<address>", "value": 1000}]
//	  }
//	}
type requestFile struct {
	Tx   string            `json:"tx,omitempty"`
	Data *nulldata.Payload `json:"data,omitempty"`
	Cash *cashOptions      `json:"cash,omitempty"`
}

// cashOptions holds the funding and broadcast options of a request.
type cashOptions struct {
	Key string           `json:"key,omitempty"`
	Fee *int64           `json:"fee,omitempty"`
	RPC string           `json:"rpc,omitempty"`
	To  []recipientEntry `json:"to,omitempty"`
}

type recipientEntry struct {
	Address string `json:"address"`
	Value   int64  `json:"value"`
}

// readRequestFile decodes a request.  An empty input is an empty request.
func readRequestFile(r io.Reader) (*requestFile, error) {
	var req requestFile
	err := json.NewDecoder(r).Decode(&req)
	switch {
	case errors.Is(err, io.EOF):
		return &req, nil
	case err != nil:
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return &req, nil
}

// openRequestFile reads the request named by path, "-" being standard input.
func openRequestFile(path string, stdin io.Reader) (*requestFile, error) {
	if path == "-" {
		return readRequestFile(stdin)
	}

	f, err := os.Open(cleanAndExpandPath(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readRequestFile(f)
}

// buildRequest assembles the request described by the request file, if any,
// and the command line.  Options given on the command line replace those of
// the file, recipients are added to the file's.
func buildRequest(cfg *config, net *netparams.Params,
	stdin io.Reader) (*txauthor.BuildRequest, error) {

	file := &requestFile{}
	if cfg.Request != "" {
		var err error
		file, err = openRequestFile(cfg.Request, stdin)
		if err != nil {
			return nil, err
		}
	}

	req := &txauthor.BuildRequest{
		Data: file.Data,
	}

	txHex := file.Tx
	if cfg.Tx != "" {
		txHex = cfg.Tx
	}
	if txHex != "" {
		serialized, err := hex.DecodeString(strings.TrimSpace(txHex))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", txauthor.ErrMalformedTx,
				err)
		}
		req.Tx = serialized
	}

	switch {
	case len(cfg.Data) > 0:
		req.Data = nulldata.NewPushPayload(cfg.Data...)
	case cfg.DataScript != "":
		req.Data = nulldata.NewScriptPayload(cfg.DataScript)
	}

	cash := file.Cash
	if cash == nil {
		cash = &cashOptions{}
	}

	keyText := cash.Key
	if cfg.Key != "" {
		keyText = cfg.Key
	}
	if keyText != "" {
		key, err := decodeKey(keyText, net)
		if err != nil {
			return nil, err
		}
		req.Key = key
	}

	if cash.Fee != nil {
		fee := btcutil.Amount(*cash.Fee)
		req.Fee = &fee
	}
	if cfg.Fee.ExplicitlySet() {
		fee := cfg.Fee.Amount
		req.Fee = &fee
	}

	req.Endpoint = cash.RPC
	if cfg.Endpoint != "" {
		req.Endpoint = cfg.Endpoint
	}

	for _, to := range cash.To {
		req.To = append(req.To, txauthor.Recipient{
			Address: to.Address,
			Amount:  btcutil.Amount(to.Value),
		})
	}
	for _, to := range cfg.To {
		recipient, err := parseRecipient(to)
		if err != nil {
			return nil, err
		}
		req.To = append(req.To, recipient)
	}

	if len(req.To) > 0 && req.Key == nil {
		log.Warnf("Ignoring %d %s, paying requires a private key",
			len(req.To), pickNoun(len(req.To), "recipient", "recipients"))
	}

	return req, nil
}

// decodeKey decodes a WIF private key of the network net.
func decodeKey(text string, net *netparams.Params) (*btcutil.WIF, error) {
	key, err := btcutil.DecodeWIF(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	if !key.IsForNet(net.Params) {
		zero.WIF(key)
		return nil, fmt.Errorf("the private key is not for %s",
			net.Network)
	}
	return key, nil
}

// parseRecipient parses a recipient given as <address>:<satoshis>.
func parseRecipient(s string) (txauthor.Recipient, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return txauthor.Recipient{}, fmt.Errorf("%w: %q is not "+
			"<address>:<satoshis>", txauthor.ErrInvalidRecipient, s)
	}

	sat, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return txauthor.Recipient{}, fmt.Errorf("%w: %q: %v",
			txauthor.ErrInvalidRecipient, s, err)
	}

	return txauthor.Recipient{
		Address: s[:i],
		Amount:  btcutil.Amount(sat),
	}, nil
}

// pickNoun returns the singular or plural form of a noun depending
// on the count n.
func pickNoun(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
