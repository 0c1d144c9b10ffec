// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const (
	// DefaultHTTPTimeout bounds every request made to an Insight server.
	DefaultHTTPTimeout = 30 * time.Second

	// maxResponseSize caps the body read from an Insight server.
	maxResponseSize = 16 << 20
)

// ErrNoEndpoint is returned when neither a default nor a per call endpoint is
// known.
var ErrNoEndpoint = errors.New("no indexer endpoint configured")

// InsightConfig describes how to reach an Insight API server.
type InsightConfig struct {
	// URL is the base URL of the server, without the /api suffix.
	URL string

	// Timeout bounds each request.  Zero means DefaultHTTPTimeout.
	Timeout time.Duration

	// HTTPClient overrides the client used for requests.  Timeout is
	// ignored when set.
	HTTPClient *http.Client
}

// InsightClient talks to the REST API of an Insight block explorer, the
// indexer most Bitcoin Cash services expose.
type InsightClient struct {
	baseURL string
	client  *http.Client
}

// Compile time check to ensure InsightClient satisfies the chain.Interface.
var _ Interface = (*InsightClient)(nil)

// NewInsightClient creates a client for the server described by cfg.
func NewInsightClient(cfg *InsightConfig) *InsightClient {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &InsightClient{
		baseURL: normalizeURL(cfg.URL),
		client:  client,
	}
}

// BackEnd returns the name of the driver.
func (c *InsightClient) BackEnd() string {
	return "insight"
}

// Stop closes idle connections to the server.
func (c *InsightClient) Stop() {
	c.client.CloseIdleConnections()
}

// insightUtxo is a single entry of an /api/addrs/utxo response.
type insightUtxo struct {
	Address       string  `json:"address"`
	TxID          string  `json:"txid"`
	Vout          uint32  `json:"vout"`
	ScriptPubKey  string  `json:"scriptPubKey"`
	Amount        float64 `json:"amount"`
	Satoshis      *int64  `json:"satoshis"`
	Confirmations int64   `json:"confirmations"`
}

// ListUnspent returns the unspent outputs paying to addr.
//
// This is part of the chain.UtxoSource interface.
func (c *InsightClient) ListUnspent(ctx context.Context, endpoint string,
	addr btcutil.Address) ([]*Utxo, error) {

	base, err := c.resolve(endpoint)
	if err != nil {
		return nil, err
	}

	req := struct {
		Addrs string `json:"addrs"`
	}{
		Addrs: addr.EncodeAddress(),
	}

	var resp []insightUtxo
	if err := c.post(ctx, base+"/api/addrs/utxo", req, &resp); err != nil {
		return nil, err
	}

	utxos := make([]*Utxo, 0, len(resp))
	for _, u := range resp {
		var amount btcutil.Amount
		if u.Satoshis != nil {
			amount = btcutil.Amount(*u.Satoshis)
		} else {
			amount, err = btcutil.NewAmount(u.Amount)
			if err != nil {
				return nil, fmt.Errorf("invalid amount for "+
					"%v:%d: %w", u.TxID, u.Vout, err)
			}
		}

		utxo, err := newUtxo(
			u.TxID, u.Vout, u.ScriptPubKey, amount,
			u.Confirmations, u.Address,
		)
		if err != nil {
			return nil, err
		}
		utxos = append(utxos, utxo)
	}

	log.Debugf("Insight %v returned %d unspent outputs for %v", base,
		len(utxos), addr)

	return utxos, nil
}

// Broadcast sends tx through the server and returns the txid it reports.
//
// This is part of the chain.Broadcaster interface.
func (c *InsightClient) Broadcast(ctx context.Context, endpoint string,
	tx *wire.MsgTx) (*chainhash.Hash, error) {

	base, err := c.resolve(endpoint)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(tx.SerializeSizeStripped())
	if err := tx.SerializeNoWitness(&buf); err != nil {
		return nil, err
	}

	req := struct {
		RawTx string `json:"rawtx"`
	}{
		RawTx: hex.EncodeToString(buf.Bytes()),
	}

	var resp struct {
		TxID string `json:"txid"`
	}
	err = c.post(ctx, base+"/api/tx/send", req, &resp)
	if err != nil {
		var rejected *httpError
		if errors.As(err, &rejected) {
			return nil, MapBroadcastErr(err)
		}
		return nil, err
	}

	txid, err := chainhash.NewHashFromStr(resp.TxID)
	if err != nil {
		return nil, fmt.Errorf("invalid txid %q in response: %w",
			resp.TxID, err)
	}

	if want := tx.TxHash(); !want.IsEqual(txid) {
		log.Warnf("Insight %v reported txid %v for transaction %v",
			base, txid, want)
	}

	return txid, nil
}

// httpError is a non 2xx response.  Insight relays node rejections as the
// plain text body of a 400 response.
type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	if e.body == "" {
		return http.StatusText(e.status)
	}
	return fmt.Sprintf("%s: %s", http.StatusText(e.status), e.body)
}

// post sends reqBody as JSON to url and decodes the JSON response into
// respBody.
func (c *InsightClient) post(ctx context.Context, url string, reqBody,
	respBody interface{}) error {

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Tracef("POST %v %s", url, payload)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &httpError{
			status: resp.StatusCode,
			body:   strings.TrimSpace(string(body)),
		}
	}

	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("decode response of %v: %w", url, err)
	}
	return nil
}

// resolve picks the per call endpoint over the configured one.
func (c *InsightClient) resolve(endpoint string) (string, error) {
	if endpoint = normalizeURL(endpoint); endpoint != "" {
		return endpoint, nil
	}
	if c.baseURL == "" {
		return "", ErrNoEndpoint
	}
	return c.baseURL, nil
}

// normalizeURL trims the whitespace, trailing slashes and /api suffix of an
// endpoint so paths can be appended to it.
func normalizeURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	url = strings.TrimSuffix(url, "/api")
	return url
}
