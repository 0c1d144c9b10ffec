package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/stretchr/testify/require"
)

// rpcRequest is the JSON-RPC 1.0 request sent by rpcclient.
type rpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     json.RawMessage   `json:"id"`
}

// rpcReply is what a fake node answers to a single method.
type rpcReply struct {
	result interface{}
	code   int
	msg    string
}

// fakeNode is a minimal JSON-RPC server standing in for a wallet enabled
// node.
type fakeNode struct {
	mu      sync.Mutex
	replies map[string]rpcReply
	calls   map[string][]rpcRequest
}

func newFakeNode(t *testing.T, replies map[string]rpcReply) (*fakeNode,
	*httptest.Server) {

	t.Helper()

	node := &fakeNode{
		replies: replies,
		calls:   make(map[string][]rpcRequest),
	}

	srv := httptest.NewServer(http.HandlerFunc(node.serve))
	t.Cleanup(srv.Close)

	return node, srv
}

func (n *fakeNode) serve(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method] = append(n.calls[req.Method], req)
	reply, ok := n.replies[req.Method]
	n.mu.Unlock()

	resp := map[string]interface{}{
		"id":     req.ID,
		"result": nil,
		"error":  nil,
	}
	switch {
	case !ok:
		resp["error"] = map[string]interface{}{
			"code":    -32601,
			"message": "Method not found",
		}
	case reply.code != 0:
		resp["error"] = map[string]interface{}{
			"code":    reply.code,
			"message": reply.msg,
		}
	default:
		resp["result"] = reply.result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (n *fakeNode) callsTo(method string) []rpcRequest {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]rpcRequest(nil), n.calls[method]...)
}

func newTestRPCClient(t *testing.T, srv *httptest.Server,
	minConf int) *RPCClient {

	t.Helper()

	client, err := NewRPCClientWithConfig(&RPCClientConfig{
		Conn: &rpcclient.ConnConfig{
			Host:       strings.TrimPrefix(srv.URL, "http://"),
			User:       "user",
			Pass:       "pass",
			DisableTLS: true,
		},
		MinConf: minConf,
	})
	require.NoError(t, err)
	t.Cleanup(client.Stop)

	return client
}

// btcdInfo is a getinfo result, which makes rpcclient treat the node as btcd.
var btcdInfo = map[string]interface{}{
	"version":         240200,
	"protocolversion": 70016,
	"blocks":          1,
	"connections":     1,
	"difficulty":      1,
	"testnet":         false,
	"relayfee":        0.00001,
	"errors":          "",
}

func TestRPCClientConfigValidate(t *testing.T) {
	t.Parallel()

	var nilCfg *RPCClientConfig
	require.Error(t, nilCfg.validate())
	require.Error(t, (&RPCClientConfig{}).validate())

	tlsNoCert := &RPCClientConfig{Conn: &rpcclient.ConnConfig{}}
	require.Error(t, tlsNoCert.validate())

	negative := &RPCClientConfig{
		Conn:    &rpcclient.ConnConfig{DisableTLS: true},
		MinConf: -1,
	}
	require.Error(t, negative.validate())

	ok := &RPCClientConfig{Conn: &rpcclient.ConnConfig{DisableTLS: true}}
	require.NoError(t, ok.validate())
}

func TestRPCListUnspent(t *testing.T) {
	t.Parallel()

	addr := testAddr(t)
	node, srv := newFakeNode(t, map[string]rpcReply{
		"listunspent": {result: []map[string]interface{}{{
			"txid":          testTxID,
			"vout":          1,
			"address":       addr.EncodeAddress(),
			"scriptPubKey":  testPkScript,
			"amount":        0.0005,
			"confirmations": 6,
			"spendable":     true,
		}}},
	})
	client := newTestRPCClient(t, srv, 1)
	require.Equal(t, "rpc", client.BackEnd())

	utxos, err := client.ListUnspent(context.Background(), "", addr)
	require.NoError(t, err)
	require.Len(t, utxos, 1)
	require.Equal(t, btcutil.Amount(50000), utxos[0].Amount)
	require.Equal(t, uint32(1), utxos[0].OutPoint.Index)
	require.Equal(t, testTxID, utxos[0].OutPoint.Hash.String())
	require.Equal(t, int64(6), utxos[0].Confirmations)

	// The node is asked for outputs of addr only, with the configured
	// minimum confirmations.
	calls := node.callsTo("listunspent")
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Params, 3)
	require.JSONEq(t, `1`, string(calls[0].Params[0]))
	require.JSONEq(t, `["`+addr.EncodeAddress()+`"]`,
		string(calls[0].Params[2]))
}

func TestRPCListUnspentError(t *testing.T) {
	t.Parallel()

	_, srv := newFakeNode(t, map[string]rpcReply{
		"listunspent": {code: -4, msg: "wallet is not loaded"},
	})
	client := newTestRPCClient(t, srv, 0)

	utxos, err := client.ListUnspent(context.Background(), "", testAddr(t))
	require.ErrorContains(t, err, "wallet is not loaded")
	require.Nil(t, utxos)
}

func TestRPCListUnspentCanceled(t *testing.T) {
	t.Parallel()

	_, srv := newFakeNode(t, map[string]rpcReply{
		"listunspent": {result: []interface{}{}},
	})
	client := newTestRPCClient(t, srv, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListUnspent(ctx, "", testAddr(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRPCBroadcast(t *testing.T) {
	t.Parallel()

	tx := testTx(t)
	txHash := tx.TxHash()

	node, srv := newFakeNode(t, map[string]rpcReply{
		"getinfo":           {result: btcdInfo},
		"sendrawtransaction": {result: txHash.String()},
	})
	client := newTestRPCClient(t, srv, 0)

	txid, err := client.Broadcast(context.Background(), "", tx)
	require.NoError(t, err)
	require.Equal(t, txHash, *txid)
	require.Len(t, node.callsTo("sendrawtransaction"), 1)
}

func TestRPCBroadcastRejected(t *testing.T) {
	t.Parallel()

	_, srv := newFakeNode(t, map[string]rpcReply{
		"getinfo": {result: btcdInfo},
		"sendrawtransaction": {
			code: -26,
			msg:  "output already spent in mempool",
		},
	})
	client := newTestRPCClient(t, srv, 0)

	txid, err := client.Broadcast(context.Background(), "", testTx(t))
	require.ErrorIs(t, err, ErrMempoolConflict)
	require.Nil(t, txid)
}

func TestReceive(t *testing.T) {
	t.Parallel()

	v, err := receive(context.Background(), func() (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, v)

	// A canceled context returns without waiting for the call.
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err = receive(ctx, func() (int, error) {
		<-release
		return 1, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, v)
}
