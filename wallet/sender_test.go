// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/unwriter/datacash/chain"
	"github.com/unwriter/datacash/netparams"
	"github.com/unwriter/datacash/wallet/nulldata"
	"github.com/unwriter/datacash/wallet/txauthor"
)

var errRelay = errors.New("connection reset")

const testEndpoint = "https://insight.example"

// testSender returns a Sender backed by a mocked ledger, along with a key
// that has a single 100000 satoshi output to spend.
func testSender(t *testing.T) (*Sender, *mockChain, *btcutil.WIF) {
	t.Helper()

	params := &netparams.BCHMainNetParams

	privKey, _ := btcec.PrivKeyFromBytes(chainhash.HashB([]byte("sender")))
	key, err := btcutil.NewWIF(privKey, params.Params, true)
	require.NoError(t, err)

	addr, err := btcutil.NewAddressPubKeyHash(
		btcutil.Hash160(key.SerializePubKey()), params.Params,
	)
	require.NoError(t, err)
	pkScript, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)

	m := &mockChain{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	hash := chainhash.HashH([]byte("funding"))
	m.On("ListUnspent", mock.Anything, mock.Anything, mock.Anything).
		Return([]*chain.Utxo{{
			OutPoint: *wire.NewOutPoint(&hash, 0),
			Address:  addr.EncodeAddress(),
			PkScript: pkScript,
			Amount:   100000,
		}}, nil).Maybe()

	builder, err := txauthor.NewBuilder(&txauthor.Config{
		Net:    params,
		Inputs: m,
	})
	require.NoError(t, err)

	return NewSender(builder, m), m, key
}

// TestSend asserts a signed transaction is built and relayed through the
// request's endpoint.
func TestSend(t *testing.T) {
	t.Parallel()

	s, m, key := testSender(t)

	reported := chainhash.HashH([]byte("reported"))

	var relayed *wire.MsgTx
	m.On("Broadcast", mock.Anything, testEndpoint, mock.Anything).
		Run(func(args mock.Arguments) {
			relayed = args.Get(2).(*wire.MsgTx)
		}).
		Return(&reported, nil).Once()

	draft, txid, err := s.Send(context.Background(), &txauthor.BuildRequest{
		Data:     nulldata.NewPushPayload("hello"),
		Key:      key,
		Endpoint: testEndpoint,
	})
	require.NoError(t, err)
	require.Equal(t, reported, *txid)
	require.True(t, draft.IsSigned())
	require.Same(t, draft.Tx, relayed)
}

// TestSendUnsigned asserts a request without a key is built but never
// relayed.
func TestSendUnsigned(t *testing.T) {
	t.Parallel()

	s, _, _ := testSender(t)

	draft, txid, err := s.Send(context.Background(), &txauthor.BuildRequest{
		Data: nulldata.NewPushPayload("hello"),
	})
	require.ErrorIs(t, err, ErrNotSigned)
	require.Nil(t, txid)
	require.NotNil(t, draft)
	require.False(t, draft.IsSigned())
}

// TestSendBuildFailure asserts build errors are returned without a draft.
func TestSendBuildFailure(t *testing.T) {
	t.Parallel()

	s, _, _ := testSender(t)

	draft, txid, err := s.Send(context.Background(), &txauthor.BuildRequest{
		Tx: []byte{0x01},
	})
	require.ErrorIs(t, err, txauthor.ErrMalformedTx)
	require.Nil(t, draft)
	require.Nil(t, txid)
}

// TestPublish tests the handling of the broadcaster's answers.
func TestPublish(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		broadcastErr error
		expectedErr  error
	}{
		{
			name: "relayed",
		},
		{
			name:         "already in mempool",
			broadcastErr: chain.ErrTxAlreadyInMempool,
		},
		{
			name:         "already known",
			broadcastErr: chain.ErrTxAlreadyKnown,
		},
		{
			name:         "conflict",
			broadcastErr: chain.ErrMempoolConflict,
			expectedErr:  chain.ErrMempoolConflict,
		},
		{
			name:         "transport failure",
			broadcastErr: errRelay,
			expectedErr:  errRelay,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, m, key := testSender(t)

			draft, err := s.Build(context.Background(),
				&txauthor.BuildRequest{Key: key})
			require.NoError(t, err)

			txHash := draft.Tx.TxHash()
			if tc.broadcastErr == nil {
				m.On("Broadcast", mock.Anything, "", draft.Tx).
					Return(&txHash, nil).Once()
			} else {
				m.On("Broadcast", mock.Anything, "", draft.Tx).
					Return(nil, tc.broadcastErr).Once()
			}

			txid, err := s.Publish(context.Background(), "", draft)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.Nil(t, txid)
				return
			}

			require.NoError(t, err)
			require.Equal(t, txHash, *txid)
		})
	}
}

func TestPublishRefusesUnsigned(t *testing.T) {
	t.Parallel()

	s, _, _ := testSender(t)

	_, err := s.Publish(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrNotSigned)

	_, err = s.Publish(context.Background(), "", &txauthor.Draft{
		Tx: wire.NewMsgTx(wire.TxVersion),
	})
	require.ErrorIs(t, err, ErrNotSigned)
}

func TestPublishWithoutBroadcaster(t *testing.T) {
	t.Parallel()

	s, _, key := testSender(t)
	draft, err := s.Build(context.Background(),
		&txauthor.BuildRequest{Key: key})
	require.NoError(t, err)

	buildOnly := NewSender(s.builder, nil)
	_, err = buildOnly.Publish(context.Background(), "", draft)
	require.ErrorIs(t, err, ErrNoBroadcaster)
}
