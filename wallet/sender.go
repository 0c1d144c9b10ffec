// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet ties transaction building to a ledger back end: it builds a
// transaction and relays it to the network in one step.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/unwriter/datacash/chain"
	"github.com/unwriter/datacash/wallet/txauthor"
)

var (
	// ErrNotSigned is returned when asked to publish a transaction which
	// does not carry signatures.  Nodes reject those, so they are never
	// sent.
	ErrNotSigned = errors.New("the transaction is not signed")

	// ErrNoBroadcaster is returned when publishing with a Sender that was
	// created without a broadcaster.
	ErrNoBroadcaster = errors.New("no broadcaster configured")
)

// TxPublisher provides an interface for publishing transactions.
type TxPublisher interface {
	// Publish relays a signed draft through the endpoint, or the
	// default one if endpoint is empty, and returns its id.
	Publish(ctx context.Context, endpoint string,
		draft *txauthor.Draft) (*chainhash.Hash, error)
}

// Sender builds transactions and relays them to the network.
type Sender struct {
	builder *txauthor.Builder
	chain   chain.Broadcaster
}

// A compile-time assertion to ensure that Sender implements the TxPublisher
// interface.
var _ TxPublisher = (*Sender)(nil)

// NewSender creates a Sender.  The broadcaster may be nil for a Sender that
// only builds.
func NewSender(builder *txauthor.Builder,
	broadcaster chain.Broadcaster) *Sender {

	return &Sender{
		builder: builder,
		chain:   broadcaster,
	}
}

// Build creates the transaction described by req without relaying it.
func (s *Sender) Build(ctx context.Context,
	req *txauthor.BuildRequest) (*txauthor.Draft, error) {

	return s.builder.Build(ctx, req)
}

// Send builds the transaction described by req and relays it through the
// request's endpoint.  The draft is returned along with the id whenever it
// was built, so callers can report what was attempted.
func (s *Sender) Send(ctx context.Context,
	req *txauthor.BuildRequest) (*txauthor.Draft, *chainhash.Hash, error) {

	draft, err := s.Build(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	var endpoint string
	if req != nil {
		endpoint = req.Endpoint
	}

	txid, err := s.Publish(ctx, endpoint, draft)
	if err != nil {
		return draft, nil, err
	}

	return draft, txid, nil
}

// Publish relays a signed draft.  A transaction the network already knows
// about is not an error, its id is returned as if it had just been relayed.
func (s *Sender) Publish(ctx context.Context, endpoint string,
	draft *txauthor.Draft) (*chainhash.Hash, error) {

	if draft == nil || draft.Tx == nil || !draft.IsSigned() {
		return nil, ErrNotSigned
	}
	if s.chain == nil {
		return nil, ErrNoBroadcaster
	}

	tx := draft.Tx
	txHash := tx.TxHash()

	log.Debugf("Publishing tx %v spending %d %s", txHash, len(tx.TxIn),
		pickNoun(len(tx.TxIn), "input", "inputs"))

	txid, err := s.chain.Broadcast(ctx, endpoint, tx)

	switch {
	// If the tx is already in the mempool or confirmed, there is
	// nothing left to do.
	case errors.Is(err, chain.ErrTxAlreadyInMempool),
		errors.Is(err, chain.ErrTxAlreadyKnown):

		log.Infof("Tx %v already broadcasted", txHash)

		return &txHash, nil

	case err != nil:
		return nil, fmt.Errorf("publish tx %v: %w", txHash, err)
	}

	log.Infof("Published tx %v", txid)

	return txid, nil
}
