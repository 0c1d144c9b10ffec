package wallet

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/mock"
	"github.com/unwriter/datacash/chain"
)

// mockChain is a mock implementation of the chain.UtxoSource and
// chain.Broadcaster interfaces.
type mockChain struct {
	mock.Mock
}

// A compile-time assertion to ensure that mockChain implements both ledger
// interfaces.
var (
	_ chain.UtxoSource  = (*mockChain)(nil)
	_ chain.Broadcaster = (*mockChain)(nil)
)

// ListUnspent implements the chain.UtxoSource interface.
func (m *mockChain) ListUnspent(ctx context.Context, endpoint string,
	addr btcutil.Address) ([]*chain.Utxo, error) {

	args := m.Called(ctx, endpoint, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*chain.Utxo), args.Error(1)
}

// Broadcast implements the chain.Broadcaster interface.
func (m *mockChain) Broadcast(ctx context.Context, endpoint string,
	tx *wire.MsgTx) (*chainhash.Hash, error) {

	args := m.Called(ctx, endpoint, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*chainhash.Hash), args.Error(1)
}
