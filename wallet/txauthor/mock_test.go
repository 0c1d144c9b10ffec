package txauthor

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/mock"
	"github.com/unwriter/datacash/chain"
)

// mockUtxoSource is a mock implementation of the chain.UtxoSource interface.
type mockUtxoSource struct {
	mock.Mock
}

// A compile-time assertion to ensure that mockUtxoSource implements the
// UtxoSource interface.
var _ chain.UtxoSource = (*mockUtxoSource)(nil)

// ListUnspent implements the chain.UtxoSource interface.
func (m *mockUtxoSource) ListUnspent(ctx context.Context, endpoint string,
	addr btcutil.Address) ([]*chain.Utxo, error) {

	args := m.Called(ctx, endpoint, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*chain.Utxo), args.Error(1)
}
