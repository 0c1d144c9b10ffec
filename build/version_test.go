package build

import (
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVerString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "beta.1", normalizeVerString("beta.1"))
	require.Equal(t, "rc1", normalizeVerString("r c_1!"))
	require.Empty(t, normalizeVerString("+++"))
}

func TestVersion(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0.2.0-beta", Version())
}

func TestNewSubLogger(t *testing.T) {
	t.Parallel()

	if LoggingType != LogTypeDefault {
		t.Skip("stdout logging build")
	}

	// Without a constructor the sub logger is disabled.
	require.Equal(t, btclog.Disabled, NewSubLogger("TEST", nil))

	var gotTag string
	logger := NewSubLogger("TEST", func(tag string) btclog.Logger {
		gotTag = tag
		return btclog.Disabled
	})
	require.Equal(t, "TEST", gotTag)
	require.NotNil(t, logger)
}
