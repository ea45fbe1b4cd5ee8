package boot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslafields/sysinfo-reader/internal/config"
)

func TestApplyOverrides(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		require.NoError(t, applyOverrides(&cfg, "127.0.0.1:9000", ":9001"))

		assert.Equal(t, "127.0.0.1:9000", cfg.GRPCEndpoint())
		assert.Equal(t, ":9001", cfg.GatewayEndpoint())
	})

	t.Run("success: empty keeps config", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		require.NoError(t, applyOverrides(&cfg, "", ""))

		assert.Equal(t, "0.0.0.0:8000", cfg.GRPCEndpoint())
		assert.Equal(t, "0.0.0.0:8001", cfg.GatewayEndpoint())
	})

	t.Run("error: bad address", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		require.Error(t, applyOverrides(&cfg, "no-port", ""))
	})
}
