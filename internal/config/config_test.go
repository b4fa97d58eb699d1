package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Cache.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Versapay.Timeout)
	assert.True(t, cfg.Versapay.CCEnabled)
	assert.False(t, cfg.Versapay.ACHEnabled)
	assert.Equal(t, "render", cfg.Checkout.Strategy)
	assert.Equal(t, "redis", cfg.Orders.Store)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.Workers.CompletionBackoff)
	assert.False(t, cfg.Versapay.HasCredentials())
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("VERSAPAY_SUBDOMAIN", " acme ")
	t.Setenv("VERSAPAY_API_TOKEN", "token")
	t.Setenv("VERSAPAY_API_KEY", "key")
	t.Setenv("VERSAPAY_ACH_ENABLED", "true")
	t.Setenv("VERSAPAY_AVS_RULES", "rejectAddressMismatch, rejectUnknown")
	t.Setenv("CHECKOUT_SESSION_STRATEGY", "on_demand")
	t.Setenv("CHECKOUT_NONCE_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Versapay.Subdomain)
	assert.True(t, cfg.Versapay.HasCredentials())
	assert.True(t, cfg.Versapay.ACHEnabled)
	assert.Equal(t, []string{"rejectAddressMismatch", "rejectUnknown"}, cfg.Versapay.AVSRules)
	assert.Equal(t, "on_demand", cfg.Checkout.Strategy)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestNewConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT: \"9090\"\nVERSAPAY_GC_ENABLED: true\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Versapay.GCEnabled)
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown strategy", env: map[string]string{"CHECKOUT_SESSION_STRATEGY": "eager"}},
		{name: "unknown avs rule", env: map[string]string{"VERSAPAY_AVS_RULES": "rejectEverything"}},
		{name: "mongo without uri", env: map[string]string{"ORDER_STORE": "mongo"}},
		{name: "bad base url", env: map[string]string{"VERSAPAY_BASE_URL": "not a url"}},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "trace"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}

func TestNewConfig_OnDemandNeedsNonceSecret(t *testing.T) {
	t.Setenv("CHECKOUT_SESSION_STRATEGY", "on_demand")

	_, err := NewConfig()
	assert.ErrorIs(t, err, ErrDefaultNonceSecret)

	t.Setenv("CHECKOUT_NONCE_SECRET", "s3cret")
	_, err = NewConfig()
	assert.NoError(t, err)
}
