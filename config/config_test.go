package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DataSourceFixture, cfg.DataSource)
	assert.True(t, cfg.UseFixtures())
	assert.Equal(t, 5*time.Minute, cfg.StaleAfter())
	assert.Equal(t, 2, cfg.Session.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.SessionRetryDelay())
}

func TestLiveModeRequiresSupabaseCredentials(t *testing.T) {
	t.Setenv("DATA_SOURCE", "live")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
}

func TestInvalidDataSourceRejected(t *testing.T) {
	t.Setenv("DATA_SOURCE", "postgres")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_SOURCE")
}

func TestLiveModeFromEnv(t *testing.T) {
	t.Setenv("DATA_SOURCE", "live")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.UseFixtures())
	assert.Equal(t, "https://example.supabase.co", cfg.Supabase.URL)
}
