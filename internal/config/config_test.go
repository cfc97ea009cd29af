package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_SCENARIOS", "3")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("MAX_RATE", "not-a-number")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("DATABASE_DSN", "file::memory:")
	t.Setenv("DEFAULTS_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 3, cfg.MaxScenarios)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 200.0, cfg.MaxRate)
	assert.False(t, cfg.UsesRedis())
	assert.True(t, cfg.UsesSQL())
	assert.Equal(t, DefaultDefaults(), cfg.Defaults)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("price: 500000\nfrequency: b\n"), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr bool
		check   func(*testing.T, Defaults)
	}{
		{
			name: "no file",
			check: func(t *testing.T, d Defaults) {
				assert.Equal(t, 900000.0, d.Price)
				assert.Equal(t, "m", d.Frequency)
			},
		},
		{
			name: "partial override",
			path: path,
			check: func(t *testing.T, d Defaults) {
				assert.Equal(t, 500000.0, d.Price)
				assert.Equal(t, "b", d.Frequency)
				assert.Equal(t, 140000.0, d.Deposit)
				assert.Equal(t, 25, d.HorizonYears)
			},
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "absent.yaml"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := LoadDefaults(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, d)
		})
	}
}
