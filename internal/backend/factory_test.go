package backend

import (
	"context"
	"path/filepath"
	"testing"

	"budget/internal/config"
	"budget/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.ErrorContains(t, err, "want one of [sqlite memory]")

	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", AMQPQueue: "q"})
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, cfg.Type)
	assert.Equal(t, "x.db", cfg.SQLiteDBPath)
	assert.Equal(t, "q", cfg.AMQPQueue)
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	for _, cfg := range []Config{
		{Type: MemoryBackend},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "budget.db")},
	} {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			res, err := f.CreateBackend(ctx, cfg)
			require.NoError(t, err)
			assert.Nil(t, res.Publisher())
			require.NoError(t, res.Backend.Ping(ctx))

			s, err := res.Backend.GetSettings(ctx, core.DefaultCurrency)
			require.NoError(t, err)
			assert.Equal(t, core.PLN, s.Currency)

			require.NoError(t, res.Cleanup())
		})
	}

	_, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend})
	assert.Error(t, err)
	_, err = f.CreateBackend(ctx, Config{Type: "postgres"})
	assert.Error(t, err)
}
