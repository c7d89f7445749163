package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/config"
	"budget/internal/core"
)

func memoryApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("AMQP_URL", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	logger, err := SetupLogger(cfg)
	require.NoError(t, err)

	app, err := Bootstrap(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestBootstrapMemory(t *testing.T) {
	app := memoryApp(t)
	assert.Nil(t, app.Backend.Events)

	settings, err := app.Services.Settings.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.PLN, settings.Currency)
}

func TestBadLogLevel(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "chatty")
	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "invalid log level")

	_, err = SetupLogger(&config.Config{LogLevel: "chatty"})
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	app := memoryApp(t)
	today := core.NewDate(2024, 6, 15)

	res, err := Seed(ctx, app.Services, today, 2, 42)
	require.NoError(t, err)
	assert.Equal(t, len(SeedCategories), res.Categories)
	// all of May plus the June entries up to the 15th
	assert.Equal(t, 15, res.Transactions)

	views, err := app.Services.Dashboard.ListTransactions(ctx, core.Filter{})
	require.NoError(t, err)
	require.Len(t, views, 15)
	assert.Equal(t, "2024-06-15", views[0].Date.String())
	for _, v := range views {
		require.NotNil(t, v.Category)
		assert.True(t, v.Amount.IsPositive())
	}

	again, err := Seed(ctx, app.Services, today, 1, 42)
	require.NoError(t, err)
	assert.Zero(t, again.Categories, "existing categories are reused")

	cats, err := app.Services.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(SeedCategories))
}

func TestSeedIncludesDecemberBonus(t *testing.T) {
	ctx := context.Background()
	app := memoryApp(t)

	_, err := Seed(ctx, app.Services, core.NewDate(2024, 1, 5), 2, 7)
	require.NoError(t, err)

	income := core.Income
	views, err := app.Services.Dashboard.ListTransactions(ctx, core.Filter{Type: &income})
	require.NoError(t, err)

	var bonus bool
	for _, v := range views {
		if v.Description == "Premia roczna" {
			bonus = true
			assert.Equal(t, "Premia", v.Category.Name)
		}
	}
	assert.True(t, bonus)
}
