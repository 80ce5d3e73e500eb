package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/dmhook/internal/config"
	"github.com/mattjoyce/dmhook/internal/dm"
)

// Runs only when DMHOOK_TEST_POSTGRES_DSN points at a disposable database.
func TestPostgresInsertDM(t *testing.T) {
	dsn := os.Getenv("DMHOOK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DMHOOK_TEST_POSTGRES_DSN not set")
	}

	cfg := config.Defaults().Store
	cfg.Driver = config.DriverPostgres
	cfg.DSN = dsn
	cfg.Table = "dmhook_test_dms"
	cfg.AutoMigrate = true
	cfg.Timeout = 5 * time.Second

	ctx := context.Background()
	s, err := OpenPostgres(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = s.pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+cfg.Table)
		_ = s.Close()
	})

	first, err := s.InsertDM(ctx, sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, dm.StatusNew, first.Status)
	assert.Equal(t, "2024-01-01T10:00:00.000Z", first.Timestamp)

	second, err := s.InsertDM(ctx, sampleRecord())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestOpenPostgresBadDSN(t *testing.T) {
	cfg := config.Defaults().Store
	cfg.Driver = config.DriverPostgres
	cfg.DSN = "postgres://%zz"

	_, err := OpenPostgres(context.Background(), cfg)
	assert.ErrorContains(t, err, "parse postgres dsn")
}
