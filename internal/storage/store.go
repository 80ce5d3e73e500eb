package storage

import (
	"context"
	"fmt"

	"github.com/mattjoyce/dmhook/internal/config"
	"github.com/mattjoyce/dmhook/internal/dm"
)

// Store persists DM records. Implementations are safe for concurrent use.
type Store interface {
	// InsertDM writes one row and returns it as stored.
	InsertDM(ctx context.Context, rec dm.Record) (*dm.Row, error)
	// Ping checks that the datastore is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// Error is a datastore rejection. Message carries the datastore's own text
// and is what callers see in the "details" field.
type Error struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Open builds the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSupabase:
		return NewSupabaseStore(cfg)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg)
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.Path, cfg.Table)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
