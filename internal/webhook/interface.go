package webhook

import (
	"context"

	"github.com/mattjoyce/dmhook/internal/dm"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/mattjoyce/dmhook/internal/webhook Store

// Store defines the persistence operations used by the webhook server.
type Store interface {
	InsertDM(ctx context.Context, rec dm.Record) (*dm.Row, error)
	Ping(ctx context.Context) error
}
