package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mattjoyce/dmhook/internal/config"
	"github.com/mattjoyce/dmhook/internal/dm"
)

const (
	// pgrstObjectMediaType asks PostgREST for a single object instead of an array.
	pgrstObjectMediaType = "application/vnd.pgrst.object+json"
	restPathPrefix       = "/rest/v1"
)

// SupabaseStore inserts through the Supabase REST (PostgREST) API using the
// service-role key, which bypasses row-level security.
type SupabaseStore struct {
	client *resty.Client
	table  string
}

// postgrestError is the JSON error body PostgREST returns on failure.
type postgrestError struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details"`
	Hint    *string `json:"hint"`
}

// NewSupabaseStore builds a REST client for cfg.URL.
func NewSupabaseStore(cfg config.StoreConfig) (*SupabaseStore, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" {
		return nil, fmt.Errorf("supabase store requires url and service_key")
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")+restPathPrefix).
		SetHeader("apikey", cfg.ServiceKey).
		SetAuthToken(cfg.ServiceKey).
		SetHeader("User-Agent", "dmhook").
		SetTimeout(cfg.Timeout)

	return &SupabaseStore{client: client, table: cfg.Table}, nil
}

// InsertDM posts rec and returns the representation PostgREST sends back.
func (s *SupabaseStore) InsertDM(ctx context.Context, rec dm.Record) (*dm.Row, error) {
	var (
		row    dm.Row
		apiErr postgrestError
	)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", pgrstObjectMediaType).
		SetHeader("Prefer", "return=representation").
		SetBody(rec).
		SetResult(&row).
		SetError(&apiErr).
		Post("/" + s.table)
	if err != nil {
		return nil, &Error{Op: "insert dm", Message: err.Error(), Err: err}
	}
	if resp.IsError() {
		return nil, supabaseError("insert dm", resp, apiErr)
	}
	return &row, nil
}

// Ping issues a HEAD against the table, which checks both reachability and
// the service key.
func (s *SupabaseStore) Ping(ctx context.Context) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("limit", "1").
		Head("/" + s.table)
	if err != nil {
		return fmt.Errorf("ping supabase: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("ping supabase: %s", resp.Status())
	}
	return nil
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (s *SupabaseStore) Close() error {
	return nil
}

func supabaseError(op string, resp *resty.Response, apiErr postgrestError) *Error {
	msg := apiErr.Message
	if msg == "" {
		msg = strings.TrimSpace(resp.String())
	}
	if msg == "" {
		msg = resp.Status()
	}
	return &Error{Op: op, Code: apiErr.Code, Message: msg}
}
