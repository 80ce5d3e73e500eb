package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mattjoyce/dmhook/internal/config"
	"github.com/mattjoyce/dmhook/internal/dm"
	"github.com/mattjoyce/dmhook/internal/metrics"
)

// handlePreflight answers CORS preflight. No auth, body is ignored.
func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

// handleDM handles a DM event POST.
func (s *Server) handleDM(w http.ResponseWriter, r *http.Request) {
	row, sum, werr := s.receive(r)
	if werr != nil {
		s.writeError(w, r, werr)
		return
	}

	metrics.DMsReceived.WithLabelValues(row.Platform).Inc()
	s.requestLogger(r).Info("dm stored",
		"id", string(row.ID),
		"platform", row.Platform,
		"user_id", row.UserID,
		"payload_blake3", sum,
	)

	s.respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: successMessage,
		Data:    row,
	})
}

// receive runs one delivery through auth, decoding, validation and a single
// insert. It returns the stored row and the payload fingerprint.
func (s *Server) receive(r *http.Request) (*dm.Row, string, *Error) {
	if s.auth.Mode == config.AuthSharedSecret &&
		!verifySecret(r.Header.Get(HeaderWebhookSecret), s.auth.Secret) {
		return nil, "", errUnauthorized()
	}

	body, werr := s.readBody(r)
	if werr != nil {
		return nil, "", werr
	}

	var event dm.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, "", errInternal(metrics.ReasonParse, fmt.Errorf("decode payload: %w", err))
	}

	if err := event.Validate(); err != nil {
		return nil, "", errMissingFields(err)
	}
	if !s.cfg.PlatformAllowed(event.Platform) {
		return nil, "", errUnsupportedPlatform(event.Platform, s.cfg.Webhook.AllowedPlatforms)
	}

	rec, err := event.Record()
	if err != nil {
		return nil, "", errInvalidTimestamp(err)
	}

	row, err := s.insert(r.Context(), rec)
	if err != nil {
		return nil, "", errStore(err)
	}
	return row, fingerprint(body), nil
}

// readBody reads at most maxBody bytes.
func (s *Server) readBody(r *http.Request) ([]byte, *Error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.maxBody+1))
	if err != nil {
		return nil, errInternal(metrics.ReasonParse, fmt.Errorf("read body: %w", err))
	}
	if int64(len(body)) > s.maxBody {
		return nil, errTooLarge(s.maxBody)
	}
	return body, nil
}

func (s *Server) insert(ctx context.Context, rec dm.Record) (*dm.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Store.Timeout)
	defer cancel()

	start := time.Now()
	row, err := s.store.InsertDM(ctx, rec)
	metrics.StoreInsertDuration.WithLabelValues(s.cfg.Store.Driver).Observe(time.Since(start).Seconds())
	return row, err
}

// handleHealth reports liveness plus a store ping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Store.Timeout)
	defer cancel()

	resp := HealthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Store:         s.cfg.Store.Driver,
	}
	if err := s.store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		s.requestLogger(r).Warn("store ping failed", "error", err)
		s.respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}
