package webhook

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/mattjoyce/dmhook/internal/dm"
	"github.com/mattjoyce/dmhook/internal/metrics"
	"github.com/mattjoyce/dmhook/internal/storage"
)

// Kind separates caller mistakes from failures on our side.
type Kind int

const (
	// KindClient covers auth, validation and body size rejections.
	KindClient Kind = iota
	// KindServer covers datastore and unclassified internal failures.
	KindServer
)

func (k Kind) String() string {
	if k == KindServer {
		return "server"
	}
	return "client"
}

// Error is the single error shape handlers return. writeError turns it into
// a response.
type Error struct {
	Kind     Kind
	Status   int
	Message  string
	Details  string
	Required []string
	Allowed  []string
	// Reason labels dmhook_webhook_rejections_total.
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Response renders e. Server-kind details are dropped unless exposeDetails.
func (e *Error) Response(exposeDetails bool) ErrorResponse {
	resp := ErrorResponse{
		Error:    e.Message,
		Details:  e.Details,
		Required: e.Required,
		Allowed:  e.Allowed,
	}
	if e.Kind == KindServer && !exposeDetails {
		resp.Details = ""
	}
	return resp
}

func errUnauthorized() *Error {
	return &Error{
		Kind:    KindClient,
		Status:  http.StatusUnauthorized,
		Message: "Invalid webhook secret",
		Reason:  metrics.ReasonAuth,
	}
}

func errTooLarge(limit int64) *Error {
	return &Error{
		Kind:    KindClient,
		Status:  http.StatusRequestEntityTooLarge,
		Message: "Payload too large",
		Reason:  metrics.ReasonTooLarge,
		Err:     fmt.Errorf("body exceeds %d bytes", limit),
	}
}

func errMissingFields(err error) *Error {
	return &Error{
		Kind:     KindClient,
		Status:   http.StatusBadRequest,
		Message:  "Missing required fields",
		Required: slices.Clone(dm.RequiredFields),
		Reason:   metrics.ReasonValidation,
		Err:      err,
	}
}

func errUnsupportedPlatform(platform string, allowed []string) *Error {
	return &Error{
		Kind:    KindClient,
		Status:  http.StatusBadRequest,
		Message: "Unsupported platform",
		Allowed: slices.Clone(allowed),
		Reason:  metrics.ReasonPlatform,
		Err:     fmt.Errorf("platform %q not allowed", platform),
	}
}

func errInvalidTimestamp(err error) *Error {
	return &Error{
		Kind:    KindClient,
		Status:  http.StatusBadRequest,
		Message: "Invalid timestamp",
		Details: err.Error(),
		Reason:  metrics.ReasonTimestamp,
		Err:     err,
	}
}

func errStore(err error) *Error {
	details := err.Error()
	var storeErr *storage.Error
	if errors.As(err, &storeErr) {
		details = storeErr.Message
	}
	return &Error{
		Kind:    KindServer,
		Status:  http.StatusInternalServerError,
		Message: "Failed to save DM",
		Details: details,
		Reason:  metrics.ReasonStore,
		Err:     err,
	}
}

func errInternal(reason string, err error) *Error {
	return &Error{
		Kind:    KindServer,
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Details: err.Error(),
		Reason:  reason,
		Err:     err,
	}
}
