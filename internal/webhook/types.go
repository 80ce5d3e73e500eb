package webhook

import "github.com/mattjoyce/dmhook/internal/dm"

// HeaderWebhookSecret carries the shared secret on every POST.
const HeaderWebhookSecret = "X-Webhook-Secret"

// CORS values sent on every response.
const (
	corsAllowOrigin  = "*"
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type, x-webhook-secret"
)

// SuccessResponse is the JSON response for a stored DM.
type SuccessResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    *dm.Row `json:"data"`
}

// ErrorResponse is the JSON response for every rejected or failed call.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  string   `json:"details,omitempty"`
	Required []string `json:"required,omitempty"`
	Allowed  []string `json:"allowed,omitempty"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Store         string `json:"store"`
	Error         string `json:"error,omitempty"`
}

const successMessage = "DM received and saved"
