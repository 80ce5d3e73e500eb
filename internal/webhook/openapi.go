package webhook

import (
	"net/http"
	"slices"

	"github.com/mattjoyce/dmhook/internal/config"
	"github.com/mattjoyce/dmhook/internal/dm"
)

// buildOpenAPIDoc returns an OpenAPI 3.1 document describing the DM
// endpoint as configured.
func buildOpenAPIDoc(cfg *config.Config) map[string]any {
	operation := map[string]any{
		"operationId": "receiveDM",
		"summary":     "Store one direct message",
		"tags":        []string{"dm"},
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": "#/components/schemas/DMEvent"},
				},
			},
		},
		"responses": map[string]any{
			"200": jsonResponse("DM received and saved", "SuccessResponse"),
			"400": jsonResponse("Missing required fields, unsupported platform or invalid timestamp", "ErrorResponse"),
			"401": jsonResponse("Invalid webhook secret", "ErrorResponse"),
			"413": jsonResponse("Payload too large", "ErrorResponse"),
			"500": jsonResponse("Failed to save DM or internal error", "ErrorResponse"),
		},
	}

	components := map[string]any{
		"schemas": map[string]any{
			"DMEvent":         eventSchema(cfg.Webhook.AllowedPlatforms),
			"DMRow":           rowSchema(),
			"SuccessResponse": successSchema(),
			"ErrorResponse":   errorSchema(),
		},
	}

	if cfg.Auth().Mode == config.AuthSharedSecret {
		operation["security"] = []any{map[string]any{"WebhookSecret": []string{}}}
		components["securitySchemes"] = map[string]any{
			"WebhookSecret": map[string]any{
				"type": "apiKey",
				"in":   "header",
				"name": HeaderWebhookSecret,
			},
		}
	}

	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":   cfg.Service.Name,
			"version": "1.0",
		},
		"paths": map[string]any{
			cfg.Webhook.Path: map[string]any{
				"post": operation,
				"options": map[string]any{
					"operationId": "preflight",
					"summary":     "CORS preflight",
					"responses": map[string]any{
						"200": map[string]any{"description": "ok"},
					},
				},
			},
			"/healthz": map[string]any{
				"get": map[string]any{
					"operationId": "health",
					"summary":     "Liveness and store reachability",
					"responses": map[string]any{
						"200": map[string]any{"description": "Store reachable"},
						"503": map[string]any{"description": "Store ping failed"},
					},
				},
			},
		},
		"components": components,
	}
}

func jsonResponse(description, schema string) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/" + schema},
			},
		},
	}
}

func eventSchema(allowedPlatforms []string) map[string]any {
	platform := map[string]any{"type": "string", "minLength": 1}
	if len(allowedPlatforms) > 0 {
		platform["enum"] = slices.Clone(allowedPlatforms)
	}

	return map[string]any{
		"type":     "object",
		"required": slices.Clone(dm.RequiredFields),
		"properties": map[string]any{
			"platform":        platform,
			"sender_username": map[string]any{"type": "string", "minLength": 1},
			"sender_name":     map[string]any{"type": "string"},
			"message_text":    map[string]any{"type": "string", "minLength": 1},
			"message_id":      map[string]any{"type": "string"},
			"conversation_id": map[string]any{"type": "string"},
			"timestamp": map[string]any{
				"description": "Date/time string or Unix milliseconds; stored as UTC ISO-8601",
				"oneOf": []any{
					map[string]any{"type": "string", "minLength": 1},
					map[string]any{"type": "number"},
				},
			},
			"user_id": map[string]any{"type": "string", "minLength": 1},
		},
	}
}

func rowSchema() map[string]any {
	str := map[string]any{"type": "string"}
	nullable := map[string]any{"type": []string{"string", "null"}}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":              str,
			"user_id":         str,
			"platform":        str,
			"sender_username": str,
			"sender_name":     nullable,
			"message_text":    str,
			"message_id":      nullable,
			"conversation_id": nullable,
			"timestamp":       map[string]any{"type": "string", "format": "date-time"},
			"status":          map[string]any{"type": "string", "enum": []string{dm.StatusNew}},
			"created_at":      map[string]any{"type": "string", "format": "date-time"},
		},
	}
}

func successSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"success", "message", "data"},
		"properties": map[string]any{
			"success": map[string]any{"type": "boolean"},
			"message": map[string]any{"type": "string"},
			"data":    map[string]any{"$ref": "#/components/schemas/DMRow"},
		},
	}
}

func errorSchema() map[string]any {
	list := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	return map[string]any{
		"type":     "object",
		"required": []string{"error"},
		"properties": map[string]any{
			"error":    map[string]any{"type": "string"},
			"details":  map[string]any{"type": "string"},
			"required": list,
			"allowed":  list,
		},
	}
}

// handleOpenAPI serves the generated document.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.openapi)
}
