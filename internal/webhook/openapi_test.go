package webhook

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mattjoyce/dmhook/internal/config"
	"github.com/mattjoyce/dmhook/internal/dm"
)

func TestBuildOpenAPIDoc_DescribesWebhookPath(t *testing.T) {
	cfg := testConfig("")
	cfg.Webhook.Path = "/hooks/dm"

	doc := buildOpenAPIDoc(cfg)
	if doc["openapi"] != "3.1.0" {
		t.Errorf("openapi = %v, want 3.1.0", doc["openapi"])
	}

	paths := doc["paths"].(map[string]any)
	item, ok := paths["/hooks/dm"].(map[string]any)
	if !ok {
		t.Fatalf("expected path item for /hooks/dm, got %v", paths)
	}
	post := item["post"].(map[string]any)
	responses := post["responses"].(map[string]any)
	for _, code := range []string{"200", "400", "401", "413", "500"} {
		if _, ok := responses[code]; !ok {
			t.Errorf("missing response %s", code)
		}
	}
	if _, ok := item["options"]; !ok {
		t.Error("expected preflight operation")
	}
}

func TestBuildOpenAPIDoc_RequiredFields(t *testing.T) {
	doc := buildOpenAPIDoc(testConfig(""))

	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	event := schemas["DMEvent"].(map[string]any)
	required := event["required"].([]string)
	if len(required) != len(dm.RequiredFields) {
		t.Fatalf("required = %v, want %v", required, dm.RequiredFields)
	}
	for i := range required {
		if required[i] != dm.RequiredFields[i] {
			t.Errorf("required[%d] = %q, want %q", i, required[i], dm.RequiredFields[i])
		}
	}

	platform := event["properties"].(map[string]any)["platform"].(map[string]any)
	if _, ok := platform["enum"]; ok {
		t.Error("platform enum should be absent when allowed_platforms is empty")
	}
}

func TestBuildOpenAPIDoc_PlatformEnum(t *testing.T) {
	cfg := testConfig("")
	cfg.Webhook.AllowedPlatforms = []string{"instagram", "facebook"}

	doc := buildOpenAPIDoc(cfg)
	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	platform := schemas["DMEvent"].(map[string]any)["properties"].(map[string]any)["platform"].(map[string]any)
	enum := platform["enum"].([]string)
	if len(enum) != 2 || enum[0] != "instagram" || enum[1] != "facebook" {
		t.Errorf("enum = %v", enum)
	}
}

func TestBuildOpenAPIDoc_SecurityScheme(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		wantScheme bool
	}{
		{name: "shared secret", secret: "s3cret", wantScheme: true},
		{name: "no auth", secret: "", wantScheme: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := buildOpenAPIDoc(testConfig(tt.secret))
			components := doc["components"].(map[string]any)

			schemes, ok := components["securitySchemes"].(map[string]any)
			if ok != tt.wantScheme {
				t.Fatalf("securitySchemes present = %v, want %v", ok, tt.wantScheme)
			}
			if !tt.wantScheme {
				return
			}
			scheme := schemes["WebhookSecret"].(map[string]any)
			if scheme["type"] != "apiKey" || scheme["in"] != "header" || scheme["name"] != HeaderWebhookSecret {
				t.Errorf("unexpected WebhookSecret scheme: %v", scheme)
			}
		})
	}
}

func TestOpenAPIRoute(t *testing.T) {
	h, _ := newTestServer(t, testConfig(""))

	rec := doRequest(h, http.MethodGet, "/openapi.json", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	info := doc["info"].(map[string]any)
	if info["title"] != config.Defaults().Service.Name {
		t.Errorf("title = %v", info["title"])
	}
}
