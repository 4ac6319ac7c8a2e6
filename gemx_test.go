package gemx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestClient builds a Client against a local fake API server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), Config{
		APIKey:  "fake-api-key",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func jsonHandler(statusCode int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	})
}

func TestNewClientMissingKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	var authErr AuthenticationErr
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected AuthenticationErr, got %T: %v", err, err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "fallback-key")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "false")

	cfg := ConfigFromEnv()
	if cfg.APIKey != "fallback-key" {
		t.Errorf("Expected GOOGLE_API_KEY fallback, got %q", cfg.APIKey)
	}
	if cfg.Backend != BackendGeminiAPI {
		t.Errorf("Expected Gemini API backend, got %v", cfg.Backend)
	}

	t.Setenv("GEMINI_API_KEY", "primary-key")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "true")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "proj")
	t.Setenv("GOOGLE_CLOUD_LOCATION", "us-central1")

	cfg = ConfigFromEnv()
	if cfg.APIKey != "primary-key" {
		t.Errorf("Expected GEMINI_API_KEY to win, got %q", cfg.APIKey)
	}
	if cfg.Backend != BackendVertexAI {
		t.Errorf("Expected Vertex backend, got %v", cfg.Backend)
	}
	if cfg.Project != "proj" || cfg.Location != "us-central1" {
		t.Errorf("Expected project/location from env, got %q/%q", cfg.Project, cfg.Location)
	}
}
