package gemx

import (
	"context"
	"net/http"
	"os"
	"strings"

	"google.golang.org/genai"
)

// Backend selects which flavor of the Gemini API a Client talks to.
type Backend int

const (
	// BackendGeminiAPI is the public Gemini API, authenticated with an API key.
	BackendGeminiAPI Backend = iota
	// BackendVertexAI is the Vertex AI flavor of the API, authenticated with
	// application default credentials and addressed by project/location.
	BackendVertexAI
)

func (b Backend) String() string {
	if b == BackendVertexAI {
		return "vertex"
	}
	return "gemini-api"
}

// DefaultModel is used whenever a model name is not provided explicitly.
const DefaultModel = "gemini-2.0-flash"

// Config holds everything needed to construct a [Client].
//
// The zero value is not usable on its own; either fill in APIKey or use
// [ConfigFromEnv] to pick up credentials the way the official sample
// programs do.
type Config struct {
	// APIKey authenticates against the public Gemini API. Required for
	// BackendGeminiAPI, ignored for BackendVertexAI.
	APIKey string

	// Backend selects the API flavor. Defaults to BackendGeminiAPI.
	Backend Backend

	// Project and Location address the Vertex AI backend. Ignored for
	// BackendGeminiAPI.
	Project  string
	Location string

	// Model is the default model name used by operations that do not take
	// an explicit model. Defaults to [DefaultModel].
	Model string

	// BaseURL overrides the API endpoint. Used by tests to point the client
	// at a local fake.
	BaseURL string

	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client
}

// ConfigFromEnv builds a Config from the environment variables the Gemini
// sample programs conventionally use:
//
//	GEMINI_API_KEY or GOOGLE_API_KEY    the API key
//	GOOGLE_GENAI_USE_VERTEXAI           "true" to target Vertex AI
//	GOOGLE_CLOUD_PROJECT                Vertex AI project
//	GOOGLE_CLOUD_LOCATION               Vertex AI location
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:   os.Getenv("GEMINI_API_KEY"),
		Project:  os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location: os.Getenv("GOOGLE_CLOUD_LOCATION"),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if strings.EqualFold(os.Getenv("GOOGLE_GENAI_USE_VERTEXAI"), "true") {
		cfg.Backend = BackendVertexAI
	}
	return cfg
}

func (c Config) model() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

// A Client is a thin handle over the Gemini API covering the operations this
// package exposes: token counting, chat generation, file management, and
// context caching.
//
// Clients should be reused; they are safe for concurrent use by multiple
// goroutines.
type Client struct {
	genai *genai.Client
	cfg   Config
}

// NewClient constructs a Client from cfg.
//
// Returns [AuthenticationErr] when the Gemini API backend is selected and no
// API key is present.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Backend == BackendGeminiAPI && cfg.APIKey == "" {
		return nil, AuthenticationErr("missing API key: set GEMINI_API_KEY or provide Config.APIKey")
	}

	cc := &genai.ClientConfig{
		HTTPClient: cfg.HTTPClient,
	}
	switch cfg.Backend {
	case BackendVertexAI:
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	default:
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, mapAPIError(err)
	}
	return &Client{genai: gc, cfg: cfg}, nil
}

// SDK exposes the underlying genai client for operations this package does
// not wrap.
func (c *Client) SDK() *genai.Client {
	return c.genai
}
