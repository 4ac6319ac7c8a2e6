package gemx

import (
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAICompatBaseURL is the Gemini API's OpenAI-compatible endpoint.
const OpenAICompatBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// NewOpenAICompatClient returns an OpenAI SDK client pointed at the Gemini
// API's OpenAI compatibility layer. Gemini model names are passed where the
// OpenAI SDK expects a model, e.g.:
//
//	client, err := gemx.NewOpenAICompatClient(cfg)
//	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
//	    Model: "gemini-2.0-flash",
//	    Messages: []openai.ChatCompletionMessageParamUnion{
//	        openai.UserMessage("Explain how AI works in one sentence."),
//	    },
//	})
//
// Only the Gemini API backend supports the compatibility layer; the Vertex
// backend does not.
func NewOpenAICompatClient(cfg Config) (openai.Client, error) {
	if cfg.Backend != BackendGeminiAPI {
		return openai.Client{}, AuthenticationErr("OpenAI compatibility requires the Gemini API backend")
	}
	if cfg.APIKey == "" {
		return openai.Client{}, AuthenticationErr("missing API key: set GEMINI_API_KEY or provide Config.APIKey")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = OpenAICompatBaseURL
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return openai.NewClient(opts...), nil
}
