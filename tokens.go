package gemx

import (
	"context"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"google.golang.org/genai"
)

// TokenCount is the result of a remote token count.
type TokenCount struct {
	// Total is the total number of tokens in the counted content.
	Total int
	// Cached is the number of tokens that would be served from cached
	// content, when a cache handle applies. Zero otherwise.
	Cached int
}

// CountTokens counts the tokens the given parts occupy for model. The count
// is performed by the service; it is the authoritative accounting the API
// bills against. An empty model uses the client's default.
func (c *Client) CountTokens(ctx context.Context, model string, parts ...*genai.Part) (TokenCount, error) {
	if len(parts) == 0 {
		return TokenCount{}, EmptyPromptErr
	}
	if model == "" {
		model = c.cfg.model()
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	res, err := c.genai.Models.CountTokens(ctx, model, contents, nil)
	if err != nil {
		return TokenCount{}, mapAPIError(err)
	}
	return TokenCount{
		Total:  int(res.TotalTokens),
		Cached: int(res.CachedContentTokenCount),
	}, nil
}

// CountText is a convenience wrapper around [Client.CountTokens] for plain
// text.
func (c *Client) CountText(ctx context.Context, model, text string) (TokenCount, error) {
	return c.CountTokens(ctx, model, genai.NewPartFromText(text))
}

// estimatorEncoding is the BPE encoding used for local estimates. Gemini's
// tokenizer is not public, so any local count is an approximation; o200k is
// the closest widely available vocabulary.
const estimatorEncoding = "o200k_base"

// An Estimator produces local, offline token estimates for text. Estimates
// are advisory: useful for budgeting prompts before a request, but the remote
// [Client.CountTokens] is the source of truth.
type Estimator struct {
	encode func(text string) int
}

// NewEstimator returns an Estimator backed by a tiktoken BPE encoding. If the
// encoding cannot be loaded (for example, offline with no cached vocabulary),
// the estimator falls back to a characters/4 heuristic.
func NewEstimator() *Estimator {
	enc, err := tiktoken.GetEncoding(estimatorEncoding)
	if err != nil {
		return &Estimator{encode: heuristicTokens}
	}
	return &Estimator{encode: func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}}
}

// Estimate returns the approximate number of tokens in text.
func (e *Estimator) Estimate(text string) int {
	if text == "" {
		return 0
	}
	return e.encode(text)
}

// heuristicTokens approximates one token per four characters, rounding up.
// This tracks the rule of thumb the API documentation gives for English text.
func heuristicTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}
