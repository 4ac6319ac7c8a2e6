package gemx

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// SessionConfig configures a chat [Session].
type SessionConfig struct {
	// Model to generate with. Defaults to the client's configured model.
	Model string

	// SystemInstruction steers the model's behavior for the whole session.
	// Ignored when CachedContent is set; a cache carries its own system
	// instruction.
	SystemInstruction string

	// CachedContent is the resource name of a cached content handle
	// (e.g. "cachedContents/abc123") the session generates against.
	CachedContent string

	// Generation parameters. Nil pointer fields leave the service default in
	// effect.
	Temperature     *float32
	TopP            *float32
	TopK            *float32
	MaxOutputTokens int
	StopSequences   []string
}

// A Session is a multi-turn conversation. The service itself is stateless:
// the session keeps the conversation history locally and resends it with
// every turn (unless a cached content handle carries shared context).
//
// A Session is not safe for concurrent use.
type Session struct {
	client  *Client
	cfg     SessionConfig
	history []*genai.Content
	tools   map[string]*registeredTool
	// order preserves tool registration order for stable declarations.
	order []string
}

// NewSession starts a chat session with the given configuration.
func (c *Client) NewSession(cfg SessionConfig) *Session {
	return &Session{client: c, cfg: cfg}
}

// RegisterTool declares a tool the model may call during this session.
// Returns [ToolRegistrationErr] on an empty or duplicate name, or a schema
// that cannot be expressed for the API.
func (s *Session) RegisterTool(tool Tool) error {
	if tool.Name == "" {
		return ToolRegistrationErr{Tool: tool.Name, Cause: fmt.Errorf("tool name cannot be empty")}
	}
	if _, exists := s.tools[tool.Name]; exists {
		return ToolRegistrationErr{Tool: tool.Name, Cause: fmt.Errorf("tool already registered")}
	}
	rt, err := compileTool(tool)
	if err != nil {
		return ToolRegistrationErr{Tool: tool.Name, Cause: err}
	}
	if s.tools == nil {
		s.tools = make(map[string]*registeredTool)
	}
	s.tools[tool.Name] = rt
	s.order = append(s.order, tool.Name)
	return nil
}

// A ToolCall is a function invocation requested by the model.
type ToolCall struct {
	// Name is the tool name the model wants to invoke.
	Name string
	// Args holds the invocation arguments, already validated against the
	// registered tool's input schema.
	Args map[string]any
}

// A Reply is the model's response to one turn of a [Session].
type Reply struct {
	// Text is the concatenated text content of the reply. Empty when the
	// model answered with tool calls only.
	Text string
	// ToolCalls lists the function invocations the model requested, in order.
	// The caller executes them and feeds results back with
	// [Session.SendToolResult].
	ToolCalls []ToolCall
	// Usage carries token accounting reported by the service for this turn.
	Usage Metrics
}

// SendText sends a single text message to the session.
func (s *Session) SendText(ctx context.Context, text string) (*Reply, error) {
	return s.Send(ctx, genai.NewPartFromText(text))
}

// Send sends one user turn composed of the given parts and returns the
// model's reply. On success the turn and the reply are appended to the
// session history; on error the history is left untouched.
//
// When generation stops at the configured output token limit, the partial
// reply is returned together with [MaxOutputLimitErr].
func (s *Session) Send(ctx context.Context, parts ...*genai.Part) (*Reply, error) {
	if len(parts) == 0 {
		return nil, EmptyPromptErr
	}
	return s.send(ctx, genai.NewContentFromParts(parts, genai.RoleUser))
}

// SendToolResult feeds the result of a tool invocation back to the model and
// returns its follow-up reply.
func (s *Session) SendToolResult(ctx context.Context, name string, result map[string]any) (*Reply, error) {
	part := &genai.Part{
		FunctionResponse: &genai.FunctionResponse{Name: name, Response: result},
	}
	return s.send(ctx, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))
}

// History returns a copy of the conversation so far, alternating user and
// model turns.
func (s *Session) History() []*genai.Content {
	out := make([]*genai.Content, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) send(ctx context.Context, turn *genai.Content) (*Reply, error) {
	model := s.cfg.Model
	if model == "" {
		model = s.client.cfg.model()
	}
	contents := make([]*genai.Content, 0, len(s.history)+1)
	contents = append(contents, s.history...)
	contents = append(contents, turn)

	resp, err := s.client.genai.Models.GenerateContent(ctx, model, contents, s.generationConfig())
	if err != nil {
		return nil, mapAPIError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("response contains no candidates")
	}
	cand := resp.Candidates[0]

	reply := &Reply{Usage: usageMetrics(resp.UsageMetadata)}
	for _, part := range cand.Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			reply.Text += part.Text
		}
		if fc := part.FunctionCall; fc != nil {
			if rt, ok := s.tools[fc.Name]; ok {
				if verr := rt.validateArgs(fc.Args); verr != nil {
					return nil, ToolCallValidationErr{Tool: fc.Name, Cause: verr}
				}
			}
			reply.ToolCalls = append(reply.ToolCalls, ToolCall{Name: fc.Name, Args: fc.Args})
		}
	}

	if cand.FinishReason == genai.FinishReasonMaxTokens {
		return reply, MaxOutputLimitErr
	}

	s.history = append(s.history, turn, cand.Content)
	return reply, nil
}

func (s *Session) generationConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:   s.cfg.Temperature,
		TopP:          s.cfg.TopP,
		TopK:          s.cfg.TopK,
		StopSequences: s.cfg.StopSequences,
		CachedContent: s.cfg.CachedContent,
	}
	if s.cfg.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(s.cfg.MaxOutputTokens)
	}
	if s.cfg.SystemInstruction != "" && s.cfg.CachedContent == "" {
		cfg.SystemInstruction = genai.NewContentFromText(s.cfg.SystemInstruction, genai.RoleUser)
	}
	if len(s.order) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(s.order))
		for _, name := range s.order {
			decls = append(decls, s.tools[name].decl)
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return cfg
}

func usageMetrics(u *genai.GenerateContentResponseUsageMetadata) Metrics {
	m := make(Metrics)
	if u == nil {
		return m
	}
	if u.PromptTokenCount > 0 {
		m[UsageMetricInputTokens] = int(u.PromptTokenCount)
	}
	if u.CandidatesTokenCount > 0 {
		m[UsageMetricOutputTokens] = int(u.CandidatesTokenCount)
	}
	if u.CachedContentTokenCount > 0 {
		m[UsageMetricCachedTokens] = int(u.CachedContentTokenCount)
	}
	return m
}
