// Command gemx-demos runs one demonstration routine per gemx capability
// against a live API key: token counting, chat with a system instruction,
// tool calling, file upload with processing wait, context caching, and chat
// through the OpenAI-compatible endpoint.
//
//	export GEMINI_API_KEY={YOUR_API_KEY}
//	go run ./cmd/gemx-demos -model=gemini-2.0-flash -demo=all
//
// The file demo only runs when -media points at a local file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"github.com/ferrostal/gemx"
)

var (
	model = flag.String("model", gemx.DefaultModel, "the model name, e.g. gemini-2.0-flash")
	demo  = flag.String("demo", "all", "which demo to run: tokens, chat, tools, files, cache, compat, or all")
	media = flag.String("media", "", "path to a local media file for the files demo")
)

type routine struct {
	name string
	run  func(ctx context.Context, client *gemx.Client) error
}

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg := gemx.ConfigFromEnv()
	cfg.Model = *model
	client, err := gemx.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Backend: %s, model: %s\n", cfg.Backend, *model)

	routines := []routine{
		{"tokens", demoTokens},
		{"chat", demoChat},
		{"tools", demoTools},
		{"files", demoFiles},
		{"cache", demoCache},
		{"compat", func(ctx context.Context, c *gemx.Client) error { return demoCompat(ctx, cfg) }},
	}

	ran := 0
	for _, r := range routines {
		if *demo != "all" && *demo != r.name {
			continue
		}
		ran++
		fmt.Printf("\n=== %s ===\n", r.name)
		if err := r.run(ctx, client); err != nil {
			log.Printf("%s demo failed: %v", r.name, err)
		}
	}
	if ran == 0 {
		log.Fatalf("unknown demo %q", *demo)
	}
}

func demoTokens(ctx context.Context, client *gemx.Client) error {
	const prompt = "The quick brown fox jumps over the lazy dog."

	est := gemx.NewEstimator()
	fmt.Printf("local estimate: %d tokens\n", est.Estimate(prompt))

	count, err := client.CountText(ctx, *model, prompt)
	if err != nil {
		return err
	}
	fmt.Printf("remote count: %d tokens\n", count.Total)
	return nil
}

func demoChat(ctx context.Context, client *gemx.Client) error {
	session := client.NewSession(gemx.SessionConfig{
		Model:             *model,
		SystemInstruction: "You are a cat. Your name is Neko. Answer in one sentence.",
	})

	reply, err := session.SendText(ctx, "Hello! What is your name?")
	if err != nil {
		return err
	}
	fmt.Println("model:", reply.Text)

	reply, err = session.SendText(ctx, "What did I just ask you?")
	if err != nil {
		return err
	}
	fmt.Println("model:", reply.Text)
	if in, ok := gemx.InputTokens(reply.Usage); ok {
		fmt.Printf("second turn input tokens (includes history): %d\n", in)
	}
	return nil
}

func demoTools(ctx context.Context, client *gemx.Client) error {
	session := client.NewSession(gemx.SessionConfig{Model: *model})
	err := session.RegisterTool(gemx.Tool{
		Name:        "get_weather",
		Description: "Get the current weather in a given location",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"location": {
					Type:        "string",
					Description: "The city and state, e.g. San Francisco, CA",
				},
			},
			Required: []string{"location"},
		},
	})
	if err != nil {
		return err
	}

	reply, err := session.SendText(ctx, "What's the weather like in Paris right now?")
	if err != nil {
		return err
	}
	if len(reply.ToolCalls) == 0 {
		return fmt.Errorf("expected a tool call, got text: %q", reply.Text)
	}
	call := reply.ToolCalls[0]
	fmt.Printf("model requested %s(%v)\n", call.Name, call.Args)

	reply, err = session.SendToolResult(ctx, call.Name, map[string]any{
		"temperature": "18C",
		"conditions":  "overcast",
	})
	if err != nil {
		return err
	}
	fmt.Println("model:", reply.Text)
	return nil
}

func demoFiles(ctx context.Context, client *gemx.Client) error {
	if *media == "" {
		fmt.Println("skipped: pass -media to run the files demo")
		return nil
	}

	file, err := client.UploadFile(ctx, *media, "")
	if err != nil {
		return err
	}
	fmt.Printf("uploaded %s (%s), waiting for processing\n", file.Name, file.MIMEType)

	file, err = client.WaitForFile(ctx, file.Name, gemx.WithWaitTimeout(3*time.Minute))
	if err != nil {
		return err
	}
	fmt.Printf("file is %s\n", file.State)

	session := client.NewSession(gemx.SessionConfig{Model: *model})
	reply, err := session.Send(ctx,
		gemx.FilePart(file),
		genai.NewPartFromText("Describe this file in two sentences."),
	)
	if err != nil {
		return err
	}
	fmt.Println("model:", reply.Text)

	return client.DeleteFile(ctx, file.Name)
}

func demoCache(ctx context.Context, client *gemx.Client) error {
	// Cached content requires a minimum prompt size, so feed it a sizeable
	// document.
	document := strings.Repeat("The industrial revolution changed patterns of work, settlement and trade across Europe. ", 256)

	cache, err := client.CreateCache(ctx, *model, gemx.CacheConfig{
		TTL:               5 * time.Minute,
		SystemInstruction: "Answer questions about the provided document only.",
		Contents:          []*genai.Content{genai.NewContentFromText(document, genai.RoleUser)},
		DisplayName:       "gemx cache demo",
	})
	if err != nil {
		return err
	}
	fmt.Printf("created cache %s (expires %s)\n", cache.Name, cache.ExpireTime)
	defer func() {
		if derr := client.DeleteCache(ctx, cache.Name); derr != nil {
			log.Printf("deleting cache: %v", derr)
		} else {
			fmt.Println("cache deleted")
		}
	}()

	session := client.NewSession(gemx.SessionConfig{
		Model:         *model,
		CachedContent: cache.Name,
	})
	reply, err := session.SendText(ctx, "What is the document about?")
	if err != nil {
		return err
	}
	fmt.Println("model:", reply.Text)
	if cached, ok := gemx.CachedTokens(reply.Usage); ok {
		fmt.Printf("tokens served from cache: %d\n", cached)
	}
	return nil
}

func demoCompat(ctx context.Context, cfg gemx.Config) error {
	client, err := gemx.NewOpenAICompatClient(cfg)
	if err != nil {
		return err
	}
	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(*model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("Answer in one sentence."),
			openai.UserMessage("Explain how a large language model predicts text."),
		},
	})
	if err != nil {
		return err
	}
	if len(completion.Choices) == 0 {
		return fmt.Errorf("no choices in completion")
	}
	fmt.Println("model:", completion.Choices[0].Message.Content)
	return nil
}
