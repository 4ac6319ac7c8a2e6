// Package gemx is a small toolkit over the Gemini API covering the
// operations its sample programs exercise: token counting, multi-turn chat
// with system instructions, tool (function) declarations, multimodal file
// upload with processing-state polling, and server-side context caching.
//
// # Getting started
//
// Construct a [Client] from the environment the official samples use:
//
//	cfg := gemx.ConfigFromEnv() // GEMINI_API_KEY, GOOGLE_GENAI_USE_VERTEXAI, ...
//	client, err := gemx.NewClient(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//
// Count tokens before sending a request:
//
//	count, err := client.CountText(ctx, "", "The quick brown fox jumps over the lazy dog.")
//	fmt.Println(count.Total)
//
// Hold a conversation with a system instruction:
//
//	session := client.NewSession(gemx.SessionConfig{
//	    SystemInstruction: "You are a terse assistant.",
//	})
//	reply, err := session.SendText(ctx, "What is the capital of France?")
//	fmt.Println(reply.Text)
//
// Upload a video and wait for the service to finish processing it:
//
//	file, err := client.UploadFile(ctx, "clip.mp4", "video/mp4")
//	if err != nil {
//	    return err
//	}
//	file, err = client.WaitForFile(ctx, file.Name)
//	if err != nil {
//	    return err // FileProcessingErr if the service rejected the video
//	}
//	reply, err := session.Send(ctx, gemx.FilePart(file), genai.NewPartFromText("Describe this clip."))
//
// # Errors
//
// API failures are mapped to a small taxonomy: [RateLimitErr] for quota
// exhaustion, [AuthenticationErr] for credential problems, and [ApiErr] with
// the HTTP status code for everything else. Transient failures can be retried
// with a [Retrier]:
//
//	retrier := gemx.NewRetrier(nil)
//	reply, err := gemx.Retry(ctx, retrier, func(ctx context.Context) (*gemx.Reply, error) {
//	    return session.SendText(ctx, prompt)
//	})
//
// # Demo driver
//
// The cmd/gemx-demos binary sequences one routine per capability against a
// live key, printing results to stdout.
package gemx
