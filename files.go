package gemx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v5"
	"google.golang.org/genai"
)

const (
	// Default parameters for polling a file's processing state.
	defaultFilePollInitialInterval = 1 * time.Second
	defaultFilePollMaxInterval     = 10 * time.Second
	defaultFilePollMaxElapsedTime  = 5 * time.Minute
)

// errFileProcessing marks a poll attempt that found the file still
// processing. It never escapes WaitForFile.
var errFileProcessing = errors.New("file still processing")

// UploadFile uploads a local file to the file service and returns its remote
// handle. The returned file may still be processing; pass its name to
// [Client.WaitForFile] before referencing it in a request.
//
// mimeType may be empty, in which case the service infers it from the file
// extension.
func (c *Client) UploadFile(ctx context.Context, path, mimeType string) (*genai.File, error) {
	var cfg *genai.UploadFileConfig
	if mimeType != "" {
		cfg = &genai.UploadFileConfig{MIMEType: mimeType}
	}
	f, err := c.genai.Files.UploadFromPath(ctx, path, cfg)
	if err != nil {
		return nil, mapAPIError(err)
	}
	return f, nil
}

// UploadReader uploads content from r. Unlike [Client.UploadFile], the MIME
// type is required because there is no file name to infer it from.
func (c *Client) UploadReader(ctx context.Context, r io.Reader, mimeType string) (*genai.File, error) {
	if mimeType == "" {
		return nil, fmt.Errorf("upload from reader requires a MIME type")
	}
	f, err := c.genai.Files.Upload(ctx, r, &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return nil, mapAPIError(err)
	}
	return f, nil
}

// WaitOption configures [Client.WaitForFile].
type WaitOption func(*waitConfig)

type waitConfig struct {
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
}

// WithPollInterval sets the initial and maximum poll intervals.
func WithPollInterval(initial, max time.Duration) WaitOption {
	return func(w *waitConfig) {
		w.initialInterval = initial
		w.maxInterval = max
	}
}

// WithWaitTimeout bounds the total time spent waiting for the file.
func WithWaitTimeout(d time.Duration) WaitOption {
	return func(w *waitConfig) {
		w.maxElapsedTime = d
	}
}

// WaitForFile polls the file identified by name (e.g. "files/abc123") until
// it leaves the processing state. Polling backs off exponentially and stops
// when ctx is cancelled or the configured overall timeout elapses.
//
// Returns the file handle once it is active, or [FileProcessingErr] if the
// service reports processing failed.
func (c *Client) WaitForFile(ctx context.Context, name string, opts ...WaitOption) (*genai.File, error) {
	w := waitConfig{
		initialInterval: defaultFilePollInitialInterval,
		maxInterval:     defaultFilePollMaxInterval,
		maxElapsedTime:  defaultFilePollMaxElapsedTime,
	}
	for _, opt := range opts {
		opt(&w)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = w.initialInterval
	bo.MaxInterval = w.maxInterval

	operation := func() (*genai.File, error) {
		if err := ctx.Err(); err != nil {
			return nil, backoff.Permanent(err)
		}
		f, err := c.genai.Files.Get(ctx, name, nil)
		if err != nil {
			return nil, backoff.Permanent(mapAPIError(err))
		}
		switch f.State {
		case genai.FileStateActive:
			return f, nil
		case genai.FileStateFailed:
			perr := FileProcessingErr{Name: name, State: string(f.State)}
			if f.Error != nil {
				perr.Detail = f.Error.Message
			}
			return nil, backoff.Permanent(perr)
		default:
			return nil, errFileProcessing
		}
	}

	f, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxElapsedTime(w.maxElapsedTime),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return nil, permanent.Err
		}
		if errors.Is(err, errFileProcessing) {
			return nil, fmt.Errorf("file %s still processing after %s", name, w.maxElapsedTime)
		}
		return nil, err
	}
	return f, nil
}

// FilePart returns a content part referencing an uploaded file, suitable for
// [Session.Send] or [Client.CountTokens].
func FilePart(f *genai.File) *genai.Part {
	return genai.NewPartFromURI(f.URI, f.MIMEType)
}

// GetFile fetches the current metadata for a remote file.
func (c *Client) GetFile(ctx context.Context, name string) (*genai.File, error) {
	f, err := c.genai.Files.Get(ctx, name, nil)
	if err != nil {
		return nil, mapAPIError(err)
	}
	return f, nil
}

// DeleteFile removes a remote file.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	if _, err := c.genai.Files.Delete(ctx, name, nil); err != nil {
		return mapAPIError(err)
	}
	return nil
}

// ListFiles returns all files currently stored for this project.
func (c *Client) ListFiles(ctx context.Context) ([]*genai.File, error) {
	var files []*genai.File
	for f, err := range c.genai.Files.All(ctx) {
		if err != nil {
			return nil, mapAPIError(err)
		}
		files = append(files, f)
	}
	return files, nil
}
