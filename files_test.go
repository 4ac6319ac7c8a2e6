package gemx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

// fileStateSequence serves Files.Get responses, advancing through states on
// each call.
func fileStateSequence(t *testing.T, states ...string) (http.Handler, *int) {
	t.Helper()
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := states[len(states)-1]
		if calls < len(states) {
			state = states[calls]
		}
		calls++
		w.Header().Set("Content-Type", "application/json")
		body := fmt.Sprintf(`{
			"name": "files/demo",
			"uri": "https://generativelanguage.googleapis.com/v1beta/files/demo",
			"mimeType": "video/mp4",
			"state": %q
		}`, state)
		if state == "FAILED" {
			body = `{
				"name": "files/demo",
				"mimeType": "video/mp4",
				"state": "FAILED",
				"error": {"code": 400, "message": "Unsupported video codec"}
			}`
		}
		_, _ = w.Write([]byte(body))
	})
	return handler, &calls
}

func TestWaitForFileBecomesActive(t *testing.T) {
	handler, calls := fileStateSequence(t, "PROCESSING", "PROCESSING", "ACTIVE")
	client := newTestClient(t, handler)

	file, err := client.WaitForFile(context.Background(), "files/demo",
		WithPollInterval(time.Millisecond, 5*time.Millisecond),
		WithWaitTimeout(2*time.Second),
	)
	if err != nil {
		t.Fatalf("WaitForFile() error = %v", err)
	}
	if file.Name != "files/demo" {
		t.Errorf("file name = %q", file.Name)
	}
	if *calls != 3 {
		t.Errorf("Expected 3 polls, got %d", *calls)
	}
}

func TestWaitForFileFailure(t *testing.T) {
	handler, _ := fileStateSequence(t, "PROCESSING", "FAILED")
	client := newTestClient(t, handler)

	_, err := client.WaitForFile(context.Background(), "files/demo",
		WithPollInterval(time.Millisecond, 5*time.Millisecond),
		WithWaitTimeout(2*time.Second),
	)
	var perr FileProcessingErr
	if !errors.As(err, &perr) {
		t.Fatalf("Expected FileProcessingErr, got %T: %v", err, err)
	}
	if perr.Name != "files/demo" || perr.State != "FAILED" {
		t.Errorf("FileProcessingErr = %+v", perr)
	}
	if perr.Detail != "Unsupported video codec" {
		t.Errorf("Expected the service's failure message, got %q", perr.Detail)
	}
}

func TestWaitForFileTimeout(t *testing.T) {
	handler, _ := fileStateSequence(t, "PROCESSING")
	client := newTestClient(t, handler)

	_, err := client.WaitForFile(context.Background(), "files/demo",
		WithPollInterval(time.Millisecond, 2*time.Millisecond),
		WithWaitTimeout(25*time.Millisecond),
	)
	if err == nil {
		t.Fatal("Expected an error after the wait timeout")
	}
	var perr FileProcessingErr
	if errors.As(err, &perr) {
		t.Fatalf("Timeout must not report processing failure, got %v", err)
	}
}

func TestWaitForFileContextCancel(t *testing.T) {
	handler, _ := fileStateSequence(t, "PROCESSING")
	client := newTestClient(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.WaitForFile(ctx, "files/demo",
		WithPollInterval(time.Millisecond, 2*time.Millisecond),
	)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestWaitForFileNotFound(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusNotFound, `{
		"error": {"code": 404, "message": "File files/missing not found", "status": "NOT_FOUND"}
	}`))

	_, err := client.WaitForFile(context.Background(), "files/missing",
		WithPollInterval(time.Millisecond, 2*time.Millisecond),
		WithWaitTimeout(time.Second),
	)
	var apiErr ApiErr
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected ApiErr, got %T: %v", err, err)
	}
	if apiErr.Type != "not_found_error" {
		t.Errorf("Expected not_found_error without retries, got %q", apiErr.Type)
	}
}

func TestDeleteFile(t *testing.T) {
	var method, path string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})
	client := newTestClient(t, handler)

	if err := client.DeleteFile(context.Background(), "files/demo"); err != nil {
		t.Fatalf("DeleteFile() error = %v", err)
	}
	if method != http.MethodDelete {
		t.Errorf("Expected DELETE, got %s", method)
	}
	if path == "" || path == "/" {
		t.Errorf("Expected a file path in the request, got %q", path)
	}
}

func TestUploadReaderRequiresMIMEType(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `{}`))
	if _, err := client.UploadReader(context.Background(), nil, ""); err == nil {
		t.Fatal("Expected an error for a missing MIME type")
	}
}
