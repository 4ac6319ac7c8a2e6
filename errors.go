package gemx

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// ApiErr is a generic API error carrying the HTTP status code, a coarse error
// type, and the message reported by the service. Errors that have a more
// specific representation ([RateLimitErr], [AuthenticationErr]) are returned
// as those types instead.
type ApiErr struct {
	// StatusCode is the HTTP status code reported by the API.
	StatusCode int
	// Type is a coarse classification of the error, e.g. "invalid_request_error",
	// "not_found_error", "api_error".
	Type string
	// Message is the human-readable error message from the service.
	Message string
}

func (a ApiErr) Error() string {
	return fmt.Sprintf("API error (status %d, type %s): %s", a.StatusCode, a.Type, a.Message)
}

// RateLimitErr is returned when the API reports that the request rate or
// quota has been exceeded. The string value contains the service's message,
// which typically includes quota details and a suggested retry delay.
type RateLimitErr string

func (r RateLimitErr) Error() string {
	return fmt.Sprintf("rate limit error: %s", string(r))
}

// AuthenticationErr is returned when there are issues with authentication or
// authorization: a missing, invalid or expired API key, or insufficient
// permissions.
type AuthenticationErr string

func (a AuthenticationErr) Error() string {
	return fmt.Sprintf("authentication error: %s", string(a))
}

// EmptyPromptErr is returned when a generation or token-count operation is
// invoked without any content parts.
var EmptyPromptErr = errors.New("empty prompt: at least one part required")

// MaxOutputLimitErr is returned alongside a partial [Reply] when generation
// stopped because the configured output token limit was reached rather than
// by natural completion.
var MaxOutputLimitErr = errors.New("maximum output token limit exceeded")

// FileProcessingErr is returned by [Client.WaitForFile] when a remote file
// reaches the failed state instead of becoming active.
type FileProcessingErr struct {
	// Name is the resource name of the file, e.g. "files/abc123".
	Name string
	// State is the terminal state reported by the service.
	State string
	// Detail is the failure message from the service, if any.
	Detail string
}

func (f FileProcessingErr) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("file %s processing failed (state %s): %s", f.Name, f.State, f.Detail)
	}
	return fmt.Sprintf("file %s processing failed (state %s)", f.Name, f.State)
}

// ToolRegistrationErr is returned when registering a tool fails: empty or
// duplicate tool name, or an input schema that cannot be expressed for the
// API. The Cause field contains the underlying error.
type ToolRegistrationErr struct {
	// Tool is the name of the tool that failed to register
	Tool string
	// Cause is the underlying error that caused the registration to fail
	Cause error
}

func (t ToolRegistrationErr) Error() string {
	return fmt.Sprintf("failed to register tool %q: %v", t.Tool, t.Cause)
}

// Unwrap returns the underlying cause of the tool registration failure
func (t ToolRegistrationErr) Unwrap() error {
	return t.Cause
}

// ToolCallValidationErr is returned when the model produces a tool call whose
// arguments do not validate against the registered tool's input schema.
type ToolCallValidationErr struct {
	// Tool is the name of the tool the model attempted to call
	Tool string
	// Cause is the schema validation error
	Cause error
}

func (t ToolCallValidationErr) Error() string {
	return fmt.Sprintf("tool call %q failed schema validation: %v", t.Tool, t.Cause)
}

// Unwrap returns the underlying schema validation error
func (t ToolCallValidationErr) Unwrap() error {
	return t.Cause
}

// mapAPIError converts SDK errors into this package's error taxonomy.
// Non-API errors (network failures, context cancellation) pass through
// unchanged.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) {
			return err
		}
		apiErr = *apiErrPtr
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return RateLimitErr(apiErr.Message)
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return AuthenticationErr(apiErr.Message)
	case apiErr.Code == http.StatusNotFound:
		return ApiErr{StatusCode: apiErr.Code, Type: "not_found_error", Message: apiErr.Message}
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return ApiErr{StatusCode: apiErr.Code, Type: "invalid_request_error", Message: apiErr.Message}
	default:
		return ApiErr{StatusCode: apiErr.Code, Type: "api_error", Message: apiErr.Message}
	}
}
