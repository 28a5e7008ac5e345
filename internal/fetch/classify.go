package fetch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Classification is the categorical judgment assigned to one HTTP response.
type Classification string

const (
	ClassSuccess      Classification = "success"
	ClassAuthRequired Classification = "auth_required"
	ClassMalformed    Classification = "malformed"
	ClassServerError  Classification = "server_error"
	ClassTimeout      Classification = "timeout"
	ClassNetworkError Classification = "network_error"
)

// ClassifyInput is one fully drained HTTP response ready for classification.
// The body has already been read exactly once by the transport.
type ClassifyInput struct {
	StatusCode  int
	ContentType string
	FinalURL    string
	Redirected  bool
	Body        []byte
}

// Verdict is the outcome of classifying one response.
type Verdict struct {
	Class   Classification
	Payload json.RawMessage // set only for ClassSuccess
	Status  int             // HTTP status, set for ClassServerError
	Message string
}

// authPathMarkers identify a redirect target as an authentication page.
var authPathMarkers = []string{"/auth/sign-in", "/sign-in", "/login"}

// authBodyMarkers identify an HTML body as a served sign-in page.
var authBodyMarkers = []string{"sign in", "sign-in", "log in", "login"}

// envelope is the backend's response wrapper. Success is a pointer so an
// absent field is distinguishable from an explicit false.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Classify assigns exactly one classification to a drained response.
// It never panics; parse failures become classifications.
func Classify(in ClassifyInput) Verdict {
	if in.Redirected && containsAny(strings.ToLower(in.FinalURL), authPathMarkers) {
		return Verdict{Class: ClassAuthRequired, Message: "redirected to sign-in page"}
	}
	if isHTML(in.ContentType) && containsAny(strings.ToLower(string(in.Body)), authBodyMarkers) {
		return Verdict{Class: ClassAuthRequired, Message: "received sign-in page instead of data"}
	}

	if !isJSON(in.ContentType) {
		return Verdict{
			Class:   ClassMalformed,
			Message: fmt.Sprintf("expected JSON response, got content type %q", in.ContentType),
		}
	}

	if in.StatusCode < 200 || in.StatusCode > 299 {
		return Verdict{
			Class:   ClassServerError,
			Status:  in.StatusCode,
			Message: errorMessage(in.Body, in.StatusCode),
		}
	}

	if !json.Valid(in.Body) {
		return Verdict{Class: ClassMalformed, Message: "failed to parse response body as JSON"}
	}

	var env envelope
	if err := json.Unmarshal(in.Body, &env); err == nil && env.Success != nil && !*env.Success {
		return Verdict{
			Class:   ClassServerError,
			Status:  in.StatusCode,
			Message: messageOrDefault(env, "request reported failure"),
		}
	}

	return Verdict{Class: ClassSuccess, Payload: json.RawMessage(in.Body)}
}

// errorMessage extracts a human-readable reason from an error body,
// preferring the envelope's message over error, then a canned message
// keyed by status code.
func errorMessage(body []byte, status int) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if msg := messageOrDefault(env, ""); msg != "" {
			return msg
		}
	}
	return statusMessage(status)
}

func messageOrDefault(env envelope, def string) string {
	if env.Message != "" {
		return env.Message
	}
	if env.Error != "" {
		return env.Error
	}
	return def
}

func statusMessage(status int) string {
	switch status {
	case 400:
		return "invalid request"
	case 401:
		return "authentication required"
	case 403:
		return "access denied"
	case 404:
		return "not found"
	case 429:
		return "too many requests"
	case 500:
		return "internal server error"
	case 502, 503, 504:
		return "upstream service unavailable"
	default:
		return fmt.Sprintf("request failed with status %d", status)
	}
}

func isJSON(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}

func isHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
