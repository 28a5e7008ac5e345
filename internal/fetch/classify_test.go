package fetch

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		in      ClassifyInput
		class   Classification
		message string
	}{
		{
			name: "success envelope",
			in: ClassifyInput{
				StatusCode:  200,
				ContentType: "application/json",
				Body:        []byte(`{"success":true,"listings":[]}`),
			},
			class: ClassSuccess,
		},
		{
			name: "success without envelope flag",
			in: ClassifyInput{
				StatusCode:  200,
				ContentType: "application/json; charset=utf-8",
				Body:        []byte(`{"listings":[]}`),
			},
			class: ClassSuccess,
		},
		{
			name: "redirect to sign-in page",
			in: ClassifyInput{
				StatusCode:  200,
				ContentType: "text/html",
				FinalURL:    "https://example.com/auth/sign-in?redirect_url=%2Flistings",
				Redirected:  true,
				Body:        []byte("<html></html>"),
			},
			class: ClassAuthRequired,
		},
		{
			name: "html body with sign-in marker",
			in: ClassifyInput{
				StatusCode:  200,
				ContentType: "text/html",
				Body:        []byte(`<html><body><h1>Please sign in to continue</h1></body></html>`),
			},
			class: ClassAuthRequired,
		},
		{
			name: "html body without auth markers",
			in: ClassifyInput{
				StatusCode:  200,
				ContentType: "text/html",
				Body:        []byte(`<html><body>maintenance</body></html>`),
			},
			class: ClassMalformed,
		},
		{
			name: "plain text response",
			in: ClassifyInput{
				StatusCode:  200,
				ContentType: "text/plain",
				Body:        []byte("ok"),
			},
			class: ClassMalformed,
		},
		{
			name: "server error with message",
			in: ClassifyInput{
				StatusCode:  500,
				ContentType: "application/json",
				Body:        []byte(`{"success":false,"message":"database connection failed"}`),
			},
			class:   ClassServerError,
			message: "database connection failed",
		},
		{
			name: "server error falls back to error field",
			in: ClassifyInput{
				StatusCode:  404,
				ContentType: "application/json",
				Body:        []byte(`{"success":false,"error":"listing not found"}`),
			},
			class:   ClassServerError,
			message: "listing not found",
		},
		{
			name: "server error prefers message over error",
			in: ClassifyInput{
				StatusCode:  400,
				ContentType: "application/json",
				Body:        []byte(`{"error":"e","message":"m"}`),
			},
			class:   ClassServerError,
			message: "m",
		},
		{
			name: "server error with unparseable body",
			in: ClassifyInput{
				StatusCode:  502,
				ContentType: "application/json",
				Body:        []byte("<garbage>"),
			},
			class:   ClassServerError,
			message: "upstream service unavailable",
		},
		{
			name: "unknown status gets generic message",
			in: ClassifyInput{
				StatusCode:  418,
				ContentType: "application/json",
				Body:        []byte(`{}`),
			},
			class:   ClassServerError,
			message: "request failed with status 418",
		},
		{
			name: "malformed json on 200",
			in: ClassifyInput{
				StatusCode:  200,
				ContentType: "application/json",
				Body:        []byte(`{"success":true,`),
			},
			class: ClassMalformed,
		},
		{
			name: "declared failure on 200",
			in: ClassifyInput{
				StatusCode:  200,
				ContentType: "application/json",
				Body:        []byte(`{"success":false,"message":"query rejected"}`),
			},
			class:   ClassServerError,
			message: "query rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.in)
			if v.Class != tt.class {
				t.Errorf("Classify() class = %s, want %s (message %q)", v.Class, tt.class, v.Message)
			}
			if tt.message != "" && v.Message != tt.message {
				t.Errorf("Classify() message = %q, want %q", v.Message, tt.message)
			}
		})
	}
}

func TestClassifySuccessKeepsPayload(t *testing.T) {
	body := `{"success":true,"listings":[{"_id":"1"}]}`
	v := Classify(ClassifyInput{
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(body),
	})
	if v.Class != ClassSuccess {
		t.Fatalf("class = %s, want success", v.Class)
	}
	if string(v.Payload) != body {
		t.Errorf("payload = %s, want original body", v.Payload)
	}
}

func TestClassifyServerErrorCarriesStatus(t *testing.T) {
	v := Classify(ClassifyInput{
		StatusCode:  503,
		ContentType: "application/json",
		Body:        []byte(`{}`),
	})
	if v.Status != 503 {
		t.Errorf("status = %d, want 503", v.Status)
	}
	if !strings.Contains(v.Message, "unavailable") {
		t.Errorf("message = %q, want canned unavailable message", v.Message)
	}
}
