package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lingora/lingora-core/core/llms"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestGenerateReturnsFirstCandidateText(t *testing.T) {
	var gotPath string
	var gotBody struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "Hello back!"}]}}
			]
		}`))
	})

	client := NewClient("test-key", WithBaseURL(server.URL), WithModel("test-model"))

	request := llms.Request{Contents: []llms.Content{
		llms.NewTextContent(llms.RoleUser, "persona"),
		llms.NewTextContent(llms.RoleModel, "greeting"),
		llms.NewTextContent(llms.RoleUser, "hello"),
	}}

	reply, err := client.Generate(context.Background(), request)
	if err != nil {
		t.Fatalf("expected generation to succeed, got %v", err)
	}
	if reply != "Hello back!" {
		t.Fatalf("expected the candidate text, got %q", reply)
	}

	if gotPath != "/models/test-model:generateContent" {
		t.Fatalf("expected the generateContent path, got %q", gotPath)
	}
	if len(gotBody.Contents) != 3 {
		t.Fatalf("expected three contents on the wire, got %d", len(gotBody.Contents))
	}
	if gotBody.Contents[1].Role != "model" {
		t.Fatalf("expected the second content role to be model, got %q", gotBody.Contents[1].Role)
	}
	if gotBody.Contents[2].Parts[0].Text != "hello" {
		t.Fatalf("expected the prompt last on the wire, got %q", gotBody.Contents[2].Parts[0].Text)
	}
}

func TestGenerateSurfacesStructuredAPIError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{
			"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}
		}`))
	})

	client := NewClient("bad-key", WithBaseURL(server.URL))

	_, err := client.Generate(context.Background(), llms.Request{
		Contents: []llms.Content{llms.NewTextContent(llms.RoleUser, "hello")},
	})

	var apiErr *llms.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "API key not valid" {
		t.Fatalf("expected the API message, got %q", apiErr.Message)
	}
}

func TestGenerateRejectsMalformedResponses(t *testing.T) {
	responses := map[string]string{
		"not json":                `<html>gateway timeout</html>`,
		"no candidates":           `{"candidates": []}`,
		"candidate without parts": `{"candidates": [{"content": {"parts": []}}]}`,
	}

	for name, response := range responses {
		t.Run(name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(response))
			})

			client := NewClient("test-key", WithBaseURL(server.URL))

			_, err := client.Generate(context.Background(), llms.Request{
				Contents: []llms.Content{llms.NewTextContent(llms.RoleUser, "hello")},
			})
			if !errors.Is(err, llms.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestGenerateHonorsContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client closing the
		// connection and cancels the request context.
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	})

	client := NewClient("test-key", WithBaseURL(server.URL))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.Generate(ctx, llms.Request{
		Contents: []llms.Content{llms.NewTextContent(llms.RoleUser, "hello")},
	})
	if err == nil {
		t.Fatalf("expected an error after cancellation")
	}
}
