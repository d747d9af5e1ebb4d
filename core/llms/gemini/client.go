// Package gemini implements a language model client for the Gemini
// generateContent REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jinzhu/copier"
	"github.com/lingora/lingora-core/core/llms"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultModel   = "gemini-2.0-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithModel sets the Gemini model used for generation.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithBaseURL overrides the base URL. Primarily used in tests to point at a
// local mock server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// NewClient creates a generateContent client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type requestBody struct {
	Contents []content `json:"contents"`
}

type responseBody struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate performs one model call and returns the first candidate's first
// part. The request's content ordering is transmitted unchanged. No deadline
// is imposed beyond what ctx carries.
func (c *Client) Generate(ctx context.Context, request llms.Request) (string, error) {
	ctx, span := tracer.Start(ctx, "gemini generate content")
	defer span.End()
	span.SetAttributes(
		attribute.String("model", c.model),
		attribute.Int("contents", len(request.Contents)),
	)

	var contents []content
	if err := copier.Copy(&contents, request.Contents); err != nil {
		return "", fmt.Errorf("error copying request contents: %w", err)
	}

	requestBodyBytes, err := json.Marshal(requestBody{Contents: contents})
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	var body responseBody
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		logger.Warn("model response is not valid JSON", "status", resp.Status)
		return "", llms.ErrMalformedResponse
	}

	if body.Error != nil && body.Error.Message != "" {
		apiErr := &llms.APIError{StatusCode: resp.StatusCode, Message: body.Error.Message}
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Error())
		return "", apiErr
	}

	if len(body.Candidates) == 0 || len(body.Candidates[0].Content.Parts) == 0 {
		return "", llms.ErrMalformedResponse
	}

	return body.Candidates[0].Content.Parts[0].Text, nil
}
