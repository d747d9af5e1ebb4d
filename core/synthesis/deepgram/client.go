// Package deepgram implements the synthesis collaborator contract on top of
// Deepgram's one-shot speak endpoint. Each utterance is synthesized with a
// single REST call and played through a local playback device; the ended
// callback fires once the playback buffer has drained past the utterance.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"

	"github.com/lingora/lingora-core/core/audio"
	"github.com/lingora/lingora-core/core/synthesis"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
)

const speakURL = "https://api.deepgram.com/v1/speak"

// Player is the playback sink utterance audio is pushed into. Satisfied by
// [github.com/lingora/lingora-core/core/audio/miniaudio.Player].
type Player interface {
	Start() error
	SendAudio(pcm []byte) error
	MarkDrained(name string, callback func(string))
	Clear()
}

type Client struct {
	apiKey     string
	baseURL    string
	encoding   audio.EncodingInfo
	player     Player
	httpClient *http.Client

	mu         sync.Mutex
	generation int
	cancel     context.CancelFunc
}

type Option func(*Client)

// WithBaseURL overrides the speak endpoint. Primarily used in tests to point
// at a local mock server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithEncodingInfo(encoding audio.EncodingInfo) Option {
	return func(c *Client) {
		if !encoding.IsZero() {
			c.encoding = encoding
		}
	}
}

// NewClient creates a speak client that plays synthesized audio through
// player. The API key is read from the DEEPGRAM_API_KEY environment variable.
func NewClient(player Player, opts ...Option) (*Client, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    speakURL,
		encoding:   audio.GetDefaultEncodingInfo(),
		player:     player,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Speak synthesizes text and queues it for playback. An in-flight utterance
// is implicitly superseded: its audio is cleared and its callbacks dropped.
func (c *Client) Speak(ctx context.Context, text string, opts ...synthesis.SpeakOption) error {
	options := &synthesis.SpeakOptions{}
	for _, opt := range opts {
		opt(options)
	}

	ctx, span := tracer.Start(ctx, "deepgram speak")
	defer span.End()

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.player.Clear()
	}
	c.generation++
	generation := c.generation
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	pcm, err := c.synthesize(ctx, text, options)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		// Superseded while the request was in flight.
		return nil
	}

	if err := c.player.Start(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}
	if options.StartedCallback != nil {
		options.StartedCallback()
	}
	if err := c.player.SendAudio(pcm); err != nil {
		return fmt.Errorf("failed to queue utterance audio: %w", err)
	}

	c.player.MarkDrained("utterance", func(string) {
		c.mu.Lock()
		current := generation == c.generation
		c.mu.Unlock()
		if current && options.EndedCallback != nil {
			options.EndedCallback()
		}
	})

	return nil
}

// Stop cancels the in-flight utterance and clears queued audio. Callbacks
// registered for the cancelled utterance are dropped.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.player.Clear()
}

// Voices returns the static Aura voice catalogue. Deepgram's speak models are
// fixed, so no network call is needed.
func (c *Client) Voices(context.Context) []synthesis.Voice {
	return auraVoices()
}

func (c *Client) synthesize(ctx context.Context, text string, options *synthesis.SpeakOptions) ([]byte, error) {
	speakURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid speak url: %w", err)
	}
	queryParams := speakURL.Query()
	queryParams.Set("model", c.modelFor(options.Voice))
	queryParams.Set("encoding", c.encoding.Format.Name())
	queryParams.Set("sample_rate", strconv.Itoa(c.encoding.SampleRate))
	speakURL.RawQuery = queryParams.Encode()

	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, fmt.Errorf("error marshalling speak request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, speakURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating speak request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending speak request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("speak request failed with status %s: %s", resp.Status, payload)
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading utterance audio: %w", err)
	}

	return pcm, nil
}

func (c *Client) modelFor(voice *synthesis.Voice) string {
	if voice == nil || voice.Name == "" {
		logger.Debug("no voice requested, using default speak model")
		return defaultModel
	}
	return voice.Name
}
