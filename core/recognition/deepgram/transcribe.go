// Package deepgram implements the recognition collaborator contract on top
// of Deepgram's listen websocket. Each Start opens one connection in
// single-utterance mode and resolves it with exactly one terminal outcome.
package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/lingora/lingora-core/core/audio"
	"github.com/lingora/lingora-core/core/recognition"
)

const listenURL = "wss://api.deepgram.com/v1/listen"

const keepAliveInterval = 5 * time.Second

// Source is the microphone feed a session draws audio from. Satisfied by
// [github.com/lingora/lingora-core/core/audio/miniaudio.Recorder].
type Source interface {
	Start(onFrame func(pcm []byte)) error
	Stop() error
}

type Recognizer struct {
	source   Source
	encoding audio.EncodingInfo
	baseURL  string
}

type Option func(*Recognizer)

// WithBaseURL overrides the listen endpoint. Primarily used in tests to
// point at a local mock server.
func WithBaseURL(url string) Option {
	return func(r *Recognizer) { r.baseURL = url }
}

func WithEncodingInfo(encoding audio.EncodingInfo) Option {
	return func(r *Recognizer) {
		if !encoding.IsZero() {
			r.encoding = encoding
		}
	}
}

// NewRecognizer creates a recognizer that streams audio from source.
func NewRecognizer(source Source, opts ...Option) *Recognizer {
	r := &Recognizer{
		source:   source,
		encoding: audio.EncodingInfo{SampleRate: 16000, Format: audio.EncodingLinear16},
		baseURL:  listenURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start opens a single-utterance recognition session. Exactly one terminal
// callback fires per successful Start: transcript, error, or empty.
func (r *Recognizer) Start(ctx context.Context, opts ...recognition.Option) (recognition.Session, error) {
	options := &recognition.Options{Locale: "en-US"}
	for _, opt := range opts {
		opt(options)
	}

	ctx, span := tracer.Start(ctx, "deepgram transcription session")

	encoding, err := convertEncoding(r.encoding)
	if err != nil {
		span.End()
		return nil, fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := connectWebsocket(connectionOptions{
		baseURL:    r.baseURL,
		sampleRate: encoding.SampleRate,
		encoding:   encoding.Format.Name(),
		language:   options.Locale,
	})
	if err != nil {
		span.End()
		return nil, fmt.Errorf("failed to open websocket: %w", err)
	}

	s := &session{
		conn:    conn,
		source:  r.source,
		options: *options,
		done:    make(chan struct{}),
	}

	if err := r.source.Start(s.sendAudio); err != nil {
		conn.Close()
		span.End()
		return nil, fmt.Errorf("failed to start audio source: %w", err)
	}

	go func() {
		defer span.End()
		s.readAndProcessMessages(ctx)
	}()
	go s.keepAlive(ctx)

	return s, nil
}

type connectionOptions struct {
	baseURL    string
	sampleRate int
	encoding   string
	language   string
}

func connectWebsocket(options connectionOptions) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenUrl, err := url.Parse(options.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listen url: %w", err)
	}
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", options.language)
	queryParams.Set("smart_format", "true")
	// Single-utterance mode: end the session on the first detected
	// utterance boundary. UtteranceEnd events require interim_results;
	// the interim messages themselves are discarded until a final.
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, err
}

type session struct {
	conn    *websocket.Conn
	source  Source
	options recognition.Options

	accumulatedTranscript string

	connMu   sync.Mutex
	resolved sync.Once
	stopOnce sync.Once
	done     chan struct{}
}

// Stop requests early termination of the session. The terminal outcome is
// still delivered once the engine flushes its buffered audio.
func (s *session) Stop() {
	s.stopOnce.Do(func() {
		if err := s.source.Stop(); err != nil {
			logger.Warn("failed to stop audio source", "error", err)
		}

		s.connMu.Lock()
		defer s.connMu.Unlock()
		if s.conn == nil {
			return
		}
		if err := s.conn.WriteJSON(struct {
			Type string `json:"type"`
		}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
			logger.Warn("failed to close deepgram stream", "error", err)
		}
	})
}

func (s *session) sendAudio(pcm []byte) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, pcm); err != nil {
		logger.Warn("failed to write audio to deepgram", "error", err)
	}
}

func (s *session) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				if err := s.conn.WriteJSON(struct {
					Type string `json:"type"`
				}{Type: "KeepAlive"}); err != nil {
					logger.Warn("failed to send keepalive to deepgram", "error", err)
				}
			}
			s.connMu.Unlock()
		}
	}
}

func (s *session) readAndProcessMessages(ctx context.Context) {
	conn := s.conn
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			s.teardown()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || ctx.Err() != nil {
				// Normal close: resolve with whatever was accumulated.
				s.resolveTranscript()
			} else {
				s.resolve(func() {
					if s.options.ErrorCallback != nil {
						s.options.ErrorCallback(fmt.Errorf("recognition connection failed: %w", err))
					}
				})
			}
			return
		}
		if msgType == websocket.BinaryMessage {
			continue
		}
		if terminal := s.processMessage(msg); terminal {
			s.Stop()
			s.teardown()
			s.resolveTranscript()
			return
		}
	}
}

// processMessage folds one engine message into the session and reports
// whether it ended the utterance.
func (s *session) processMessage(msg []byte) bool {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.Warn("failed to unmarshal deepgram message", "error", err)
		return false
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			logger.Warn("failed to unmarshal deepgram message", "error", err)
			return false
		}
		if !msgResp.IsFinal {
			return false
		}
		if len(msgResp.Channel.Alternatives) > 0 {
			transcript := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
			if len(transcript) > 0 {
				s.accumulatedTranscript += " " + transcript
			}
		}
		return msgResp.SpeechFinal

	case api.TypeUtteranceEndResponse:
		return true
	}

	return false
}

func (s *session) resolveTranscript() {
	s.resolve(func() {
		transcript := strings.TrimSpace(s.accumulatedTranscript)
		if transcript == "" {
			if s.options.EmptyCallback != nil {
				s.options.EmptyCallback()
			}
			return
		}
		if s.options.TranscriptCallback != nil {
			s.options.TranscriptCallback(transcript)
		}
	})
}

func (s *session) resolve(deliver func()) {
	s.resolved.Do(func() {
		close(s.done)
		deliver()
	})
}

func (s *session) teardown() {
	if err := s.source.Stop(); err != nil {
		logger.Warn("failed to stop audio source", "error", err)
	}

	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
