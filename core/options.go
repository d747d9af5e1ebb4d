package dialogue

import (
	"context"

	"github.com/lingora/lingora-core/core/events"
	"github.com/lingora/lingora-core/core/llms"
	"github.com/lingora/lingora-core/core/recognition"
	"github.com/lingora/lingora-core/core/synthesis"
	"github.com/lingora/lingora-core/internal/config"
)

// LanguageModel is the remote model collaborator. One call per prompt; the
// request carries the fully ordered message list.
type LanguageModel interface {
	Generate(ctx context.Context, request llms.Request) (string, error)
}

type OrchestratorOption func(*Orchestrator)

func WithLanguageModel(client LanguageModel) OrchestratorOption {
	return func(o *Orchestrator) { o.model = client }
}

func WithSynthesizer(client synthesis.Synthesizer) OrchestratorOption {
	return func(o *Orchestrator) { o.synthesizer = client }
}

func WithRecognizer(client recognition.Recognizer) OrchestratorOption {
	return func(o *Orchestrator) { o.recognizer = client }
}

// WithPersona overrides the fixed instruction sent first in every request.
func WithPersona(persona string) OrchestratorOption {
	return func(o *Orchestrator) {
		if persona != "" {
			o.persona = persona
		}
	}
}

// WithGreeting overrides the turn the conversation log is seeded with.
func WithGreeting(greeting string) OrchestratorOption {
	return func(o *Orchestrator) {
		if greeting != "" {
			o.greeting = greeting
		}
	}
}

// WithLocale sets the target accent for recognition and voice selection.
func WithLocale(locale string) OrchestratorOption {
	return func(o *Orchestrator) {
		if locale != "" {
			o.locale = locale
		}
	}
}

// WithPreferredVoice pins a synthesis voice by name, bypassing the
// locale-based selection policy.
func WithPreferredVoice(name string) OrchestratorOption {
	return func(o *Orchestrator) { o.preferredVoice = name }
}

func WithSpeechRate(rate float64) OrchestratorOption {
	return func(o *Orchestrator) {
		if rate > 0 {
			o.rate = rate
		}
	}
}

func WithSpeechPitch(pitch float64) OrchestratorOption {
	return func(o *Orchestrator) {
		if pitch > 0 {
			o.pitch = pitch
		}
	}
}

// WithChunkLimit bounds the length of a single spoken utterance in runes.
func WithChunkLimit(limit int) OrchestratorOption {
	return func(o *Orchestrator) {
		if limit > 0 {
			o.chunkLimit = limit
		}
	}
}

func withConfig(cfg *config.Config) OrchestratorOption {
	return func(o *Orchestrator) {
		WithPersona(cfg.Persona)(o)
		WithGreeting(cfg.Greeting)(o)
		WithLocale(cfg.Speech.Locale)(o)
		WithPreferredVoice(cfg.Speech.Voice)(o)
		WithSpeechRate(cfg.Speech.Rate)(o)
		WithSpeechPitch(cfg.Speech.Pitch)(o)
		WithChunkLimit(cfg.Speech.ChunkLimit)(o)
	}
}

// OrchestrateOptions carries the per-run callbacks a host wires in.
type OrchestrateOptions struct {
	onEvent             func(event events.Event)
	onTurnAppended      func(turn Turn)
	onConversationReset func()
	onPhaseChanged      func(from, to string)
	onFeatureArmed      func(mode FeatureMode)
	onAdvisory          func(message string)
	onTranscription     func(transcript string)
	onPlaybackStarted   func(text string)
	onPlaybackEnded     func(text string, completed bool)
}

type OrchestrateOption func(*OrchestrateOptions)

// OnEvent receives every raw event the orchestrator emits, in addition to
// any dedicated callbacks.
func OnEvent(callback func(event events.Event)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onEvent = callback }
}

func OnTurnAppended(callback func(turn Turn)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onTurnAppended = callback }
}

func OnConversationReset(callback func()) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onConversationReset = callback }
}

func OnPhaseChanged(callback func(from, to string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onPhaseChanged = callback }
}

func OnFeatureArmed(callback func(mode FeatureMode)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onFeatureArmed = callback }
}

// OnAdvisory receives the user-visible string for every recoverable
// condition.
func OnAdvisory(callback func(message string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onAdvisory = callback }
}

func OnTranscription(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onTranscription = callback }
}

func OnPlaybackStarted(callback func(text string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onPlaybackStarted = callback }
}

func OnPlaybackEnded(callback func(text string, completed bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onPlaybackEnded = callback }
}
