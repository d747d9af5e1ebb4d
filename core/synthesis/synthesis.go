// Package synthesis defines the speech-synthesis collaborator contract used
// by the dialogue core, together with the voice selection policy.
//
// A synthesizer accepts one utterance at a time and reports start, end and
// error through callbacks. The voice list may be empty until the engine has
// loaded its catalogue, so callers are expected to re-resolve the voice on
// every utterance instead of caching a choice at startup.
package synthesis

import "context"

// Synthesizer plays a single utterance at a time.
type Synthesizer interface {
	// Speak submits one utterance. It returns once the utterance has been
	// accepted; progress is reported through the callbacks configured via
	// options. Exactly one of the ended or error callbacks fires per
	// accepted utterance.
	Speak(ctx context.Context, text string, opts ...SpeakOption) error

	// Stop cancels the in-flight utterance, if any. Engine-level
	// cancellation is fire and forget; pending callbacks may be dropped.
	Stop()

	// Voices returns the currently known voice catalogue. May be empty
	// before the engine has finished loading it.
	Voices(ctx context.Context) []Voice
}

// Voice describes one entry of a synthesis engine's voice catalogue.
type Voice struct {
	Name    string
	Locale  string
	Premium bool
	Default bool
}

// ChooseVoice picks a voice for the target locale: an exact locale match is
// required, premium variants win among matches, and the engine default is
// returned as a fallback. The second return reports whether a locale match
// was found; callers surface a non-fatal warning when it is false.
func ChooseVoice(voices []Voice, locale string) (*Voice, bool) {
	var match *Voice
	var fallback *Voice

	for i := range voices {
		voice := &voices[i]
		if voice.Default && fallback == nil {
			fallback = voice
		}
		if voice.Locale != locale {
			continue
		}
		if voice.Premium {
			return voice, true
		}
		if match == nil {
			match = voice
		}
	}

	if match != nil {
		return match, true
	}
	if fallback == nil && len(voices) > 0 {
		fallback = &voices[0]
	}
	return fallback, false
}
