package dialogue

import "github.com/lingora/lingora-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

// newCallbackEventEmitter routes typed events to the dedicated per-run
// callbacks. The raw onEvent callback, when set, sees every event first.
func newCallbackEventEmitter(opts OrchestrateOptions) eventEmitter {
	return func(event events.Event) {
		if opts.onEvent != nil {
			opts.onEvent(event)
		}

		switch typedEvent := event.(type) {
		case events.ConversationReset:
			if opts.onConversationReset != nil {
				opts.onConversationReset()
			}
		case events.PhaseChanged:
			if opts.onPhaseChanged != nil {
				opts.onPhaseChanged(typedEvent.From, typedEvent.To)
			}
		case events.FeatureArmed:
			if opts.onFeatureArmed != nil {
				opts.onFeatureArmed(FeatureMode(typedEvent.Feature))
			}
		case events.Advisory:
			if opts.onAdvisory != nil {
				opts.onAdvisory(typedEvent.Message)
			}
		case events.TranscriptFinal:
			if opts.onTranscription != nil {
				opts.onTranscription(typedEvent.Transcript)
			}
		case events.PlaybackStarted:
			if opts.onPlaybackStarted != nil {
				opts.onPlaybackStarted(typedEvent.Text)
			}
		case events.PlaybackEnded:
			if opts.onPlaybackEnded != nil {
				opts.onPlaybackEnded(typedEvent.Text, typedEvent.Completed)
			}
		}
	}
}
