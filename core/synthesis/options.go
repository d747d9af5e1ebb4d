package synthesis

type SpeakOptions struct {
	// StartedCallback is called when the utterance actually starts playing.
	StartedCallback func()
	// EndedCallback is called when the utterance has fully played out.
	EndedCallback func()
	// ErrorCallback is called when the engine fails mid-utterance. It is
	// mutually exclusive with EndedCallback for a given utterance.
	ErrorCallback func(error)

	Voice *Voice
	Rate  float64
	Pitch float64
}

type SpeakOption func(*SpeakOptions)

func WithStartedCallback(callback func()) SpeakOption {
	return func(o *SpeakOptions) { o.StartedCallback = callback }
}

func WithEndedCallback(callback func()) SpeakOption {
	return func(o *SpeakOptions) { o.EndedCallback = callback }
}

func WithErrorCallback(callback func(error)) SpeakOption {
	return func(o *SpeakOptions) { o.ErrorCallback = callback }
}

// WithVoice requests a specific voice. A nil voice leaves the engine default
// in place.
func WithVoice(voice *Voice) SpeakOption {
	return func(o *SpeakOptions) { o.Voice = voice }
}

func WithRate(rate float64) SpeakOption {
	return func(o *SpeakOptions) {
		if rate > 0 {
			o.Rate = rate
		}
	}
}

func WithPitch(pitch float64) SpeakOption {
	return func(o *SpeakOptions) {
		if pitch > 0 {
			o.Pitch = pitch
		}
	}
}
