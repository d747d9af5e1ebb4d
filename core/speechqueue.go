package dialogue

import (
	"context"
	"sync"

	"github.com/lingora/lingora-core/core/chunk"
	"github.com/lingora/lingora-core/core/synthesis"
)

// speechQueue owns the currently-speaking sub-state. It splits a response
// into bounded chunks and plays them strictly in order through the
// synthesizer, advancing an explicit cursor on each terminal signal instead
// of recursing through event handlers.
type speechQueue struct {
	synthesizer synthesis.Synthesizer

	locale     string
	voiceName  string
	rate       float64
	pitch      float64
	chunkLimit int

	mu         sync.Mutex
	text       string
	chunks     []string
	cursor     int
	generation int
	speaking   bool

	warnedNoVoice bool

	onStarted      func(text string)
	onChunkStarted func(index int, chunk string)
	onEnded        func(text string, completed bool)
	onError        func(err error)
}

func newSpeechQueue(synthesizer synthesis.Synthesizer, locale, voiceName string, rate, pitch float64, chunkLimit int) *speechQueue {
	return &speechQueue{
		synthesizer: synthesizer,
		locale:      locale,
		voiceName:   voiceName,
		rate:        rate,
		pitch:       pitch,
		chunkLimit:  chunkLimit,

		onStarted:      func(string) {},
		onChunkStarted: func(int, string) {},
		onEnded:        func(string, bool) {},
		onError:        func(error) {},
	}
}

func (q *speechQueue) setCallbacks(
	onStarted func(string),
	onChunkStarted func(int, string),
	onEnded func(string, bool),
	onError func(error),
) {
	if onStarted != nil {
		q.onStarted = onStarted
	}
	if onChunkStarted != nil {
		q.onChunkStarted = onChunkStarted
	}
	if onEnded != nil {
		q.onEnded = onEnded
	}
	if onError != nil {
		q.onError = onError
	}
}

// Speak cancels any in-progress playback and plays text chunk by chunk.
func (q *speechQueue) Speak(ctx context.Context, text string) {
	q.Stop()

	if q.synthesizer == nil {
		logger.Debug("no synthesizer configured, skipping speech output")
		return
	}

	chunks := chunk.Split(text, q.chunkLimit)
	if len(chunks) == 0 {
		return
	}

	q.mu.Lock()
	q.generation++
	generation := q.generation
	q.text = text
	q.chunks = chunks
	q.cursor = 0
	q.mu.Unlock()

	q.playNext(ctx, generation)
}

// Stop cancels in-progress and queued playback. The speaking flag flips
// synchronously; engine-level cancellation is fire and forget. It returns
// whether playback was active and the text it carried so the caller can
// report the interruption.
func (q *speechQueue) Stop() (wasSpeaking bool, text string) {
	q.mu.Lock()
	q.generation++
	text = q.text
	wasSpeaking = q.speaking
	q.speaking = false
	q.text = ""
	q.chunks = nil
	q.cursor = 0
	q.mu.Unlock()

	if q.synthesizer != nil {
		q.synthesizer.Stop()
	}
	return wasSpeaking, text
}

func (q *speechQueue) IsSpeaking() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.speaking
}

func (q *speechQueue) playNext(ctx context.Context, generation int) {
	q.mu.Lock()
	if generation != q.generation {
		q.mu.Unlock()
		return
	}
	if q.cursor >= len(q.chunks) {
		text := q.text
		wasSpeaking := q.speaking
		q.speaking = false
		q.text = ""
		q.chunks = nil
		q.cursor = 0
		q.mu.Unlock()
		if wasSpeaking {
			q.onEnded(text, true)
		}
		return
	}
	index := q.cursor
	segment := q.chunks[index]
	fullText := q.text
	q.mu.Unlock()

	// Voice choice is re-resolved per utterance: the engine's catalogue
	// may still be loading the first time around.
	voice := q.resolveVoice(ctx)

	err := q.synthesizer.Speak(ctx, segment,
		synthesis.WithVoice(voice),
		synthesis.WithRate(q.rate),
		synthesis.WithPitch(q.pitch),
		synthesis.WithStartedCallback(func() {
			q.mu.Lock()
			if generation != q.generation {
				q.mu.Unlock()
				return
			}
			wasSpeaking := q.speaking
			q.speaking = true
			q.mu.Unlock()
			if !wasSpeaking {
				q.onStarted(fullText)
			}
			q.onChunkStarted(index, segment)
		}),
		synthesis.WithEndedCallback(func() {
			q.mu.Lock()
			if generation != q.generation {
				q.mu.Unlock()
				return
			}
			q.cursor++
			q.mu.Unlock()
			q.playNext(ctx, generation)
		}),
		synthesis.WithErrorCallback(func(err error) {
			q.abort(generation, err)
		}),
	)
	if err != nil {
		q.abort(generation, err)
	}
}

// abort drops the remaining chunk queue for the current utterance after a
// synthesis error. Never retried. The end callback fires even when the first
// chunk failed before any start signal, so the caller's speaking phase always
// has a settle path.
func (q *speechQueue) abort(generation int, err error) {
	q.mu.Lock()
	if generation != q.generation {
		q.mu.Unlock()
		return
	}
	q.generation++
	text := q.text
	q.speaking = false
	q.text = ""
	q.chunks = nil
	q.cursor = 0
	q.mu.Unlock()

	q.synthesizer.Stop()
	q.onError(err)
	q.onEnded(text, false)
}

func (q *speechQueue) resolveVoice(ctx context.Context) *synthesis.Voice {
	voices := q.synthesizer.Voices(ctx)
	if len(voices) == 0 {
		// Catalogue not loaded yet; let the engine use its default.
		return nil
	}

	if q.voiceName != "" {
		for i := range voices {
			if voices[i].Name == q.voiceName {
				return &voices[i]
			}
		}
	}

	voice, matched := synthesis.ChooseVoice(voices, q.locale)
	if !matched {
		q.mu.Lock()
		warned := q.warnedNoVoice
		q.warnedNoVoice = true
		q.mu.Unlock()
		if !warned {
			logger.Warn("no voice matches the target locale, falling back to engine default",
				"locale", q.locale)
		}
	}
	return voice
}
