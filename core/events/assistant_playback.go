package events

const (
	// KindPlaybackStarted identifies playback start for the current response.
	KindPlaybackStarted Kind = "assistant_playback.started"
	// KindPlaybackChunkStarted identifies a chunk within the response starting.
	KindPlaybackChunkStarted Kind = "assistant_playback.chunk_started"
	// KindPlaybackEnded identifies the playback completion milestone.
	KindPlaybackEnded Kind = "assistant_playback.ended"
)

// PlaybackStarted marks the start of playback for a response text.
type PlaybackStarted struct {
	Base
	Text string
}

// NewPlaybackStarted creates a playback started event.
func NewPlaybackStarted(text string) PlaybackStarted {
	return PlaybackStarted{Base: NewBase(KindPlaybackStarted), Text: text}
}

// PlaybackChunkStarted marks a single chunk beginning playback.
type PlaybackChunkStarted struct {
	Base
	Index int
	Chunk string
}

// NewPlaybackChunkStarted creates a playback chunk started event.
func NewPlaybackChunkStarted(index int, chunk string) PlaybackChunkStarted {
	return PlaybackChunkStarted{Base: NewBase(KindPlaybackChunkStarted), Index: index, Chunk: chunk}
}

// PlaybackEnded marks the end of playback for the current response.
// Completed is true only when every chunk finished; it is false when playback
// was stopped or a synthesis error aborted the queue.
type PlaybackEnded struct {
	Base
	Text      string
	Completed bool
}

// NewPlaybackEnded creates a playback ended event.
func NewPlaybackEnded(text string, completed bool) PlaybackEnded {
	return PlaybackEnded{Base: NewBase(KindPlaybackEnded), Text: text, Completed: completed}
}
