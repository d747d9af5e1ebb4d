// Package chunk splits response text into utterance-sized pieces for
// sequential speech playback.
package chunk

import "strings"

// Split breaks text into ordered, trimmed, non-empty chunks no longer than
// maxLen runes. Sentence boundaries are preferred; a sentence that does not
// fit on its own is packed word by word. A single word longer than maxLen is
// emitted whole rather than truncated mid-word. The same input always yields
// the same chunk sequence.
func Split(text string, maxLen int) []string {
	if maxLen < 1 {
		maxLen = 1
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	pack := func(segment string) {
		segmentLen := len([]rune(segment))
		currentLen := len([]rune(current.String()))

		if currentLen > 0 && currentLen+1+segmentLen <= maxLen {
			current.WriteByte(' ')
			current.WriteString(segment)
			return
		}

		flush()
		current.WriteString(segment)
	}

	for _, sentence := range sentences(text) {
		if len([]rune(sentence)) <= maxLen {
			pack(sentence)
			continue
		}

		// The sentence alone overflows a chunk; fall back to word packing.
		// A single oversized word still goes out whole.
		for _, word := range strings.Fields(sentence) {
			pack(word)
		}
	}
	flush()

	return chunks
}

// sentences splits text into trimmed sentence-like segments, cutting after
// runs of sentence-terminal punctuation and at newlines.
func sentences(text string) []string {
	var segments []string
	var current strings.Builder
	terminalSeen := false

	cut := func() {
		segment := strings.TrimSpace(current.String())
		current.Reset()
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	for _, r := range text {
		switch {
		case r == '\n':
			cut()
			terminalSeen = false
		case r == '.' || r == '!' || r == '?' || r == '…':
			current.WriteRune(r)
			terminalSeen = true
		default:
			if terminalSeen {
				cut()
				terminalSeen = false
			}
			current.WriteRune(r)
		}
	}
	cut()

	return segments
}
