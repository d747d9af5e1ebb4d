package dialogue

import (
	"slices"
	"sync"
)

// conversationLog is the append-only ordered log of turns. It is seeded with
// a greeting turn and never empty after initialization.
type conversationLog struct {
	mu sync.RWMutex

	turns    []Turn
	greeting string
}

func newConversationLog(greeting string) *conversationLog {
	log := &conversationLog{greeting: greeting}
	log.turns = []Turn{newTurn(RoleModel, TurnContent, greeting)}
	return log
}

func (l *conversationLog) Append(role Role, kind TurnKind, text string) Turn {
	turn := newTurn(role, kind, text)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn)
	return turn
}

// Remove deletes the turn with the given ID, if present. Used to retract
// transient placeholders.
func (l *conversationLog) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = slices.DeleteFunc(l.turns, func(turn Turn) bool {
		return turn.ID == id
	})
}

// Reset replaces the whole log with a fresh seeded greeting.
func (l *conversationLog) Reset() Turn {
	seeded := newTurn(RoleModel, TurnContent, l.greeting)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = []Turn{seeded}
	return seeded
}

// SnapshotForDisplay returns a copy of the full log, markers included.
func (l *conversationLog) SnapshotForDisplay() []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()

	turns := make([]Turn, len(l.turns))
	copy(turns, l.turns)
	return turns
}

// SnapshotForSubmission returns the log with placeholder and feature-marker
// turns removed, in order. This is the only view sent to the model.
func (l *conversationLog) SnapshotForSubmission() []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()

	turns := make([]Turn, 0, len(l.turns))
	for _, turn := range l.turns {
		if turn.IsMarker() {
			continue
		}
		turns = append(turns, turn)
	}
	return turns
}

// LastUserContent returns the most recent non-marker user turn, or nil.
func (l *conversationLog) LastUserContent() *Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, turn := range slices.Backward(l.turns) {
		if turn.Role == RoleUser && !turn.IsMarker() {
			snapshot := turn
			return &snapshot
		}
	}
	return nil
}
