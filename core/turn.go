package dialogue

import "github.com/google/uuid"

// Role attributes a turn to one side of the conversation.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// TurnKind distinguishes conversational content from turns inserted for UI
// continuity. Markers never reach the language model.
type TurnKind string

const (
	// TurnContent is a regular conversational turn.
	TurnContent TurnKind = "content"
	// TurnPlaceholder is a transient turn shown while an activity is in
	// progress, removed before the real turn is appended.
	TurnPlaceholder TurnKind = "placeholder"
	// TurnFeatureMarker records a feature initiation or acknowledgement.
	TurnFeatureMarker TurnKind = "feature_marker"
)

// Turn is one message in the conversation. Immutable once appended.
type Turn struct {
	ID   string
	Role Role
	Kind TurnKind
	Text string
}

// IsMarker reports whether the turn is excluded from model submissions.
func (t Turn) IsMarker() bool {
	return t.Kind != TurnContent
}

func newTurn(role Role, kind TurnKind, text string) Turn {
	return Turn{ID: uuid.NewString(), Role: role, Kind: kind, Text: text}
}
