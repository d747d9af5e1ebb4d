package events

const (
	// KindTurnAppended identifies a turn being appended to the conversation log.
	KindTurnAppended Kind = "conversation.turn_appended"
	// KindConversationReset identifies the log being reset to the seeded greeting.
	KindConversationReset Kind = "conversation.reset"
)

// TurnAppended carries a turn that was appended to the conversation log.
type TurnAppended struct {
	Base
	TurnID string
	Role   string
	Text   string
}

// NewTurnAppended creates a turn appended event.
func NewTurnAppended(turnID, role, text string) TurnAppended {
	return TurnAppended{Base: NewBase(KindTurnAppended), TurnID: turnID, Role: role, Text: text}
}

// ConversationReset marks the conversation log being reset.
type ConversationReset struct{ Base }

// NewConversationReset creates a conversation reset event.
func NewConversationReset() ConversationReset {
	return ConversationReset{Base: NewBase(KindConversationReset)}
}
