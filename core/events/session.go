package events

const (
	// KindPhaseChanged identifies orchestrator phase transitions.
	KindPhaseChanged Kind = "session.phase_changed"
	// KindFeatureArmed identifies a feature arming the next user input.
	KindFeatureArmed Kind = "session.feature_armed"
	// KindAdvisory identifies a recoverable condition surfaced to the user.
	KindAdvisory Kind = "session.advisory"
)

// PhaseChanged marks a transition between orchestrator phases.
type PhaseChanged struct {
	Base
	From string
	To   string
}

// NewPhaseChanged creates a phase changed event.
func NewPhaseChanged(from, to string) PhaseChanged {
	return PhaseChanged{Base: NewBase(KindPhaseChanged), From: from, To: to}
}

// FeatureArmed marks that the next user input will be interpreted as a
// parameter to the named feature. An empty feature means the mode was
// consumed or cleared.
type FeatureArmed struct {
	Base
	Feature string
}

// NewFeatureArmed creates a feature armed event.
func NewFeatureArmed(feature string) FeatureArmed {
	return FeatureArmed{Base: NewBase(KindFeatureArmed), Feature: feature}
}

// Advisory carries a user-visible, recoverable condition.
type Advisory struct {
	Base
	Message string
}

func (a Advisory) String() string { return a.Message }

// NewAdvisory creates an advisory event.
func NewAdvisory(message string) Advisory {
	return Advisory{Base: NewBase(KindAdvisory), Message: message}
}
