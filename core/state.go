package dialogue

// phase is the exclusive activity the orchestrator is engaged in. At most
// one of listening, loading and speaking is ever active; the transition
// functions below are the only way phases change.
type phase int

const (
	phaseIdle phase = iota
	phaseListening
	phaseLoading
	phaseSpeaking
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseListening:
		return "listening"
	case phaseLoading:
		return "loading"
	case phaseSpeaking:
		return "speaking"
	}
	return "unknown"
}

// FeatureMode governs how the next user turn is interpreted. It is set by a
// feature initiation and consumed by the next successful submission.
type FeatureMode string

const (
	FeatureNone         FeatureMode = ""
	FeatureVocabTopic   FeatureMode = "vocabulary_topic"
	FeatureRephraseText FeatureMode = "rephrase_text"
)

// effect is a side-effect command a transition requires before the new state
// holds. Keeping effects out of the transition functions makes the mutual
// exclusion rules checkable in isolation.
type effect int

const (
	effectCancelSpeech effect = iota
	effectCancelListening
)

// sessionState is the full orchestrator state: the exclusive phase plus the
// cross-cutting feature mode.
type sessionState struct {
	Phase   phase
	Feature FeatureMode
}

func (s sessionState) withPhase(p phase) sessionState {
	s.Phase = p
	return s
}

// enterListening validates a listen request. Speaking is preemptible;
// listening and loading are not.
func (s sessionState) enterListening() (sessionState, []effect, error) {
	switch s.Phase {
	case phaseIdle:
		return s.withPhase(phaseListening), nil, nil
	case phaseSpeaking:
		return s.withPhase(phaseListening), []effect{effectCancelSpeech}, nil
	default:
		return s, nil, ErrOperationUnavailable
	}
}

// enterLoading validates a submission. A new send may cut speech short but
// never an in-flight recognition session or model call.
func (s sessionState) enterLoading() (sessionState, []effect, error) {
	switch s.Phase {
	case phaseIdle:
		return s.withPhase(phaseLoading), nil, nil
	case phaseSpeaking:
		return s.withPhase(phaseLoading), []effect{effectCancelSpeech}, nil
	default:
		return s, nil, ErrOperationUnavailable
	}
}

// enterSpeaking is driven by the playback start signal, which only fires
// for speech the orchestrator queued while idle.
func (s sessionState) enterSpeaking() (sessionState, error) {
	if s.Phase != phaseIdle {
		return s, ErrOperationUnavailable
	}
	return s.withPhase(phaseSpeaking), nil
}

// settle returns to idle from any phase. Every suspension point resolves
// through here, on success and on failure alike.
func (s sessionState) settle() sessionState {
	return s.withPhase(phaseIdle)
}

// reset is the clear transition: idle, no feature armed, cancelling
// whatever was active.
func (s sessionState) reset() (sessionState, []effect) {
	var effects []effect
	switch s.Phase {
	case phaseSpeaking:
		effects = append(effects, effectCancelSpeech)
	case phaseListening:
		effects = append(effects, effectCancelListening)
	}
	s.Phase = phaseIdle
	s.Feature = FeatureNone
	return s, effects
}

// armFeature sets the feature mode interpreting the next user input. Only
// valid when idle with no feature already armed.
func (s sessionState) armFeature(mode FeatureMode) (sessionState, error) {
	if s.Phase != phaseIdle || s.Feature != FeatureNone {
		return s, ErrOperationUnavailable
	}
	s.Feature = mode
	return s, nil
}

// consumeFeature returns the armed feature mode and clears it.
func (s sessionState) consumeFeature() (FeatureMode, sessionState) {
	mode := s.Feature
	s.Feature = FeatureNone
	return mode, s
}
