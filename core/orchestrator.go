package dialogue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/lingora/lingora-core/core/events"
	"github.com/lingora/lingora-core/core/llms"
	"github.com/lingora/lingora-core/core/llms/gemini"
	"github.com/lingora/lingora-core/core/recognition"
	"github.com/lingora/lingora-core/core/synthesis"
	"github.com/lingora/lingora-core/internal/config"
	"github.com/lingora/lingora-core/internal/utils"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Orchestrator coordinates the conversation log, the turn state machine,
// speech output, speech input and the language model. All triggers and all
// completion callbacks funnel through a single mutex, so state transitions
// are observed in a strict total order.
type Orchestrator struct {
	mu    sync.Mutex
	state sessionState
	// epoch invalidates in-flight model calls and recognition sessions.
	// Clear bumps it; completions carrying a stale epoch are dropped.
	epoch int

	conversation *conversationLog
	speech       *speechQueue
	listener     *listenController

	model       LanguageModel
	synthesizer synthesis.Synthesizer
	recognizer  recognition.Recognizer

	persona        string
	greeting       string
	locale         string
	preferredVoice string
	rate           float64
	pitch          float64
	chunkLimit     int

	// placeholderID tracks the transient turn shown while listening.
	placeholderID string

	orchestrateOptions OrchestrateOptions
	emit               eventEmitter
	baseContext        context.Context
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	defaults := config.Defaults()

	o := &Orchestrator{
		persona:     defaultPersona,
		greeting:    defaultGreeting,
		emit:        noopEventEmitter,
		baseContext: context.Background(),
	}
	withConfig(defaults)(o)

	for _, opt := range opts {
		opt(o)
	}

	o.conversation = newConversationLog(o.greeting)
	o.listener = newListenController(o.recognizer, o.locale)
	o.speech = newSpeechQueue(o.synthesizer, o.locale, o.preferredVoice, o.rate, o.pitch, o.chunkLimit)
	o.speech.setCallbacks(
		func(text string) { o.emit(events.NewPlaybackStarted(text)) },
		func(index int, chunk string) { o.emit(events.NewPlaybackChunkStarted(index, chunk)) },
		o.handlePlaybackEnded,
		func(err error) { o.advise("Sorry, I couldn't play that reply out loud.", err) },
	)

	return o
}

// NewOrchestratorFromConfig loads the YAML config at path and builds an
// orchestrator from it. Explicit options take precedence over config
// values. When no language model was wired in, a Gemini client is built
// from the config's model section and the GEMINI_API_KEY environment
// variable.
func NewOrchestratorFromConfig(path string, opts ...OrchestratorOption) (*Orchestrator, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	o := NewOrchestrator(append([]OrchestratorOption{withConfig(cfg)}, opts...)...)
	if o.model == nil {
		modelOpts := []gemini.Option{gemini.WithModel(cfg.Model.Name)}
		if cfg.Model.BaseURL != "" {
			modelOpts = append(modelOpts, gemini.WithBaseURL(cfg.Model.BaseURL))
		}
		o.model = gemini.NewClient(os.Getenv("GEMINI_API_KEY"), modelOpts...)
	}
	return o, nil
}

// Orchestrate wires the per-run callbacks and the base context used for
// model and speech calls.
//
// Contract: call Orchestrate once, before any trigger. Triggers fired
// before Orchestrate run with no observers.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) {
	o.orchestrateOptions = OrchestrateOptions{}
	for _, opt := range opts {
		opt(&o.orchestrateOptions)
	}

	o.baseContext = ctx
	o.emit = newCallbackEventEmitter(o.orchestrateOptions)
}

// Conversation returns a point-in-time copy of the full log, markers and
// placeholders included.
func (o *Orchestrator) Conversation() []Turn {
	return o.conversation.SnapshotForDisplay()
}

// Phase reports the orchestrator's current exclusive activity.
func (o *Orchestrator) Phase() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Phase.String()
}

// Feature reports the armed feature mode, if any.
func (o *Orchestrator) Feature() FeatureMode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Feature
}

// SendText submits typed user input. Valid while idle or speaking; a send
// cuts playback short. The armed feature mode, if any, decides how the
// text is interpreted and is consumed by the call.
func (o *Orchestrator) SendText(text string) error {
	return o.submitText(text)
}

// StartListening opens a one-shot recognition session and shows a
// placeholder turn until it resolves. The recognized transcript is
// submitted as if typed.
func (o *Orchestrator) StartListening() error {
	if o.recognizer == nil {
		return ErrOperationUnavailable
	}

	o.mu.Lock()
	from := o.state.Phase.String()
	next, effects, err := o.state.enterListening()
	if err != nil {
		o.mu.Unlock()
		return err
	}
	o.state = next
	epoch := o.epoch
	placeholder := o.conversation.Append(RoleUser, TurnPlaceholder, listeningPlaceholderText)
	o.placeholderID = placeholder.ID
	o.mu.Unlock()

	o.applyEffects(effects)
	o.emit(events.NewPhaseChanged(from, phaseListening.String()))
	o.emit(events.NewListeningStarted())
	o.emitTurnAppended(placeholder)

	err = o.listener.Start(o.baseContext,
		func(transcript string) { o.finishListening(epoch, transcript, nil) },
		func(err error) { o.finishListening(epoch, "", err) },
		func() { o.finishListening(epoch, "", nil) },
	)
	if err != nil {
		o.mu.Lock()
		if epoch == o.epoch {
			o.state = o.state.settle()
			o.conversation.Remove(o.placeholderID)
			o.placeholderID = ""
		}
		o.mu.Unlock()
		o.emit(events.NewListeningEnded(false))
		o.emit(events.NewPhaseChanged(phaseListening.String(), phaseIdle.String()))
		o.advise("Sorry, I couldn't start listening. Please try again.", err)
		return err
	}
	return nil
}

// StopListening ends the active recognition session early. Whatever was
// recognized so far resolves the session through the usual outcomes.
func (o *Orchestrator) StopListening() error {
	o.mu.Lock()
	if o.state.Phase != phaseListening {
		o.mu.Unlock()
		return ErrOperationUnavailable
	}
	o.mu.Unlock()

	o.listener.Stop()
	return nil
}

// StopSpeaking cuts playback short. The response turn stays in the log.
func (o *Orchestrator) StopSpeaking() error {
	o.mu.Lock()
	if o.state.Phase != phaseSpeaking {
		o.mu.Unlock()
		return ErrOperationUnavailable
	}
	o.state = o.state.settle()
	o.mu.Unlock()

	o.emit(events.NewPhaseChanged(phaseSpeaking.String(), phaseIdle.String()))
	if wasSpeaking, text := o.speech.Stop(); wasSpeaking {
		o.emit(events.NewPlaybackEnded(text, false))
	}
	return nil
}

// RequestVocabulary arms vocabulary practice: the next submission is
// treated as a topic and wrapped into a vocabulary prompt.
func (o *Orchestrator) RequestVocabulary() error {
	return o.armFeature(FeatureVocabTopic, vocabularyMarkerText, vocabularyAskText)
}

// RequestRephrase arms rephrasing: the next submission is treated as a
// sentence to be rephrased.
func (o *Orchestrator) RequestRephrase() error {
	return o.armFeature(FeatureRephraseText, rephraseMarkerText, rephraseAskText)
}

// RequestPronunciationTips asks the model for pronunciation guidance on the
// user's most recent turn. Valid only while idle. The wrapped instruction is
// submitted like typed input, sidestepping any armed feature mode.
func (o *Orchestrator) RequestPronunciationTips() error {
	o.mu.Lock()
	if o.state.Phase != phaseIdle {
		o.mu.Unlock()
		return ErrOperationUnavailable
	}
	last := o.conversation.LastUserContent()
	if last == nil {
		o.mu.Unlock()
		o.advise(ErrNoUserTurn.Error(), nil)
		return ErrNoUserTurn
	}
	marker := o.conversation.Append(RoleModel, TurnFeatureMarker, pronunciationMarkerText(last.Text))
	o.mu.Unlock()

	o.emitTurnAppended(marker)

	return o.submit(pronunciationPrompt(last.Text), false)
}

// RequestRolePlay asks the model to open a role-play scenario. Valid only
// while idle; dispatched immediately, with no feature mode involved.
func (o *Orchestrator) RequestRolePlay() error {
	o.mu.Lock()
	if o.state.Phase != phaseIdle {
		o.mu.Unlock()
		return ErrOperationUnavailable
	}
	next, _, err := o.state.enterLoading()
	if err != nil {
		o.mu.Unlock()
		return err
	}
	o.state = next
	epoch := o.epoch
	history := o.conversation.SnapshotForSubmission()
	marker := o.conversation.Append(RoleModel, TurnFeatureMarker, rolePlayMarkerText)
	o.mu.Unlock()

	o.emit(events.NewPhaseChanged(phaseIdle.String(), phaseLoading.String()))
	o.emitTurnAppended(marker)

	go o.dispatch(rolePlayInstruction, history, epoch)
	return nil
}

// Clear resets the conversation to its seeded greeting, cancels whatever
// is in flight and disarms any feature mode. Idempotent.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	o.epoch++
	from := o.state.Phase.String()
	hadFeature := o.state.Feature != FeatureNone
	next, effects := o.state.reset()
	o.state = next
	o.placeholderID = ""
	seeded := o.conversation.Reset()
	o.mu.Unlock()

	o.applyEffects(effects)
	o.emit(events.NewConversationReset())
	o.emitTurnAppended(seeded)
	if from != phaseIdle.String() {
		o.emit(events.NewPhaseChanged(from, phaseIdle.String()))
	}
	if hadFeature {
		o.emit(events.NewFeatureArmed(""))
	}
}

func (o *Orchestrator) submitText(text string) error {
	return o.submit(text, true)
}

// submit runs the shared submission path: enter loading, append the user
// turn, dispatch the model call. useFeature decides whether an armed feature
// mode wraps the text; pronunciation tips submit pre-wrapped instructions and
// leave the mode alone.
func (o *Orchestrator) submit(text string, useFeature bool) error {
	text = strings.TrimSpace(text)
	if text == "" {
		o.advise("There's nothing to send yet. Say or type something first.", ErrEmptySubmission)
		return ErrEmptySubmission
	}

	o.mu.Lock()
	from := o.state.Phase.String()
	next, effects, err := o.state.enterLoading()
	if err != nil {
		o.mu.Unlock()
		return err
	}
	mode := FeatureNone
	if useFeature {
		mode, next = next.consumeFeature()
	}
	o.state = next
	epoch := o.epoch

	// The snapshot is taken before the new turn lands so the prompt is
	// not duplicated in the history.
	history := o.conversation.SnapshotForSubmission()
	userTurn := o.conversation.Append(RoleUser, TurnContent, text)

	prompt := text
	var ackTurn *Turn
	switch mode {
	case FeatureVocabTopic:
		prompt = vocabularyPrompt(text)
		ackTurn = utils.Ptr(o.conversation.Append(RoleModel, TurnFeatureMarker, vocabularyAckText))
	case FeatureRephraseText:
		prompt = rephrasePrompt(text)
		ackTurn = utils.Ptr(o.conversation.Append(RoleModel, TurnFeatureMarker, rephraseAckText))
	}
	o.mu.Unlock()

	o.applyEffects(effects)
	o.emit(events.NewPhaseChanged(from, phaseLoading.String()))
	if mode != FeatureNone {
		o.emit(events.NewFeatureArmed(""))
	}
	o.emitTurnAppended(userTurn)
	if ackTurn != nil {
		o.emitTurnAppended(*ackTurn)
	}

	go o.dispatch(prompt, history, epoch)
	return nil
}

// dispatch performs the model call and folds the outcome back into the
// conversation. Every dispatch resolves with a model turn: the reply on
// success, an apology otherwise.
func (o *Orchestrator) dispatch(prompt string, history []Turn, epoch int) {
	ctx, span := tracer.Start(o.baseContext, "generate reply")
	defer span.End()

	var reply string
	var err error
	if o.model == nil {
		err = errors.New("no language model configured")
	} else {
		reply, err = o.model.Generate(ctx, o.buildRequest(history, prompt))
	}
	if err != nil {
		recordedErr := fmt.Errorf("failed to generate reply: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		reply = apologyFor(err)
	}

	o.completeDispatch(reply, err == nil, epoch)
}

// completeDispatch folds a resolved model call back into the conversation.
// Apology turns appended for a failed call are shown but never spoken.
func (o *Orchestrator) completeDispatch(reply string, succeeded bool, epoch int) {
	o.mu.Lock()
	if epoch != o.epoch {
		o.mu.Unlock()
		return
	}
	from := o.state.Phase.String()
	o.state = o.state.settle()
	turn := o.conversation.Append(RoleModel, TurnContent, reply)

	speak := false
	if succeeded && o.synthesizer != nil {
		if next, err := o.state.enterSpeaking(); err == nil {
			o.state = next
			speak = true
		}
	}
	to := o.state.Phase.String()
	o.mu.Unlock()

	o.emitTurnAppended(turn)
	o.emit(events.NewPhaseChanged(from, to))
	if speak {
		o.speech.Speak(o.baseContext, reply)
	}
}

func (o *Orchestrator) finishListening(epoch int, transcript string, cause error) {
	o.mu.Lock()
	if epoch != o.epoch {
		o.mu.Unlock()
		return
	}
	o.state = o.state.settle()
	if o.placeholderID != "" {
		o.conversation.Remove(o.placeholderID)
		o.placeholderID = ""
	}
	o.mu.Unlock()

	recognized := transcript != ""
	if recognized {
		o.emit(events.NewTranscriptFinal(transcript))
	}
	o.emit(events.NewListeningEnded(recognized))
	o.emit(events.NewPhaseChanged(phaseListening.String(), phaseIdle.String()))

	if cause != nil {
		o.advise("Sorry, I couldn't hear you properly. Please try again.", cause)
		return
	}
	if recognized {
		if err := o.submitText(transcript); err != nil {
			logger.Warn("failed to submit recognized transcript", "error", err)
		}
	}
}

// armFeature puts the orchestrator into a feature mode and speaks the
// feature's opening question. Only valid while idle with no mode armed.
func (o *Orchestrator) armFeature(mode FeatureMode, markerText, askText string) error {
	o.mu.Lock()
	next, err := o.state.armFeature(mode)
	if err != nil {
		o.mu.Unlock()
		return err
	}
	o.state = next
	marker := o.conversation.Append(RoleModel, TurnFeatureMarker, markerText)
	ask := o.conversation.Append(RoleModel, TurnFeatureMarker, askText)
	o.mu.Unlock()

	o.emit(events.NewFeatureArmed(string(mode)))
	o.emitTurnAppended(marker)
	o.emitTurnAppended(ask)

	o.speakText(askText)
	return nil
}

// speakText plays standalone prompt text, entering the speaking phase if
// currently idle. Used for feature opening questions.
func (o *Orchestrator) speakText(text string) {
	if o.synthesizer == nil {
		return
	}

	o.mu.Lock()
	next, err := o.state.enterSpeaking()
	if err != nil {
		o.mu.Unlock()
		return
	}
	o.state = next
	o.mu.Unlock()

	o.emit(events.NewPhaseChanged(phaseIdle.String(), phaseSpeaking.String()))
	o.speech.Speak(o.baseContext, text)
}

func (o *Orchestrator) handlePlaybackEnded(text string, completed bool) {
	o.mu.Lock()
	settled := false
	if o.state.Phase == phaseSpeaking {
		o.state = o.state.settle()
		settled = true
	}
	o.mu.Unlock()

	o.emit(events.NewPlaybackEnded(text, completed))
	if settled {
		o.emit(events.NewPhaseChanged(phaseSpeaking.String(), phaseIdle.String()))
	}
}

func (o *Orchestrator) applyEffects(effects []effect) {
	for _, e := range effects {
		switch e {
		case effectCancelSpeech:
			if wasSpeaking, text := o.speech.Stop(); wasSpeaking {
				o.emit(events.NewPlaybackEnded(text, false))
			}
		case effectCancelListening:
			o.listener.Stop()
		}
	}
}

// buildRequest assembles the ordered message list for one model call: the
// persona instruction, the marker-free conversation snapshot, then the
// current prompt.
func (o *Orchestrator) buildRequest(history []Turn, prompt string) llms.Request {
	contents := make([]llms.Content, 0, len(history)+2)
	contents = append(contents, llms.NewTextContent(llms.RoleUser, o.persona))
	for _, turn := range history {
		contents = append(contents, llms.NewTextContent(llms.Role(turn.Role), turn.Text))
	}
	contents = append(contents, llms.NewTextContent(llms.RoleUser, prompt))
	return llms.Request{Contents: contents}
}

// advise surfaces a recoverable condition without touching conversational
// state.
func (o *Orchestrator) advise(message string, cause error) {
	if cause != nil {
		span := trace.SpanFromContext(o.baseContext)
		span.RecordError(cause)
		span.SetStatus(codes.Error, cause.Error())
		logger.Warn(message, "error", cause)
	} else {
		logger.Warn(message)
	}
	o.emit(events.NewAdvisory(message))
}

func (o *Orchestrator) emitTurnAppended(turn Turn) {
	o.emit(events.NewTurnAppended(turn.ID, string(turn.Role), turn.Text))
	if o.orchestrateOptions.onTurnAppended != nil {
		o.orchestrateOptions.onTurnAppended(turn)
	}
}

// apologyFor maps a model failure to the spoken apology appended in its
// place. Structured API errors are folded into the message; everything
// else gets the generic apology.
func apologyFor(err error) string {
	var apiErr *llms.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return fmt.Sprintf("Sorry, something went wrong: %s", apiErr.Message)
	}
	return fallbackApology
}
