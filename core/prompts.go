package dialogue

import "fmt"

// defaultPersona is the fixed instruction placed first in every model
// request.
const defaultPersona = "You are Mia, a warm and patient English conversation " +
	"partner helping a learner practice spoken English. Keep replies " +
	"conversational and short enough to be read aloud comfortably, " +
	"correct mistakes gently, and ask a follow-up question when it keeps " +
	"the conversation going. Plain text only, no markdown."

// defaultGreeting seeds the conversation log.
const defaultGreeting = "Hi! I'm Mia, your English conversation partner. " +
	"What would you like to talk about today?"

// fallbackApology is appended as a model turn whenever the model call fails
// or returns an unusable response.
const fallbackApology = "Sorry, I couldn't come up with a reply just now. " +
	"Could you say that again?"

const listeningPlaceholderText = "Listening…"

// Marker texts shown in the transcript when a feature is initiated.
const (
	vocabularyMarkerText = "Vocabulary practice"
	rephraseMarkerText   = "Rephrase a sentence"
	rolePlayMarkerText   = "Role play"
)

// Spoken model prompts that arm a feature.
const (
	vocabularyAskText = "Great, let's build some vocabulary! " +
		"What topic would you like words for?"
	rephraseAskText = "Sure! Tell me a sentence and I'll show you a few " +
		"more natural ways to say it."
)

// Feature acknowledgements appended before the wrapped prompt is sent.
const (
	vocabularyAckText = "Let me gather some useful words for that."
	rephraseAckText   = "Let me think of better ways to put that."
)

func vocabularyPrompt(topic string) string {
	return fmt.Sprintf("I want to practice vocabulary about %q. "+
		"Give me 6 to 8 useful English words or phrases for this topic, "+
		"each with a short example sentence, then ask me to try one in a "+
		"sentence of my own.", topic)
}

func rephrasePrompt(sentence string) string {
	return fmt.Sprintf("Please rephrase this sentence in more natural "+
		"English and briefly explain what changed: %q", sentence)
}

func pronunciationPrompt(sentence string) string {
	return fmt.Sprintf("Give me pronunciation tips for saying this "+
		"sentence: %q. Point out the sounds an English learner is likely "+
		"to find difficult and how to practice them.", sentence)
}

func pronunciationMarkerText(sentence string) string {
	return fmt.Sprintf("Pronunciation tips for: %q", sentence)
}

const rolePlayInstruction = "Let's do a role play to practice everyday " +
	"English. Pick a common situation (ordering food, a job interview, " +
	"asking for directions, shopping), set the scene in one or two " +
	"sentences, give me my role, and open with your first line."
