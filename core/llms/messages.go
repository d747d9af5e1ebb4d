// Package llms defines the wire-neutral request types handed to language
// model clients.
package llms

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is one piece of a content entry. Only text parts are used here.
type Part struct {
	Text string
}

// Content is a single entry in the ordered message list sent to the model.
type Content struct {
	Role  Role
	Parts []Part
}

// Request is the fully ordered message list for one model call: the persona
// instruction first, then the conversation snapshot, then the current prompt.
// The caller owns this ordering; clients transmit it unchanged.
type Request struct {
	Contents []Content
}

// NewTextContent builds a single-part text content entry.
func NewTextContent(role Role, text string) Content {
	return Content{Role: role, Parts: []Part{{Text: text}}}
}
