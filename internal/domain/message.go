package domain

// MessageKind is the shape of an inbound message after transport decoding.
type MessageKind string

const (
	KindText   MessageKind = "text"
	KindChoice MessageKind = "structured_choice"
	KindImage  MessageKind = "image"
)

// Inbound is one decoded inbound turn, transport details already stripped.
type Inbound struct {
	Conversation string
	DisplayName  string
	Kind         MessageKind

	// Text carries the body for KindText and the selected title for
	// KindChoice (the original transport echoes the row title back).
	Text string

	// ChoiceID is set for KindChoice only.
	ChoiceID string
}
