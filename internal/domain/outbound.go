package domain

// Option is one selectable row of a list message.
type Option struct {
	ID    string
	Title string
}

// OutboundKind selects the message shape to send.
type OutboundKind string

const (
	OutText     OutboundKind = "text"
	OutYesNo    OutboundKind = "yes_no"
	OutList     OutboundKind = "list"
	OutLocation OutboundKind = "location"
)

// Outbound is one message request produced by a turn. Requests are queued
// while the session lock is held and sent after it is released.
type Outbound struct {
	To   string
	Kind OutboundKind

	// Text is the body for OutText and the prompt for OutYesNo / OutList.
	Text string

	// List fields.
	Title   string
	Options []Option

	// Location fields.
	Lat, Lng       float64
	Label, Address string
}

// TextMessage builds a plain text request.
func TextMessage(to, text string) Outbound {
	return Outbound{To: to, Kind: OutText, Text: text}
}

// YesNoMessage builds a yes/no button request.
func YesNoMessage(to, prompt string) Outbound {
	return Outbound{To: to, Kind: OutYesNo, Text: prompt}
}

// ListMessage builds a single-section list request.
func ListMessage(to, prompt, title string, options []Option) Outbound {
	return Outbound{To: to, Kind: OutList, Text: prompt, Title: title, Options: options}
}

// LocationMessage builds a location pin request.
func LocationMessage(to string, lat, lng float64, label, address string) Outbound {
	return Outbound{To: to, Kind: OutLocation, Lat: lat, Lng: lng, Label: label, Address: address}
}
