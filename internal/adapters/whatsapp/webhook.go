package whatsapp

import "github.com/eiescz/idiomasbot/internal/domain"

// Webhook payload model for inbound Cloud API events. Only the fields the
// bot reads are declared.

type WebhookEvent struct {
	Entry []Entry `json:"entry"`
}

type Entry struct {
	Changes []Change `json:"changes"`
}

type Change struct {
	Value Value `json:"value"`
}

type Value struct {
	Contacts []Contact `json:"contacts"`
	Messages []Message `json:"messages"`
}

type Contact struct {
	Profile Profile `json:"profile"`
}

type Profile struct {
	Name string `json:"name"`
}

type Message struct {
	From        string       `json:"from"`
	Type        string       `json:"type"`
	Text        *Text        `json:"text,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

type Interactive struct {
	ButtonReply *Reply `json:"button_reply,omitempty"`
	ListReply   *Reply `json:"list_reply,omitempty"`
}

type Reply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Decode extracts the first message of the event as a domain inbound turn.
// The second return is false when the event carries no message (status
// callbacks and the like).
func Decode(ev WebhookEvent) (domain.Inbound, bool) {
	if len(ev.Entry) == 0 || len(ev.Entry[0].Changes) == 0 {
		return domain.Inbound{}, false
	}
	value := ev.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return domain.Inbound{}, false
	}
	msg := value.Messages[0]

	in := domain.Inbound{Conversation: msg.From}
	if len(value.Contacts) > 0 {
		in.DisplayName = value.Contacts[0].Profile.Name
	}

	switch msg.Type {
	case "text":
		in.Kind = domain.KindText
		if msg.Text != nil {
			in.Text = msg.Text.Body
		}
	case "interactive":
		in.Kind = domain.KindChoice
		if msg.Interactive != nil {
			if r := msg.Interactive.ButtonReply; r != nil {
				in.ChoiceID, in.Text = r.ID, r.Title
			} else if r := msg.Interactive.ListReply; r != nil {
				in.ChoiceID, in.Text = r.ID, r.Title
			}
		}
	case "image":
		in.Kind = domain.KindImage
	default:
		// Unsupported kinds flow through as empty text turns.
		in.Kind = domain.KindText
	}

	return in, true
}
