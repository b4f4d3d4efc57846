package ports

import (
	"context"

	"github.com/eiescz/idiomasbot/internal/domain"
)

// Messenger sends outbound messages to a conversation. All sends are
// fire-and-forget from the core's perspective: a delivery failure is logged by
// the caller and never rolls back session state.
type Messenger interface {
	SendText(ctx context.Context, conversation, text string) error
	SendYesNo(ctx context.Context, conversation, prompt string) error
	SendList(ctx context.Context, conversation, prompt, title string, options []domain.Option) error
	SendLocation(ctx context.Context, conversation string, lat, lng float64, label, address string) error
}
