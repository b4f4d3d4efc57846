package ports

import "context"

// AnswerGenerator produces a short free-text reply for messages no rule or
// flow claims. Implementations are total: on internal failure they degrade to
// a default menu text instead of returning an error.
type AnswerGenerator interface {
	Generate(ctx context.Context, userText string) string
}
