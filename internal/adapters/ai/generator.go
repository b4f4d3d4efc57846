// Package ai implements the free-text fallback generator on an eino chat
// chain. It only runs for messages no rule or flow claimed.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/eiescz/idiomasbot/internal/config"
)

const systemTemplate = `Eres asistente de *{org_name}*.
Dirección: {address}
Mapa: {maps_link}
Horarios: {opening_hours}
Cursos: {courses}
Niveles: {levels}
Precios: {prices}
Medios de pago: {payment_methods}
Responde corto, amable, ≤6 líneas.`

// Generator implements ports.AnswerGenerator. It is total: any chain failure
// degrades to the fallback text instead of surfacing an error.
type Generator struct {
	chain    compose.Runnable[map[string]any, *schema.Message]
	content  *config.Snapshot
	fallback func() string
	logger   *slog.Logger
}

// New compiles the chat chain over the ark model. fallback supplies the text
// returned when generation fails (typically the main menu).
func New(ctx context.Context, apiKey, modelName string, content *config.Snapshot, fallback func() string, logger *slog.Logger) (*Generator, error) {
	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		APIKey: apiKey,
		Model:  modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return fromModel(ctx, chatModel, content, fallback, logger)
}

func fromModel(ctx context.Context, chatModel model.ChatModel, content *config.Snapshot, fallback func() string, logger *slog.Logger) (*Generator, error) {
	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemTemplate),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile chat chain: %w", err)
	}

	return &Generator{chain: runnable, content: content, fallback: fallback, logger: logger}, nil
}

// Static is the degraded generator used when no model is configured: it
// always answers with the fallback text.
type Static struct {
	fallback func() string
}

// NewStatic creates a generator that only returns fallback().
func NewStatic(fallback func() string) *Static {
	return &Static{fallback: fallback}
}

// Generate ignores the user text and returns the fallback.
func (s *Static) Generate(_ context.Context, _ string) string {
	return s.fallback()
}

// Generate produces a short reply for the user text. Organization facts come
// from the current content snapshot so operator edits apply without restart.
func (g *Generator) Generate(ctx context.Context, userText string) string {
	c := g.content.Current()
	input := map[string]any{
		"org_name":        c.Org.Name,
		"address":         c.Org.Address,
		"maps_link":       c.Org.MapsLink,
		"opening_hours":   c.Org.OpeningHours,
		"courses":         strings.Join(c.Courses, ", "),
		"levels":          strings.Join(c.Levels, ", "),
		"prices":          c.Org.Prices,
		"payment_methods": c.Org.PaymentMethods,
		"query":           userText,
	}

	response, err := g.chain.Invoke(ctx, input)
	if err != nil {
		g.logger.Warn("answer generation failed, degrading to menu", "err", err)
		return g.fallback()
	}
	text := strings.TrimSpace(response.Content)
	if text == "" {
		return g.fallback()
	}
	return text
}
