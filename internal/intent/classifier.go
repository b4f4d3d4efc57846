// Package intent maps raw message text to a symbolic intent tag.
package intent

import (
	"strings"

	"github.com/eiescz/idiomasbot/internal/config"
)

// Intent is a symbolic classification of one inbound message.
type Intent string

const (
	Schedule   Intent = "horarios"
	Courses    Intent = "cursos"
	Pricing    Intent = "precios"
	Enrollment Intent = "inscripciones"
	Location   Intent = "ubicacion"
	Contact    Intent = "contacto"
	Payment    Intent = "pagos"
	General    Intent = "general"
)

// builtinRules is the fixed fallback rule set. Order is significant: several
// triggers can co-occur in one message and the first matching rule wins.
var builtinRules = []config.Rule{
	{Intent: string(Schedule), Triggers: []string{"horario", "hora", "atención", "atienden"}},
	{Intent: string(Courses), Triggers: []string{"curso", "idioma", "clases", "nivel"}},
	{Intent: string(Pricing), Triggers: []string{"precio", "cuesta", "mensualidad", "inscripción"}},
	{Intent: string(Enrollment), Triggers: []string{"inscribir", "requisito", "matrícula"}},
	{Intent: string(Location), Triggers: []string{"ubicación", "dónde", "direccion", "mapa"}},
	{Intent: string(Contact), Triggers: []string{"contacto", "teléfono", "email", "correo"}},
	{Intent: string(Payment), Triggers: []string{"pago", "transferencia", "qr", "efectivo", "cuenta"}},
}

// shortcuts map single-character menu replies to intents. Matched against the
// exact normalized text, not by containment.
var shortcuts = map[string]Intent{
	"1": Schedule, "2": Courses, "3": Pricing, "4": Enrollment,
	"5": Location, "6": Contact, "7": Payment,
}

// Classifier resolves intents against the live content snapshot so operator
// rules apply without a restart.
type Classifier struct {
	content *config.Snapshot
}

// New creates a classifier over the given content snapshot holder.
func New(content *config.Snapshot) *Classifier {
	return &Classifier{content: content}
}

// Classify returns the intent for the given text. Total: it always returns
// one of the fixed tags, defaulting to General. Dynamic rules from the
// snapshot are consulted before the built-in rules so an operator can
// redirect an intent.
func (c *Classifier) Classify(text string) Intent {
	if text == "" {
		return General
	}
	t := strings.ToLower(text)

	if c.content != nil {
		if tag, ok := match(c.content.Current().Rules, t); ok {
			return tag
		}
	}
	if tag, ok := match(builtinRules, t); ok {
		return tag
	}
	if tag, ok := shortcuts[strings.TrimSpace(t)]; ok {
		return tag
	}
	return General
}

// match runs the ordered substring-containment test. Containment rather than
// tokenization: it trades precision for robustness against free phrasing.
func match(rules []config.Rule, lower string) (Intent, bool) {
	for _, r := range rules {
		for _, trigger := range r.Triggers {
			if trigger != "" && strings.Contains(lower, strings.ToLower(trigger)) {
				return Intent(r.Intent), true
			}
		}
	}
	return "", false
}
