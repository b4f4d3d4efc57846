// Package reply renders the Spanish templated answers from a content
// snapshot. Pure string building; no transport concerns.
package reply

import (
	"fmt"
	"strings"
	"time"

	"github.com/eiescz/idiomasbot/internal/config"
	"github.com/eiescz/idiomasbot/internal/domain"
	"github.com/eiescz/idiomasbot/internal/intent"
)

// Menu renders the numbered main menu.
func Menu(c *config.Content) string {
	return strings.Join([]string{
		"📌 *MENÚ PRINCIPAL*",
		"1️⃣ Horarios y atención",
		"2️⃣ Cursos y niveles",
		"3️⃣ Precios y promociones",
		"4️⃣ Inscripciones",
		"5️⃣ Ubicación",
		"6️⃣ Contacto",
		"7️⃣ Medios de pago",
		"—",
		"📚 " + strings.Join(c.Courses, ", "),
		"🎯 " + strings.Join(c.Levels, ", "),
	}, "\n")
}

// Welcome renders the greeting reply, promotion line included when set.
func Welcome(c *config.Content) string {
	var b strings.Builder
	b.WriteString("👋 *¡Bienvenido/a a " + c.Org.Name + "!*\n\n")
	b.WriteString("Para ayudarte más rápido:\n")
	b.WriteString("• Escribe *3* para ver precios\n")
	b.WriteString("• Escribe *4* para inscribirte\n")
	b.WriteString("• O selecciona una opción del menú\n\n")
	b.WriteString("📍 Dirección: " + c.Org.Address + "\n")
	b.WriteString("🕐 Horarios: " + c.Org.OpeningHours + "\n")
	if c.Org.Promotion != "" {
		b.WriteString("🎖️ *Promoción:* " + c.Org.Promotion + "\n")
	}
	b.WriteString("👇 Menú:\n")
	b.WriteString(Menu(c))
	return b.String()
}

// ForIntent renders the templated answer for an intent. FAQ overrides from
// the snapshot win over the built-in templates. The second return is false
// for the general intent, which has no templated answer.
func ForIntent(c *config.Content, tag intent.Intent) (string, bool) {
	if text, ok := c.FAQ[string(tag)]; ok && text != "" {
		return text, true
	}

	switch tag {
	case intent.Schedule:
		return "🕘 *Horarios:* " + c.Org.OpeningHours, true
	case intent.Courses:
		return "📚 *Cursos:* " + strings.Join(c.Courses, ", ") +
			"\n🎯 *Niveles:* " + strings.Join(c.Levels, ", "), true
	case intent.Pricing:
		text := "💵 *Precios:* " + c.Org.Prices
		if c.Org.Promotion != "" {
			text += "\n🎖️ *Promoción:* " + c.Org.Promotion
		}
		return text, true
	case intent.Enrollment:
		steps := make([]string, 0, len(c.EnrollSteps))
		for _, s := range c.EnrollSteps {
			steps = append(steps, "- "+s)
		}
		return "📝 *Inscripciones:*\n" + strings.Join(steps, "\n"), true
	case intent.Location:
		return "📍 Dirección: " + c.Org.Address + "\n📌 Mapa: " + c.Org.MapsLink, true
	case intent.Contact:
		return "☎️ Teléfonos: " + c.Org.Phone + "\n✉️ Email: " + c.Org.Email, true
	case intent.Payment:
		return "💳 *Medios de pago:* " + c.Org.PaymentMethods, true
	}
	return "", false
}

// EnrollmentSummary renders the confirmation recap with all collected fields.
func EnrollmentSummary(d domain.EnrollmentDraft) string {
	return fmt.Sprintf(
		"📋 *Resumen de inscripción:*\n- CI: %s\n- Nombre: %s\n- Curso: %s\n- Nivel: %s\n- Horario: %s\n\n¿Confirmas? (sí/no)",
		d.IdentifierLabel(), d.Name, d.Course, d.Level, d.SchedulePref,
	)
}

// ReservationSummary renders the reservation recap before confirmation.
func ReservationSummary(d domain.ReservationDraft) string {
	when := ""
	if d.When != nil {
		when = d.When.Format("Mon 02/01 15:04")
	}
	return fmt.Sprintf(
		"📋 *Resumen de reserva:*\n- Nombre: %s\n- Fecha y hora: %s\n\n¿Confirmas? (sí/no)",
		d.Name, when,
	)
}

// FormatWhen renders a resolved reservation time for operator notifications.
func FormatWhen(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

// Fixed flow prompts.
const (
	PromptReserveOffer  = "¿Deseas reservar una visita? (sí/no)"
	PromptReserveName   = "Perfecto. ¿Cuál es tu *nombre completo*?"
	PromptReserveTime   = "¿Qué *día y hora* te convienen? (Ej: \"mañana 9\", \"martes 14:30\", \"10:00\")"
	PromptEnrollID      = "Perfecto. Para iniciar tu inscripción, envíame tu *CI* o foto del documento."
	PromptEnrollIDOk    = "Recibido 👍 Ahora envíame tu *nombre completo*."
	PromptEnrollIDText  = "Gracias. Ahora envíame tu *nombre completo*."
	PromptBadName       = "Por favor, envíame tu *nombre y apellido* (solo letras)."
	PromptCourseList    = "Elige el *idioma* que quieres estudiar:"
	PromptCourseRetry   = "Selecciona un *idioma* válido:"
	PromptLevelList     = "Selecciona tu *nivel*:"
	PromptLevelRetry    = "Selecciona un *nivel* válido:"
	PromptSchedulePref  = "¿Qué *horario* prefieres? (Ej: Mañanas / Tardes / Noches)"
	EnrollDone          = "🎉 ¡Inscripción registrada! Te contactaremos para confirmar aula y fecha."
	EnrollCanceled      = "Inscripción cancelada. Puedes iniciar nuevamente escribiendo *inscripción*."
	ReserveDone         = "✅ ¡Reserva registrada! Te esperamos."
	ReserveCanceled     = "Reserva cancelada. Escribe *menú* para ver las opciones."
	RecordWriteFailed   = "😔 No pudimos registrar tus datos, inténtalo de nuevo en un momento."
	ListSectionCourses  = "Idiomas"
	ListSectionLevels   = "Niveles"
)
