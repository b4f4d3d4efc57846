package intent_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eiescz/idiomasbot/internal/config"
	"github.com/eiescz/idiomasbot/internal/intent"
)

func snapshot(t *testing.T) *config.Snapshot {
	t.Helper()
	s, err := config.NewSnapshot(filepath.Join(t.TempDir(), "content.yaml"))
	require.NoError(t, err)
	return s
}

func TestClassify(t *testing.T) {
	c := intent.New(snapshot(t))

	cases := []struct {
		text string
		want intent.Intent
	}{
		{"a qué hora atienden?", intent.Schedule},
		{"qué idiomas enseñan", intent.Courses},
		{"cuánto cuesta la mensualidad", intent.Pricing},
		{"quiero inscribirme, qué requisitos hay", intent.Enrollment},
		{"dónde quedan", intent.Location},
		{"me pasan su teléfono", intent.Contact},
		{"aceptan qr o transferencia", intent.Payment},
		{"me gusta el chocolate", intent.General},
		{"", intent.General},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(tc.text), "text=%q", tc.text)
	}
}

// Rule order decides ties: "curso" fires before "cuesta" because the courses
// rule precedes the pricing rule.
func TestClassify_RuleOrder(t *testing.T) {
	c := intent.New(snapshot(t))
	assert.Equal(t, intent.Courses, c.Classify("cuánto cuesta el curso de inglés"))
	assert.Equal(t, intent.Schedule, c.Classify("horario del curso"))
}

func TestClassify_Shortcuts(t *testing.T) {
	c := intent.New(snapshot(t))

	want := map[string]intent.Intent{
		"1": intent.Schedule, "2": intent.Courses, "3": intent.Pricing,
		"4": intent.Enrollment, "5": intent.Location, "6": intent.Contact,
		"7": intent.Payment,
	}
	for text, tag := range want {
		assert.Equal(t, tag, c.Classify(text), "text=%q", text)
		assert.Equal(t, tag, c.Classify(" "+text+" "), "padded text=%q", text)
	}

	// Shortcuts are exact, never containment.
	assert.NotEqual(t, intent.Schedule, c.Classify("quiero 1 clase de prueba"))
	assert.Equal(t, intent.General, c.Classify("8"))
}

func TestClassify_DynamicRulesWin(t *testing.T) {
	s := snapshot(t)
	c := intent.New(s)

	assert.Equal(t, intent.General, c.Classify("tienen promo?"))

	require.NoError(t, s.Override(map[string]any{
		"rules": map[string][]string{
			"pagos": {"promo"},
		},
	}))
	assert.Equal(t, intent.Payment, c.Classify("tienen promo?"))

	// A dynamic rule can redirect a trigger the built-ins would claim.
	require.NoError(t, s.Override(map[string]any{
		"rules": map[string][]string{
			"contacto": {"horario"},
		},
	}))
	assert.Equal(t, intent.Contact, c.Classify("cuál es su horario"))
}

func TestClassify_NilSnapshot(t *testing.T) {
	c := intent.New(nil)
	assert.Equal(t, intent.Pricing, c.Classify("precio"))
}
