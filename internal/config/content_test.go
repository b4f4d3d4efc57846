package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eiescz/idiomasbot/internal/config"
)

func TestNewSnapshot_MissingFileUsesDefaults(t *testing.T) {
	s, err := config.NewSnapshot(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	c := s.Current()
	assert.NotEmpty(t, c.Org.Name)
	assert.Equal(t, []string{"Inglés", "Chino", "Francés", "Portugués"}, c.Courses)
	assert.Equal(t, []string{"A1", "A2", "B1", "B2"}, c.Levels)
	assert.Len(t, c.EnrollSteps, 4)
}

func TestSnapshot_ReloadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
org:
  name: Academia Norte
  phone: "+59170000000"
courses: [Alemán, Italiano]
faq:
  horarios: "Solo por la mañana."
`), 0o644))

	s, err := config.NewSnapshot(path)
	require.NoError(t, err)

	c := s.Current()
	assert.Equal(t, "Academia Norte", c.Org.Name)
	assert.Equal(t, []string{"Alemán", "Italiano"}, c.Courses)
	assert.Equal(t, "Solo por la mañana.", c.FAQ["horarios"])

	// Edit and reload: the new snapshot is published atomically.
	require.NoError(t, os.WriteFile(path, []byte("org:\n  name: Academia Sur\n"), 0o644))
	require.NoError(t, s.Reload())
	assert.Equal(t, "Academia Sur", s.Current().Org.Name)
}

func TestSnapshot_ReloadMalformedKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("org:\n  name: Academia Norte\n"), 0o644))

	s, err := config.NewSnapshot(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("org: [not: a: mapping"), 0o644))
	assert.Error(t, s.Reload())
	assert.Equal(t, "Academia Norte", s.Current().Org.Name)
}

func TestSnapshot_Override(t *testing.T) {
	s, err := config.NewSnapshot(filepath.Join(t.TempDir(), "content.yaml"))
	require.NoError(t, err)

	require.NoError(t, s.Override(map[string]any{
		"faq":   map[string]string{"precios": "Promo vigente."},
		"rules": map[string][]string{"pagos": {"promo"}},
	}))

	c := s.Current()
	assert.Equal(t, "Promo vigente.", c.FAQ["precios"])
	require.Len(t, c.Rules, 1)
	assert.Equal(t, "pagos", c.Rules[0].Intent)
	assert.Equal(t, []string{"promo"}, c.Rules[0].Triggers)

	// Same intent replaces in place; a new intent appends.
	require.NoError(t, s.Override(map[string]any{
		"rules": map[string][]string{
			"pagos":    {"promo", "descuento"},
			"contacto": {"whatsapp"},
		},
	}))
	c = s.Current()
	require.Len(t, c.Rules, 2)
	assert.Equal(t, "pagos", c.Rules[0].Intent)
	assert.Equal(t, []string{"promo", "descuento"}, c.Rules[0].Triggers)
	assert.Equal(t, "contacto", c.Rules[1].Intent)
}

func TestSnapshot_OverrideBadShape(t *testing.T) {
	s, err := config.NewSnapshot(filepath.Join(t.TempDir(), "content.yaml"))
	require.NoError(t, err)
	assert.Error(t, s.Override(map[string]any{"rules": "not a map"}))
}
