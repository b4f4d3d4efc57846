package config

import (
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Org holds the organization facts substituted into templated answers.
type Org struct {
	Name           string  `yaml:"name" mapstructure:"name"`
	City           string  `yaml:"city" mapstructure:"city"`
	Address        string  `yaml:"address" mapstructure:"address"`
	MapsLink       string  `yaml:"maps_link" mapstructure:"maps_link"`
	Phone          string  `yaml:"phone" mapstructure:"phone"`
	Email          string  `yaml:"email" mapstructure:"email"`
	OpeningHours   string  `yaml:"opening_hours" mapstructure:"opening_hours"`
	Prices         string  `yaml:"prices" mapstructure:"prices"`
	PaymentMethods string  `yaml:"payment_methods" mapstructure:"payment_methods"`
	Promotion      string  `yaml:"promotion" mapstructure:"promotion"`
	Latitude       float64 `yaml:"latitude" mapstructure:"latitude"`
	Longitude      float64 `yaml:"longitude" mapstructure:"longitude"`
}

// Rule maps an intent tag to its trigger substrings. Rules are ordered: the
// first rule whose trigger occurs in the message wins.
type Rule struct {
	Intent   string   `yaml:"intent" mapstructure:"intent"`
	Triggers []string `yaml:"triggers" mapstructure:"triggers"`
}

// Content is one immutable snapshot of the operator-editable configuration.
// Snapshots are swapped whole; nothing mutates a published snapshot.
type Content struct {
	Org         Org               `yaml:"org"`
	Courses     []string          `yaml:"courses"`
	Levels      []string          `yaml:"levels"`
	EnrollSteps []string          `yaml:"enroll_steps"`
	Rules       []Rule            `yaml:"rules"`
	FAQ         map[string]string `yaml:"faq"`
}

// DefaultContent mirrors the fallback values used when no content file exists.
func DefaultContent() *Content {
	return &Content{
		Org: Org{
			Name:           "Escuela de Idiomas del Ejército - Filial Santa Cruz",
			City:           "Santa Cruz",
			Address:        "FINAL Calle Taperas, 2do. Anillo detrás del INE, Santa Cruz",
			MapsLink:       "https://maps.app.goo.gl/TRStYJHnt6U5urkr6",
			Phone:          "+59178024823",
			Email:          "idiomas.scz@emi.edu.bo",
			OpeningHours:   "Lun–Vie 08:00–17:00",
			Prices:         "Matrícula Bs 230; Mensualidad Bs 330; Material Bs 70",
			PaymentMethods: "Efectivo, Transferencia, QR",
			Latitude:       -17.776126747602,
			Longitude:      -63.167443644971414,
		},
		Courses: []string{"Inglés", "Chino", "Francés", "Portugués"},
		Levels:  []string{"A1", "A2", "B1", "B2"},
		EnrollSteps: []string{
			"Enviar foto de CI",
			"Llenar formulario",
			"Realizar pago",
			"Confirmación de aula",
		},
		FAQ: map[string]string{},
	}
}

// Snapshot is the process-wide holder of the current Content. Readers grab
// the current pointer once per turn; Reload and Override atomically publish a
// new snapshot.
type Snapshot struct {
	path string
	cur  atomic.Pointer[Content]
}

// NewSnapshot loads the content file at path, falling back to defaults when
// the file does not exist.
func NewSnapshot(path string) (*Snapshot, error) {
	s := &Snapshot{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the live snapshot. Never nil.
func (s *Snapshot) Current() *Content {
	return s.cur.Load()
}

// Reload re-reads the content file and swaps the snapshot. A missing file
// resets to defaults; a malformed file is an error and the previous snapshot
// stays live.
func (s *Snapshot) Reload() error {
	c := DefaultContent()

	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return fmt.Errorf("read content file: %w", err)
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse content file: %w", err)
		}
	}

	s.cur.Store(c)
	return nil
}

// Override merges operator-supplied faq texts and intent rules over the live
// snapshot and publishes the result. The incoming rules replace any existing
// rule for the same intent and otherwise append, keeping rule order stable.
func (s *Snapshot) Override(raw map[string]any) error {
	var patch struct {
		FAQ   map[string]string   `mapstructure:"faq"`
		Rules map[string][]string `mapstructure:"rules"`
	}
	if err := mapstructure.Decode(raw, &patch); err != nil {
		return fmt.Errorf("decode override: %w", err)
	}

	old := s.Current()
	next := *old

	if len(patch.FAQ) > 0 {
		next.FAQ = make(map[string]string, len(old.FAQ)+len(patch.FAQ))
		for k, v := range old.FAQ {
			next.FAQ[k] = v
		}
		for k, v := range patch.FAQ {
			next.FAQ[k] = v
		}
	}

	if len(patch.Rules) > 0 {
		next.Rules = make([]Rule, 0, len(old.Rules)+len(patch.Rules))
		seen := make(map[string]bool, len(patch.Rules))
		for _, r := range old.Rules {
			if triggers, ok := patch.Rules[r.Intent]; ok {
				next.Rules = append(next.Rules, Rule{Intent: r.Intent, Triggers: triggers})
				seen[r.Intent] = true
				continue
			}
			next.Rules = append(next.Rules, r)
		}
		fresh := make([]string, 0, len(patch.Rules))
		for intent := range patch.Rules {
			if !seen[intent] {
				fresh = append(fresh, intent)
			}
		}
		sort.Strings(fresh)
		for _, intent := range fresh {
			next.Rules = append(next.Rules, Rule{Intent: intent, Triggers: patch.Rules[intent]})
		}
	}

	s.cur.Store(&next)
	return nil
}
