// Package form provides the small set of typed form fields the search form is
// built from: bound from request values, cleaned, and rendered back as choices.
package form

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Widget names how a field is meant to be rendered.
type Widget string

// Widget constants.
const (
	WidgetSearchInput            Widget = "search"
	WidgetCheckboxSelectMultiple Widget = "checkbox_select_multiple"
	WidgetSelectMultiple         Widget = "select_multiple"
	WidgetHidden                 Widget = "hidden"
)

// Validation errors.
var (
	ErrRequired      = errors.New("this field is required")
	ErrTooLong       = errors.New("value too long")
	ErrInvalidChoice = errors.New("select a valid choice")
)

// Choice is a selectable (value, label) pair.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ChoicesFromValues builds choices whose label equals their value.
func ChoicesFromValues(values []string) []Choice {
	choices := make([]Choice, 0, len(values))
	for _, v := range values {
		choices = append(choices, Choice{Value: v, Label: v})
	}
	return choices
}

// Errors maps field names to their validation messages.
type Errors map[string][]string

// Add records an error for a field.
func (e Errors) Add(name string, err error) {
	e[name] = append(e[name], err.Error())
}

// Has reports whether the field has errors.
func (e Errors) Has(name string) bool { return len(e[name]) > 0 }

// CharField is a single free-text input.
type CharField struct {
	Name      string
	Label     string
	Required  bool
	MaxLength int
	Widget    Widget
}

// Clean returns the whitespace-trimmed first value.
func (f *CharField) Clean(raw []string) (string, error) {
	var v string
	if len(raw) > 0 {
		v = strings.TrimSpace(raw[0])
	}
	if v == "" && f.Required {
		return "", ErrRequired
	}
	if f.MaxLength > 0 && utf8.RuneCountInString(v) > f.MaxLength {
		return "", fmt.Errorf("%w (max %d characters)", ErrTooLong, f.MaxLength)
	}
	return v, nil
}

// MultipleChoiceField selects any number of values from a fixed choice list.
type MultipleChoiceField struct {
	Name     string
	Label    string
	Required bool
	Widget   Widget
	choices  []Choice
}

// NewMultipleChoiceField creates a field with the given choices.
func NewMultipleChoiceField(name, label string, widget Widget, required bool, choices []Choice) MultipleChoiceField {
	f := MultipleChoiceField{Name: name, Label: label, Widget: widget, Required: required}
	f.SetChoices(choices)
	return f
}

// SetChoices replaces the field's choices.
func (f *MultipleChoiceField) SetChoices(choices []Choice) {
	f.choices = append([]Choice(nil), choices...)
}

// Choices returns a copy of the field's choices.
func (f *MultipleChoiceField) Choices() []Choice {
	return append([]Choice(nil), f.choices...)
}

// Clean validates each submitted value against the choices. Empty strings are
// dropped; duplicates keep their first position.
func (f *MultipleChoiceField) Clean(raw []string) ([]string, error) {
	valid := make(map[string]bool, len(f.choices))
	for _, c := range f.choices {
		valid[c.Value] = true
	}

	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, v := range raw {
		if v == "" || seen[v] {
			continue
		}
		if !valid[v] {
			return nil, fmt.Errorf("%w: %q is not one of the available choices", ErrInvalidChoice, v)
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 && f.Required {
		return nil, ErrRequired
	}
	return out, nil
}
