// Package catalog holds the palette of step templates a user can drag onto
// the canvas.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/petrijr/blockflow/pkg/api"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidTemplate  = errors.New("invalid template")
	ErrDuplicateKind    = errors.New("duplicate template kind")
)

// Catalog is an immutable, ordered set of templates keyed by kind.
type Catalog struct {
	templates []api.Template
	byKind    map[string]int
}

// New validates the given templates and builds a Catalog preserving their
// order.
func New(templates ...api.Template) (*Catalog, error) {
	c := &Catalog{
		templates: make([]api.Template, 0, len(templates)),
		byKind:    make(map[string]int, len(templates)),
	}

	for _, t := range templates {
		if t.Kind == "" {
			return nil, fmt.Errorf("%w: kind is required", ErrInvalidTemplate)
		}
		if t.EstimatedDuration <= 0 {
			return nil, fmt.Errorf("%w: %s: estimated duration must be positive, got %s",
				ErrInvalidTemplate, t.Kind, t.EstimatedDuration)
		}
		if _, dup := c.byKind[t.Kind]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, t.Kind)
		}
		c.byKind[t.Kind] = len(c.templates)
		c.templates = append(c.templates, t)
	}

	return c, nil
}

// Templates returns the templates in palette order.
func (c *Catalog) Templates() []api.Template {
	out := make([]api.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Lookup returns the template registered under kind.
func (c *Catalog) Lookup(kind string) (api.Template, error) {
	i, ok := c.byKind[kind]
	if !ok {
		return api.Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, kind)
	}
	return c.templates[i], nil
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// Default returns the built-in laboratory palette.
func Default() *Catalog {
	c, err := New(defaultTemplates...)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultTemplates = []api.Template{
	{
		Kind:              "SAMPLE_PREP",
		Label:             "Sample Preparation",
		Icon:              "flask",
		Color:             "blue",
		Description:       "Prepare and label samples for processing",
		EstimatedDuration: 10 * time.Second,
	},
	{
		Kind:              "INCUBATION",
		Label:             "Incubation",
		Icon:              "thermometer",
		Color:             "orange",
		Description:       "Incubate samples at controlled temperature",
		EstimatedDuration: 15 * time.Second,
	},
	{
		Kind:              "CENTRIFUGE",
		Label:             "Centrifugation",
		Icon:              "rotate",
		Color:             "purple",
		Description:       "Separate components by centrifugal force",
		EstimatedDuration: 8 * time.Second,
	},
	{
		Kind:              "MEASUREMENT",
		Label:             "Measurement",
		Icon:              "gauge",
		Color:             "green",
		Description:       "Record instrument readings",
		EstimatedDuration: 5 * time.Second,
	},
	{
		Kind:              "ANALYSIS",
		Label:             "Data Analysis",
		Icon:              "chart",
		Color:             "teal",
		Description:       "Analyze collected measurements",
		EstimatedDuration: 12 * time.Second,
	},
	{
		Kind:              "REPORT",
		Label:             "Report",
		Icon:              "document",
		Color:             "gray",
		Description:       "Summarize results into a report",
		EstimatedDuration: 4 * time.Second,
	},
}
