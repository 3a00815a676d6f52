package catalog

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petrijr/blockflow/pkg/api"
)

// fileTemplate is the on-disk form of a template.
type fileTemplate struct {
	Kind              string `yaml:"kind"`
	Label             string `yaml:"label"`
	Icon              string `yaml:"icon"`
	Color             string `yaml:"color"`
	Description       string `yaml:"description"`
	EstimatedDuration string `yaml:"estimated_duration"`
}

type file struct {
	Templates []fileTemplate `yaml:"templates"`
}

// Load parses a YAML palette definition:
//
//	templates:
//	  - kind: SAMPLE_PREP
//	    label: Sample Preparation
//	    icon: flask
//	    color: blue
//	    description: Prepare samples
//	    estimated_duration: 10s
func Load(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	templates := make([]api.Template, 0, len(f.Templates))
	for _, ft := range f.Templates {
		d, err := time.ParseDuration(ft.EstimatedDuration)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: estimated_duration: %v", ErrInvalidTemplate, ft.Kind, err)
		}
		label := ft.Label
		if label == "" {
			label = ft.Kind
		}
		templates = append(templates, api.Template{
			Kind:              ft.Kind,
			Label:             label,
			Icon:              ft.Icon,
			Color:             ft.Color,
			Description:       ft.Description,
			EstimatedDuration: d,
		})
	}

	return New(templates...)
}

// LoadFile reads a YAML palette definition from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Load(f)
}
