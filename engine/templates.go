package engine

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// Templater renders output files.
type Templater interface {
	// AddTemplate makes text available to other templates under name.
	AddTemplate(name, text string) error
	// Render expands text against context.
	Render(name, text string, context map[string]string) (string, error)
}

// Templates is Templater based on text/template. Registered templates could
// be invoked from rendered ones with {{ template "name" . }}.
type Templates struct {
	root *template.Template
}

func NewTemplates() *Templates {
	return &Templates{
		root: template.New("").Funcs(sprig.FuncMap()).Option("missingkey=zero"),
	}
}

func (t *Templates) AddTemplate(name, text string) error {
	if _, err := t.root.New(name).Parse(text); err != nil {
		return fmt.Errorf("unable to parse template '%s': %w", name, err)
	}
	return nil
}

func (t *Templates) Render(name, text string, context map[string]string) (string, error) {
	set, err := t.root.Clone()
	if err != nil {
		return "", fmt.Errorf("unable to prepare template '%s': %w", name, err)
	}
	tmpl, err := set.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("unable to parse template '%s': %w", name, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, context); err != nil {
		return "", fmt.Errorf("unable to render template '%s': %w", name, err)
	}
	return buf.String(), nil
}
