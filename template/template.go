package template

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// ErrRender is returned when a template fails to parse or execute.
var ErrRender = errors.New("template rendering failed")

// Renderer renders configuration text through text/template with the sprig
// function set. A Renderer is safe for concurrent use after construction.
type Renderer struct {
	missingAction MissingAction
	left, right   string
	funcs         template.FuncMap
}

// NewRenderer creates a Renderer with the given options.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		missingAction: MissingDefault,
		funcs:         sprig.TxtFuncMap(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render executes content as a template named name with ctx as its data.
func (r *Renderer) Render(name string, content []byte, ctx map[string]any) ([]byte, error) {
	return r.render(name, content, ctx, "")
}

// RenderFile renders the file at path. Inside the file, the include function
// renders another file, resolved relative to the including file, with the
// given data: {{ include "common.yml" . }}.
func (r *Renderer) RenderFile(path string, ctx map[string]any) ([]byte, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- rendering user supplied config files is the purpose
	if err != nil {
		return nil, fmt.Errorf("reading template %q: %w", path, err)
	}

	return r.render(filepath.Base(path), content, ctx, filepath.Dir(path))
}

func (r *Renderer) render(name string, content []byte, ctx map[string]any, dir string) ([]byte, error) {
	if ctx == nil {
		ctx = map[string]any{}
	}

	tmpl := template.New(name).
		Option(r.missingAction.option()).
		Delims(r.left, r.right).
		Funcs(r.funcs)

	if dir != "" {
		tmpl = tmpl.Funcs(template.FuncMap{
			"include": func(rel string, data any) (string, error) {
				return r.include(dir, rel, data)
			},
		})
	}

	tmpl, err := tmpl.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrRender, name, err)
	}

	var buf bytes.Buffer

	err = tmpl.Execute(&buf, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: executing %s: %w", ErrRender, name, err)
	}

	return buf.Bytes(), nil
}

func (r *Renderer) include(dir, rel string, data any) (string, error) {
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, rel)
	}

	ctx, _ := data.(map[string]any)

	out, err := r.RenderFile(path, ctx)
	if err != nil {
		return "", err
	}

	return string(out), nil
}
