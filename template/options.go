package template

import "text/template"

// MissingAction specifies how references to missing context keys render.
type MissingAction int

const (
	// MissingDefault renders "<no value>". This is the default behavior.
	MissingDefault MissingAction = iota

	// MissingZero renders the zero value of the map element type.
	MissingZero

	// MissingError fails rendering.
	MissingError
)

func (a MissingAction) option() string {
	switch a {
	case MissingZero:
		return "missingkey=zero"
	case MissingError:
		return "missingkey=error"
	default:
		return "missingkey=default"
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMissingAction sets how missing context keys are handled.
//
// Default: MissingDefault
func WithMissingAction(action MissingAction) Option {
	return func(r *Renderer) {
		r.missingAction = action
	}
}

// WithDelims changes the action delimiters, "{{" and "}}" by default.
//
// Example:
//
//	r := NewRenderer(WithDelims("[[", "]]"))
//	out, _ := r.Render("x", []byte("port: [[ .port ]]"), map[string]any{"port": 80})
//	// out: "port: 80"
func WithDelims(left, right string) Option {
	return func(r *Renderer) {
		r.left, r.right = left, right
	}
}

// WithFuncs adds template functions on top of the sprig set.
// Functions given here override sprig functions of the same name.
func WithFuncs(funcs template.FuncMap) Option {
	return func(r *Renderer) {
		for name, fn := range funcs {
			r.funcs[name] = fn
		}
	}
}
