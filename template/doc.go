// Package template renders templated configuration text before it is parsed.
//
// Templates use text/template syntax with the sprig function set from
// github.com/go-task/slim-sprig/v3, so values such as
//
//	port: {{ .port | default 8080 }}
//	home: {{ env "HOME" }}
//
// are resolved against a caller supplied context mapping.
//
// Basic usage:
//
//	r := template.NewRenderer(template.WithMissingAction(template.MissingError))
//	out, err := r.Render("app.yml", content, map[string]any{"port": 80})
package template
