// Package yaml provides the "yaml.goccy" backend built on github.com/goccy/go-yaml.
//
// Besides whole-document loading, the backend accepts a "path" load option that
// selects a nested section before decoding. Paths use colon (:) as the separator
// and are converted to goccy/go-yaml PathString format internally:
//   - "" -> entire document
//   - "key" -> "$.key"
//   - "api:permissions" -> "$.api.permissions"
//
// Recognized options:
//   - load: "strict" (goccy/go-yaml strict decoding), "path"
//   - dump: "indent", "flow"
package yaml
