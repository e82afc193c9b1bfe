// Package schema validates configuration mappings against JSON schemas and
// infers schemas from sample data. Validation is done by
// github.com/xeipuuv/gojsonschema.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrValidation is returned when data does not satisfy its schema.
	ErrValidation = errors.New("schema validation failed")
	// ErrInvalidSchema is returned when the schema itself cannot be compiled.
	ErrInvalidSchema = errors.New("invalid schema")
)

// Validator checks data against JSON schema documents.
type Validator struct{}

// NewValidator returns a gojsonschema backed validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate reports whether data satisfies schema. On failure every violation
// is returned as an error wrapping ErrValidation, or a single ErrInvalidSchema
// error when the schema does not compile.
func (v *Validator) Validate(data any, schema map[string]any) (bool, []error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(data))
	if err != nil {
		return false, []error{fmt.Errorf("%w: %w", ErrInvalidSchema, err)}
	}

	if result.Valid() {
		return true, nil
	}

	errs := make([]error, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, fmt.Errorf("%w: %s", ErrValidation, desc.String()))
	}

	return false, errs
}

// Check is Validate folded into a single error, nil when data is valid.
func (v *Validator) Check(data any, schema map[string]any) error {
	ok, errs := v.Validate(data, schema)
	if ok {
		return nil
	}

	return errors.Join(errs...)
}

// Generate infers a JSON schema describing data. In strict mode objects list
// all their keys as required and arrays carry minItems.
func Generate(data any, strict bool) map[string]any {
	out := generate(data, strict)
	out["$schema"] = "http://json-schema.org/draft-07/schema#"

	return out
}

func generate(data any, strict bool) map[string]any {
	switch val := data.(type) {
	case nil:
		return map[string]any{"type": "null"}
	case bool:
		return map[string]any{"type": "boolean"}
	case string:
		return map[string]any{"type": "string"}
	case map[string]any:
		return object(val, strict)
	case []any:
		return array(val, strict)
	}

	rv := reflect.ValueOf(data)

	switch rv.Kind() { //nolint:exhaustive // remaining kinds fall back to string
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); f == float64(int64(f)) {
			return map[string]any{"type": "integer"}
		}

		return map[string]any{"type": "number"}
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range rv.Len() {
			items[i] = rv.Index(i).Interface()
		}

		return array(items, strict)
	default:
		return map[string]any{"type": "string"}
	}
}

func object(val map[string]any, strict bool) map[string]any {
	props := make(map[string]any, len(val))
	keys := make([]string, 0, len(val))

	for key, item := range val {
		props[key] = generate(item, strict)
		keys = append(keys, key)
	}

	out := map[string]any{"type": "object", "properties": props}

	if strict && len(keys) > 0 {
		slices.Sort(keys)

		required := make([]any, len(keys))
		for i, key := range keys {
			required[i] = key
		}

		out["required"] = required
	}

	return out
}

func array(val []any, strict bool) map[string]any {
	items := map[string]any{"type": "string"}
	if len(val) > 0 {
		items = generate(val[0], strict)
	}

	out := map[string]any{"type": "array", "items": items}

	if strict {
		out["minItems"] = len(val)
	}

	return out
}
