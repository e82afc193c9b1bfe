package anyconf

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/0xalexb/anyconf/backend"
	"github.com/0xalexb/anyconf/expand"
	"github.com/0xalexb/anyconf/ioinfo"
	"github.com/0xalexb/anyconf/merge"
	"github.com/0xalexb/anyconf/query"
	"github.com/0xalexb/anyconf/registry"
	"github.com/0xalexb/anyconf/schema"
	"github.com/0xalexb/anyconf/template"
)

// Capabilities reports which optional collaborators a Loader has.
type Capabilities struct {
	Schema   bool
	Template bool
	Query    bool
}

// Loader loads and dumps configuration through a backend registry.
// A Loader is safe for concurrent use.
type Loader struct {
	registry  *registry.Registry
	validator SchemaValidator
	renderer  TemplateRenderer
	querier   Querier
	logger    *slog.Logger
	caps      Capabilities
}

// New creates a Loader. Without options it uses registry.Default and the
// gojsonschema validator, text/template renderer and gjson query engine.
func New(opts ...Option) *Loader {
	options := Options{
		Validator: schema.NewValidator(),
		Renderer:  template.NewRenderer(),
		Querier:   query.NewEngine(),
	}

	for _, apply := range opts {
		apply(&options)
	}

	if options.Registry == nil {
		options.Registry = registry.Default()
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Loader{
		registry:  options.Registry,
		validator: options.Validator,
		renderer:  options.Renderer,
		querier:   options.Querier,
		logger:    options.Logger,
		caps: Capabilities{
			Schema:   options.Validator != nil,
			Template: options.Renderer != nil,
			Query:    options.Querier != nil,
		},
	}
}

// Registry returns the registry the Loader resolves backends from.
func (l *Loader) Registry() *registry.Registry {
	return l.registry
}

// Capabilities returns the optional features available to the Loader.
func (l *Loader) Capabilities() Capabilities {
	return l.caps
}

// SingleLoad loads one input: a path, a named file or a stream.
//
// With WithIgnoreMissing a path that does not exist loads as an empty mapping.
// With a schema, an invalid result is returned as nil with a nil error unless
// WithUnsafe is set.
func (l *Loader) SingleLoad(input any, opts ...CallOption) (map[string]any, error) {
	options := newCallOptions(opts)

	info, err := ioinfo.Make(input)
	if err != nil {
		return nil, err
	}

	b, err := l.registry.Resolve(info, options.ForcedType)
	if err != nil {
		return nil, err
	}

	data, err := l.loadOne(info, b, options)
	if err != nil {
		return nil, err
	}

	return l.finish(data, options)
}

// MultiLoad expands inputs (glob patterns, directories, lists) and merges
// every loaded mapping into one result, in expansion order. The result is
// never nil on success, even when nothing matched.
func (l *Loader) MultiLoad(inputs any, opts ...CallOption) (map[string]any, error) {
	options := newCallOptions(opts)

	infos, err := expand.Paths(inputs, options.Marker, l.claims)
	if err != nil {
		return nil, err
	}

	forced := options.ForcedType
	if forced == nil && len(infos) > 1 && sameExtension(infos) {
		b, err := l.registry.Resolve(infos[0], nil)
		if err != nil {
			return nil, err
		}

		forced = registry.Use(b)
	}

	acc, err := merge.Merged(nil, options.Context, merge.Replace)
	if err != nil {
		return nil, err
	}

	for _, info := range infos {
		b, err := l.registry.Resolve(info, forced)
		if err != nil {
			return nil, err
		}

		data, err := l.loadOne(info, b, options)
		if err != nil {
			return nil, err
		}

		err = l.fold(acc, data, options)
		if err != nil {
			return nil, err
		}
	}

	l.logger.Debug("multi-load finished", slog.Int("inputs", len(infos)), slog.Int("keys", len(acc)))

	return l.finish(acc, options)
}

// Load dispatches to MultiLoad for lists and for strings holding the glob
// marker, and to SingleLoad otherwise. The decision is syntactic only.
func (l *Loader) Load(input any, opts ...CallOption) (map[string]any, error) {
	options := newCallOptions(opts)

	if expand.IsMulti(input, options.Marker) {
		return l.MultiLoad(input, opts...)
	}

	return l.SingleLoad(input, opts...)
}

// Loads parses content held in memory. A forced type is required.
func (l *Loader) Loads(content string, opts ...CallOption) (map[string]any, error) {
	options := newCallOptions(opts)

	if options.ForcedType == nil {
		return nil, fmt.Errorf("%w: loading a string needs a forced type", ErrNoInput)
	}

	b, err := l.registry.Resolve(ioinfo.Info{}, options.ForcedType)
	if err != nil {
		return nil, err
	}

	raw := []byte(content)
	if options.Template {
		raw = l.tryRender(raw, "", options.Context)
	}

	data, err := backend.LoadString(b, raw, options.Backend)
	if err != nil {
		return nil, err
	}

	return l.finish(data, options)
}

// Query evaluates expr against data with the Loader's query engine.
// Without a query engine data is returned unchanged.
func (l *Loader) Query(data map[string]any, expr string) (any, error) {
	if expr == "" {
		return data, nil
	}

	if !l.caps.Query {
		l.logger.Warn("query support is not available, returning data unchanged", slog.String("query", expr))

		return data, nil
	}

	out, err := l.querier.Query(data, expr)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expr, err)
	}

	return out, nil
}

// Validate checks data against a schema given as a path or a mapping.
// The returned error wraps ErrValidation when data is invalid.
func (l *Loader) Validate(data any, schemaSource any) error {
	if !l.caps.Schema {
		l.logger.Warn("schema validation is not available, skipping")

		return nil
	}

	doc, err := l.schemaDocument(schemaSource)
	if err != nil {
		return err
	}

	ok, errs := l.validator.Validate(data, doc)
	if ok {
		return nil
	}

	joined := errors.Join(errs...)

	switch {
	case joined == nil:
		return ErrValidation
	case errors.Is(joined, ErrValidation), errors.Is(joined, schema.ErrInvalidSchema):
		return joined
	default:
		return fmt.Errorf("%w: %w", ErrValidation, joined)
	}
}

// loadOne loads a single resolved input without schema or query handling.
func (l *Loader) loadOne(info ioinfo.Info, b backend.Backend, options CallOptions) (map[string]any, error) {
	if options.IgnoreMissing && info.IsPath() && !info.Exists() {
		l.logger.Debug("ignoring missing input", slog.String("path", info.Path))

		return map[string]any{}, nil
	}

	if options.Template && info.Path != "" {
		rendered, ok := l.tryRenderFile(info.Path, options.Context)
		if ok {
			return backend.LoadString(b, rendered, options.Backend)
		}
	}

	return backend.Load(b, info, options.Backend)
}

func (l *Loader) fold(acc, data map[string]any, options CallOptions) error {
	if options.MergeFunc != nil {
		return merge.IntoFunc(acc, data, options.MergeFunc)
	}

	return merge.Into(acc, data, options.MergeStrategy)
}

// finish applies schema validation and the query to a loaded result.
func (l *Loader) finish(data map[string]any, options CallOptions) (map[string]any, error) {
	if data == nil {
		data = map[string]any{}
	}

	if options.Schema != nil {
		err := l.Validate(data, options.Schema)
		if err != nil {
			if options.Unsafe || !errors.Is(err, ErrValidation) {
				return nil, err
			}

			l.logger.Warn("configuration failed schema validation", slog.String("error", err.Error()))

			return nil, nil //nolint:nilnil // invalid data in safe mode is a nil result, not an error
		}
	}

	if options.Query == "" {
		return data, nil
	}

	out, err := l.Query(data, options.Query)
	if err != nil {
		return nil, err
	}

	mapping, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q yields %T", ErrQueryResult, options.Query, out)
	}

	return mapping, nil
}

func (l *Loader) schemaDocument(source any) (map[string]any, error) {
	if doc, ok := source.(map[string]any); ok {
		return doc, nil
	}

	doc, err := l.SingleLoad(source)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	return doc, nil
}

func (l *Loader) tryRenderFile(path string, ctx map[string]any) ([]byte, bool) {
	if !l.caps.Template {
		l.logger.Warn("template support is not available, loading as-is", slog.String("path", path))

		return nil, false
	}

	out, err := l.renderer.RenderFile(path, ctx)
	if err != nil {
		l.logger.Warn("failed to render template, loading as-is",
			slog.String("path", path), slog.String("error", err.Error()))

		return nil, false
	}

	return out, true
}

func (l *Loader) tryRender(content []byte, name string, ctx map[string]any) []byte {
	if !l.caps.Template {
		l.logger.Warn("template support is not available, loading as-is")

		return content
	}

	if name == "" {
		name = "<string>"
	}

	out, err := l.renderer.Render(name, content, ctx)
	if err != nil {
		l.logger.Warn("failed to render template, loading as-is", slog.String("error", err.Error()))

		return content
	}

	return out
}

// claims reports whether any registered backend handles ext.
func (l *Loader) claims(ext string) bool {
	_, err := l.registry.FindByExtension(ext)

	return err == nil
}

func sameExtension(infos []ioinfo.Info) bool {
	first := infos[0].Extension
	if first == "" {
		return false
	}

	for _, info := range infos[1:] {
		if info.Extension != first {
			return false
		}
	}

	return true
}
