package anyconf

import (
	"log/slog"

	"dario.cat/mergo"

	"github.com/0xalexb/anyconf/backend"
	"github.com/0xalexb/anyconf/expand"
	"github.com/0xalexb/anyconf/merge"
	"github.com/0xalexb/anyconf/registry"
)

// SchemaValidator validates data against a JSON schema.
type SchemaValidator interface {
	Validate(data any, schema map[string]any) (bool, []error)
}

// TemplateRenderer renders templated configuration text.
type TemplateRenderer interface {
	Render(name string, content []byte, ctx map[string]any) ([]byte, error)
	RenderFile(path string, ctx map[string]any) ([]byte, error)
}

// Querier evaluates a query expression against loaded data.
type Querier interface {
	Query(data map[string]any, expr string) (any, error)
}

// Options holds the collaborators of a Loader.
type Options struct {
	Registry  *registry.Registry
	Validator SchemaValidator
	Renderer  TemplateRenderer
	Querier   Querier
	Logger    *slog.Logger
}

// Option defines a function type for applying Loader options.
type Option func(*Options)

// WithRegistry sets the backend registry. Defaults to registry.Default().
func WithRegistry(reg *registry.Registry) Option {
	return func(opts *Options) {
		opts.Registry = reg
	}
}

// WithValidator sets the schema validator. Passing nil disables schema validation.
func WithValidator(validator SchemaValidator) Option {
	return func(opts *Options) {
		opts.Validator = validator
	}
}

// WithRenderer sets the template renderer. Passing nil disables templating.
func WithRenderer(renderer TemplateRenderer) Option {
	return func(opts *Options) {
		opts.Renderer = renderer
	}
}

// WithQuerier sets the query engine. Passing nil disables queries.
func WithQuerier(querier Querier) Option {
	return func(opts *Options) {
		opts.Querier = querier
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// CallOptions holds the settings of a single load or dump call.
type CallOptions struct {
	// ForcedType skips extension based detection. nil means auto-detect.
	ForcedType registry.ForcedType
	// IgnoreMissing turns missing input files into empty results.
	IgnoreMissing bool
	// MergeStrategy folds multiple inputs. Defaults to merge.Default.
	MergeStrategy merge.Strategy
	// MergeFunc replaces MergeStrategy when set.
	MergeFunc merge.Func
	// Marker makes a string input a glob pattern. Defaults to "*".
	Marker string
	// Template renders inputs through the template renderer before parsing.
	Template bool
	// Context is the template data and the initial value of a multi-load.
	Context map[string]any
	// Schema is a schema file path or an already loaded schema mapping.
	Schema any
	// Unsafe makes schema failures errors instead of nil results.
	Unsafe bool
	// Query is applied to the result. It must yield a mapping.
	Query string
	// Backend holds backend specific options; each backend sees only the keys it knows.
	Backend backend.Options
	// FileLock guards dumps to a path with a sibling ".lock" file.
	FileLock bool
}

// CallOption defines a function type for applying per-call options.
type CallOption func(*CallOptions)

// WithForcedType forces a backend. Use registry.TypeName, registry.ComponentID or registry.Use.
func WithForcedType(forced registry.ForcedType) CallOption {
	return func(opts *CallOptions) {
		opts.ForcedType = forced
	}
}

// WithType forces a backend by type id, e.g. "json".
func WithType(typ string) CallOption {
	return WithForcedType(registry.TypeName(typ))
}

// WithIgnoreMissing makes missing input files load as empty mappings.
func WithIgnoreMissing() CallOption {
	return func(opts *CallOptions) {
		opts.IgnoreMissing = true
	}
}

// WithMergeStrategy sets the strategy used to fold multiple inputs.
func WithMergeStrategy(strategy merge.Strategy) CallOption {
	return func(opts *CallOptions) {
		opts.MergeStrategy = strategy
	}
}

// WithMergeFunc folds multiple inputs with a custom function instead of a strategy.
func WithMergeFunc(fn merge.Func) CallOption {
	return func(opts *CallOptions) {
		opts.MergeFunc = fn
	}
}

// WithMarker sets the character that makes a string input a glob pattern.
func WithMarker(marker string) CallOption {
	return func(opts *CallOptions) {
		opts.Marker = marker
	}
}

// WithTemplate renders inputs as templates with ctx as data.
func WithTemplate(ctx map[string]any) CallOption {
	return func(opts *CallOptions) {
		opts.Template = true
		opts.Context = ctx
	}
}

// WithContext sets the initial mapping multi-loads merge into. The mapping is not modified.
func WithContext(ctx map[string]any) CallOption {
	return func(opts *CallOptions) {
		opts.Context = ctx
	}
}

// WithSchema validates results against a schema given as a path or a mapping.
func WithSchema(schema any) CallOption {
	return func(opts *CallOptions) {
		opts.Schema = schema
	}
}

// WithUnsafe makes schema validation failures errors.
func WithUnsafe() CallOption {
	return func(opts *CallOptions) {
		opts.Unsafe = true
	}
}

// WithQuery applies a query expression to the result.
func WithQuery(expr string) CallOption {
	return func(opts *CallOptions) {
		opts.Query = expr
	}
}

// WithBackendOptions passes options to backends. Keys are merged over earlier calls.
func WithBackendOptions(backendOpts backend.Options) CallOption {
	return func(opts *CallOptions) {
		if opts.Backend == nil {
			opts.Backend = backend.Options{}
		}

		for key, val := range backendOpts {
			opts.Backend[key] = val
		}
	}
}

// WithFileLock holds a lock file next to the target while dumping.
func WithFileLock() CallOption {
	return func(opts *CallOptions) {
		opts.FileLock = true
	}
}

func defaultCallOptions() CallOptions {
	return CallOptions{
		MergeStrategy: merge.Default,
		Marker:        expand.DefaultMarker,
	}
}

func newCallOptions(opts []CallOption) CallOptions {
	var options CallOptions

	for _, apply := range opts {
		apply(&options)
	}

	// Only zero fields are filled; caller values are preserved.
	_ = mergo.Merge(&options, defaultCallOptions())

	return options
}
