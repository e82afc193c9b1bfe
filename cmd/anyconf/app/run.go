package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/0xalexb/anyconf"
	"github.com/0xalexb/anyconf/backend"
	"github.com/0xalexb/anyconf/ioinfo"
	"github.com/0xalexb/anyconf/logging"
	"github.com/0xalexb/anyconf/merge"
	"github.com/0xalexb/anyconf/query"
	"github.com/0xalexb/anyconf/registry"
	"github.com/0xalexb/anyconf/schema"
)

const fallbackOutputType = "json"

var (
	errNoInputs       = errors.New("no input given")
	errSchemaRequired = errors.New("--validate requires --schema")
	errAssignment     = errors.New("expected 'path=value'")
)

func run(cmd *cobra.Command, opts *runOptions, args []string) error {
	out := cmd.OutOrStdout()

	if opts.version {
		_, err := fmt.Fprintln(out, versionLine())

		return err
	}

	logger := logging.NewLogger(logging.LoggerConfig{Level: opts.logLevel, Format: opts.logFormat}, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	loader := anyconf.New(anyconf.WithLogger(logger))
	reg := loader.Registry()

	if opts.list {
		return listTypes(out, reg)
	}

	if len(args) == 0 {
		return errNoInputs
	}

	if opts.validate && opts.schema == "" {
		return errSchemaRequired
	}

	strategy, err := merge.Parse(opts.mergeStrategy)
	if err != nil {
		return err
	}

	callOpts := []anyconf.CallOption{
		anyconf.WithForcedType(reg.ParseForcedType(opts.inputType)),
		anyconf.WithMergeStrategy(strategy),
		anyconf.WithBackendOptions(backendOptions(opts.extraOpts)),
	}

	if opts.ignoreMissing {
		callOpts = append(callOpts, anyconf.WithIgnoreMissing())
	}

	if opts.template {
		callOpts = append(callOpts, anyconf.WithTemplate(nil))
	}

	data, err := loader.MultiLoad(args, callOpts...)
	if err != nil {
		return err
	}

	err = applyArgs(loader, data, opts, strategy)
	if err != nil {
		return err
	}

	for _, assignment := range opts.set {
		err = applySet(data, assignment)
		if err != nil {
			return err
		}
	}

	if opts.schema != "" {
		err = loader.Validate(data, opts.schema)
		if err != nil {
			return err
		}

		if opts.validate {
			logger.Info("validation succeeded", slog.String("schema", opts.schema))

			return nil
		}
	}

	result, err := selectResult(loader, data, opts)
	if err != nil {
		return err
	}

	if opts.genSchema {
		result = schema.Generate(result, opts.strictSchema)
	}

	return write(cmd, loader, result, opts, args)
}

func listTypes(out io.Writer, reg *registry.Registry) error {
	byType := reg.ListByType()

	for _, typ := range reg.Types() {
		ids := make([]string, 0, len(byType[typ]))
		exts := make([]string, 0)

		for _, desc := range byType[typ] {
			ids = append(ids, desc.ComponentID)

			for _, ext := range desc.Extensions {
				if !slices.Contains(exts, ext) {
					exts = append(exts, ext)
				}
			}
		}

		_, err := fmt.Fprintf(out, "%s: %s [%s]\n", typ, strings.Join(ids, ", "), strings.Join(exts, ", "))
		if err != nil {
			return err
		}
	}

	return nil
}

func backendOptions(raw map[string]string) backend.Options {
	opts := make(backend.Options, len(raw))

	for key, val := range raw {
		opts[key] = query.ParseValue(val)
	}

	return opts
}

// applyArgs merges the --args configuration over data.
func applyArgs(loader *anyconf.Loader, data map[string]any, opts *runOptions, strategy merge.Strategy) error {
	if opts.args == "" {
		return nil
	}

	var extra map[string]any

	if opts.argsType != "" {
		parsed, err := loader.Loads(opts.args, anyconf.WithForcedType(loader.Registry().ParseForcedType(opts.argsType)))
		if err != nil {
			return fmt.Errorf("parsing --args: %w", err)
		}

		extra = parsed
	} else {
		extra = map[string]any{}

		for _, assignment := range strings.Split(opts.args, ";") {
			if strings.TrimSpace(assignment) == "" {
				continue
			}

			err := applySet(extra, assignment)
			if err != nil {
				return fmt.Errorf("parsing --args: %w", err)
			}
		}
	}

	return merge.Into(data, extra, strategy)
}

func applySet(data map[string]any, assignment string) error {
	path, raw, ok := strings.Cut(assignment, "=")
	if !ok || strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: %q", errAssignment, assignment)
	}

	return query.Set(data, strings.TrimSpace(path), query.ParseValue(raw))
}

func selectResult(loader *anyconf.Loader, data map[string]any, opts *runOptions) (any, error) {
	switch {
	case opts.get != "":
		return query.Get(data, opts.get)
	case opts.query != "":
		return loader.Query(data, opts.query)
	default:
		return data, nil
	}
}

func write(cmd *cobra.Command, loader *anyconf.Loader, result any, opts *runOptions, inputs []string) error {
	mapping, ok := result.(map[string]any)
	if !ok {
		return writeValue(cmd.OutOrStdout(), result)
	}

	dumpOpts := []anyconf.CallOption{
		anyconf.WithForcedType(outputType(loader.Registry(), opts, inputs)),
		anyconf.WithBackendOptions(backendOptions(opts.extraOpts)),
	}

	if opts.output != "" {
		return loader.Dump(mapping, opts.output, dumpOpts...)
	}

	return loader.Dump(mapping, cmd.OutOrStdout(), dumpOpts...)
}

// writeValue prints a non-mapping result: scalars as text, lists as YAML.
func writeValue(out io.Writer, val any) error {
	switch val.(type) {
	case []any, map[any]any:
		encoded, err := yaml.Marshal(val)
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}

		_, err = out.Write(encoded)

		return err
	case nil:
		_, err := fmt.Fprintln(out, "null")

		return err
	default:
		_, err := fmt.Fprintln(out, val)

		return err
	}
}

// outputType picks --otype, then the output file extension, then --itype,
// then the type of the first input, then json.
func outputType(reg *registry.Registry, opts *runOptions, inputs []string) registry.ForcedType {
	if opts.outputType != "" {
		return reg.ParseForcedType(opts.outputType)
	}

	if opts.output != "" {
		if _, err := reg.FindByExtension(ioinfo.Ext(opts.output)); err == nil {
			return nil
		}
	}

	if opts.inputType != "" {
		return reg.ParseForcedType(opts.inputType)
	}

	for _, input := range inputs {
		desc, err := reg.FindByExtension(ioinfo.Ext(input))
		if err == nil {
			return registry.TypeName(desc.Type)
		}
	}

	return registry.TypeName(fallbackOutputType)
}
