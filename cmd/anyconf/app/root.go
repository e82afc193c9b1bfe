// Package app provides the entry point for the anyconf command-line application.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/0xalexb/anyconf"
	"github.com/0xalexb/anyconf/merge"
)

// runOptions holds the parsed command line flags.
type runOptions struct {
	inputType     string
	outputType    string
	argsType      string
	args          string
	mergeStrategy string
	schema        string
	validate      bool
	genSchema     bool
	strictSchema  bool
	query         string
	get           string
	set           []string
	output        string
	ignoreMissing bool
	template      bool
	extraOpts     map[string]string
	list          bool
	version       bool
	logLevel      string
	logFormat     string
}

// NewRootCmd creates the root command for the anyconf CLI.
func NewRootCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:               "anyconf [flags] INPUT...",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Load, merge, validate and convert configuration files",
		Long: `anyconf loads configuration files of any supported format, merges them
in the order given and writes the result in the requested format.

Inputs may be paths, glob patterns such as 'conf.d/*.yml' or directories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	addFlags(cmd.Flags(), opts)
	cmd.MarkFlagsMutuallyExclusive("query", "get")
	cmd.MarkFlagsMutuallyExclusive("validate", "gen-schema")

	return cmd
}

func addFlags(flags *pflag.FlagSet, opts *runOptions) {
	flags.StringVarP(&opts.inputType, "itype", "I", "", "Input type or component id (default: detect from extension)")
	flags.StringVarP(&opts.outputType, "otype", "O", "", "Output type or component id (default: detect from output or input)")
	flags.StringVarP(&opts.args, "args", "A", "",
		"Extra configuration merged over the inputs, 'a.b=1;c=x' or a document of --atype")
	flags.StringVar(&opts.argsType, "atype", "", "Type of the --args document")
	flags.StringVar(&opts.mergeStrategy, "merge", string(merge.Default),
		"Merge strategy: replace, noreplace, merge_dicts or merge_dicts_and_lists")
	flags.StringVar(&opts.schema, "schema", "", "JSON schema file to validate the result against")
	flags.BoolVar(&opts.validate, "validate", false, "Only validate the result against --schema")
	flags.BoolVar(&opts.genSchema, "gen-schema", false, "Write a JSON schema generated from the result")
	flags.BoolVar(&opts.strictSchema, "strict", false, "Generate a strict schema (required keys, minItems)")
	flags.StringVarP(&opts.query, "query", "Q", "", "Query expression applied to the result")
	flags.StringVar(&opts.get, "get", "", "Print the value at a dotted or JSON pointer path")
	flags.StringArrayVar(&opts.set, "set", nil, "Set a value, 'path=value' (repeatable)")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	flags.BoolVar(&opts.ignoreMissing, "ignore-missing", false, "Ignore missing input files")
	flags.BoolVar(&opts.template, "template", false, "Render inputs as templates before parsing")
	flags.StringToStringVarP(&opts.extraOpts, "extra-opts", "x", nil, "Backend options, 'key=value' (repeatable)")
	flags.BoolVarP(&opts.list, "list", "L", false, "List supported types and exit")
	flags.BoolVar(&opts.version, "version", false, "Print version and exit")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log format: json or text")
}

func versionLine() string {
	return "anyconf " + anyconf.VersionString()
}
