package main

import (
	"fmt"
	"go/types"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/logger"
	"adapter-generator/internal/pipeline"
)

// runFlags are shared by generate and list.
type runFlags struct {
	dir         string
	config      string
	capability  string
	tags        string
	parallelism int
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.dir, "dir", "C", "", "Directory to load packages from (default: current directory)")
	fs.StringVarP(&f.config, "config", "c", "", "YAML configuration file")
	fs.StringVar(&f.capability, "capability", "", "Converter interface as pkg/path.Name (default: the convert package's Converter)")
	fs.StringVar(&f.tags, "tags", "", "Comma-separated build tags passed to the package loader")
	fs.IntVarP(&f.parallelism, "parallelism", "p", 0, "Maximum concurrent converter checks (0 = unbounded)")
}

func (f *runFlags) options(args []string) pipeline.Options {
	opts := pipeline.Options{
		Dir:         f.dir,
		Patterns:    args,
		ConfigFile:  f.config,
		Capability:  f.capability,
		Parallelism: f.parallelism,
	}

	if f.tags != "" {
		opts.BuildFlags = []string{"-tags=" + f.tags}
	}

	return opts
}

func newGenerateCmd() *cobra.Command {
	var (
		flags  runFlags
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "generate [packages...]",
		Short: "Generate the conversion adapter",
		Long: `Load the given package patterns (default ./...), collect every converter and
external conversion, and write the adapter into the output package.`,
		Example: `  adapter-generator generate ./...
  adapter-generator generate --config adaptergen.yaml --dry-run ./internal/...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(args)
			opts.DryRun = dryRun

			res, err := pipeline.Run(cmd.Context(), opts)
			report(logger.FromContext(cmd.Context()), res.Diagnostics)

			if err != nil {
				return err
			}

			if dryRun {
				_, err = cmd.OutOrStdout().Write(res.File.Content)

				return err
			}

			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the adapter to stdout instead of writing it")

	return cmd
}

func newListCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "list [packages...]",
		Short: "List the conversions the adapter would expose",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(args)
			opts.DryRun = true

			res, err := pipeline.Run(cmd.Context(), opts)
			report(logger.FromContext(cmd.Context()), res.Diagnostics)

			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "METHOD\tSOURCE\tTARGET\tORIGIN\tDECLARED BY")

			for _, b := range res.Bindings {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					b.Identifier,
					types.TypeString(b.Entry.Pair.Source, nil),
					types.TypeString(b.Entry.Pair.Target, nil),
					b.Entry.Origin,
					b.Entry.Ref.Name)
			}

			return tw.Flush()
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

// report logs every diagnostic at its severity.
func report(log logger.Logger, diags diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		switch d.Severity {
		case diagnostic.DiagnosticError:
			log.Error(d.String())
		case diagnostic.DiagnosticWarning:
			log.Warn(d.String())
		default:
			log.Info(d.String())
		}
	}
}
