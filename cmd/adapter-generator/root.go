package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"adapter-generator/internal/logger"
	"adapter-generator/internal/match"
)

const (
	flagLogLevel = "log-level"
	flagLogJSON  = "log-json"
)

var logLevels = []logger.LogLevel{
	logger.DebugLevel,
	logger.InfoLevel,
	logger.WarnLevel,
	logger.ErrorLevel,
	logger.DisabledLevel,
}

// levelValue is a pflag.Value restricted to the known log levels.
type levelValue logger.LogLevel

var _ pflag.Value = (*levelValue)(nil)

func (v *levelValue) String() string { return string(*v) }

func (v *levelValue) Type() string { return "level" }

func (v *levelValue) Set(s string) error {
	lvl := logger.LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(logLevels, lvl) {
		if hint, ok := match.Suggest(s, levelNames()); ok {
			return fmt.Errorf("unknown log level %q (did you mean %s?)", s, hint)
		}

		return fmt.Errorf("unknown log level %q (want one of %s)", s, joinLevels())
	}

	*v = levelValue(lvl)

	return nil
}

func levelNames() []string {
	names := make([]string, len(logLevels))
	for i, l := range logLevels {
		names[i] = l.String()
	}

	return names
}

func joinLevels() string {
	return strings.Join(levelNames(), ", ")
}

func newRootCmd() *cobra.Command {
	level := levelValue(logger.InfoLevel)

	var jsonLogs bool

	root := &cobra.Command{
		Use:   "adapter-generator",
		Short: "Generate a conversion adapter from converter types",
		Long: `adapter-generator scans Go packages for types implementing the converter
capability, merges them with configured external conversions, and writes one
adapter type whose methods delegate every conversion to a runtime dispatcher.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cfg := logger.DefaultConfig()
			cfg.Level = logger.LogLevel(level)
			cfg.JSON = jsonLogs
			cfg.Output = cmd.ErrOrStderr()

			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), logger.NewLogger(cfg)))
		},
	}

	root.PersistentFlags().Var(&level, flagLogLevel, "Log level ("+joinLevels()+")")
	root.PersistentFlags().BoolVar(&jsonLogs, flagLogJSON, false, "Output logs in JSON format")

	root.AddCommand(newGenerateCmd(), newListCmd())

	return root
}
