// Package cli implements the osqrt command line tool.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/shogo82148/osqrt/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Strategy   string
	Scan       string
	Backend    string

	// resolved in PersistentPreRunE
	Config config.Config
	Logger *slog.Logger
	Out    *OutputFormatter
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the osqrt tool.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "osqrt",
		Short:         "Oblivious square roots and float decomposition",
		Long:          "Computes integer square roots and single precision square roots with a data independent control flow, on plaintext or opaque words.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path of a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Strategy, "strategy", "auto", "execution strategy (auto|early|oblivious)")
	cmd.PersistentFlags().StringVar(&opts.Scan, "scan", "inclusive", "leading bit scan convention (inclusive|exclusive)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "plain", "numeric backend (plain|opaque)")

	cmd.AddCommand(NewOrderCommand(opts))
	cmd.AddCommand(NewShiftCommand(opts))
	cmd.AddCommand(NewIsqrtCommand(opts))
	cmd.AddCommand(NewDecomposeCommand(opts))
	cmd.AddCommand(NewRecomposeCommand(opts))
	cmd.AddCommand(NewFsqrtCommand(opts))
	cmd.AddCommand(NewDistCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewCacheCommand(opts))

	return cmd
}

// Execute runs the tool with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	format := "text"
	if f := cmd.PersistentFlags().Lookup("format"); f != nil && f.Value.String() == "json" {
		format = "json"
	}
	w := stderr
	if format == "json" {
		w = stdout
	}
	out := &OutputFormatter{Format: format, Writer: w}
	out.Error(err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// cobra reports unknown commands and bad flags as plain errors
	return ExitCommandError
}

func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if !slices.Contains(ValidFormats, o.Format) {
		return WrapExitError(ExitCommandError, "invalid flags",
			fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg := config.Default()
	if o.ConfigPath != "" {
		var err error
		cfg, err = config.Load(o.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.Strategy = o.Strategy
	}
	if flags.Changed("scan") {
		cfg.Scan = o.Scan
	}
	if flags.Changed("backend") {
		cfg.Backend = o.Backend
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}

	o.Config = cfg
	o.Logger = logger
	o.Out = &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
	return nil
}

func (o *RootOptions) engine() (engine, error) {
	kopts, err := o.Config.Options()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid flags", err)
	}
	e, err := newEngine(o.Config.Backend, kopts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build kernel", err)
	}
	o.Logger.Debug("kernel ready",
		slog.String("backend", o.Config.Backend),
		slog.String("strategy", e.strategy().String()),
		slog.String("scan", o.Config.Scan))
	return e, nil
}
