// Command tenh runs tensor-expression problems and inspects embedding rules.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/born-ml/tenh/internal/config"
	"github.com/born-ml/tenh/internal/logging"
)

const version = "v0.1.0-dev"

var headerStyle = lipgloss.NewStyle().Bold(true)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// options are the persistent flags shared by all subcommands.
type options struct {
	configPath string
	logLevel   string
	jsonLogs   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "tenh",
		Short: "Evaluate index-notation tensor expressions",
		Long: `tenh evaluates tensor expressions written in abstract index notation over
declared vector spaces, symmetric and exterior powers, diagonals and direct sums.

Examples:
  tenh run problem.yaml                 # Execute a problem file
  tenh run problem.yaml -c tenh.yaml    # ...with evaluator settings
  tenh embed sym 2 3                    # Print the Sym^2 of a 3-dim space layout`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "evaluator settings file (YAML)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.jsonLogs, "json-logs", false, "emit logs as JSON")

	root.AddCommand(newVersionCmd(), newRunCmd(opts), newEmbedCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tenh %s\n", version)
		},
	}
}

// load resolves the evaluator settings and logger for a command.
func (o *options) load(cmd *cobra.Command) (config.Config, *logging.Logger, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, nil, err
		}
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.jsonLogs {
		cfg.Logging.JSON = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	log, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}
