package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/egoavara/steward/internal/app"
	"github.com/egoavara/steward/internal/config"
	"github.com/egoavara/steward/internal/logging"
	"github.com/egoavara/steward/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool

	launcher  *app.App
	logCloser io.Closer

	rootCmd = &cobra.Command{
		Use:           "steward [query]",
		Short:         "Keyboard-driven command palette",
		SilenceErrors: true,
		Long: `steward is a command palette for the terminal.

Type a keyword followed by an argument, or free text, and pick a
result with enter. Plugins decide what each query means.

Commands:
  query    Run a query without the interactive palette
  plugin   Manage plugins (list, enable, disable, rekey, data)
  config   Manage configuration

Shortcuts (aliases):
  enable   = plugin enable
  disable  = plugin disable`,
		Args:               cobra.ArbitraryArgs,
		PersistentPreRunE:  setupLogging,
		PersistentPostRunE: closeLogging,
		RunE:               runPalette,
	}
)

// setupLogging routes slog to the rotating log file for every command
func setupLogging(cmd *cobra.Command, args []string) error {
	logger, closer, err := logging.Setup(config.Get().Log, verbose)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	logCloser = closer
	return nil
}

func closeLogging(cmd *cobra.Command, args []string) error {
	if logCloser == nil {
		return nil
	}
	return logCloser.Close()
}

// getApp builds the launcher core once per process
func getApp() *app.App {
	if launcher == nil {
		launcher = app.New(app.Options{
			Config: config.Get(),
			Logger: slog.Default(),
			Global: true,
		})
	}
	return launcher
}

func runPalette(cmd *cobra.Command, args []string) error {
	return tui.RunPalette(getApp(), strings.Join(args, " "))
}

// createAliasCommand creates a root-level alias that shares flags with a plugin subcommand
func createAliasCommand(pluginSubCmd *cobra.Command, aliases []string) *cobra.Command {
	aliasCmd := &cobra.Command{
		Use:     pluginSubCmd.Use,
		Short:   pluginSubCmd.Short + " (alias)",
		Long:    pluginSubCmd.Long,
		Args:    pluginSubCmd.Args,
		Aliases: aliases,
		RunE:    pluginSubCmd.RunE,
	}
	// Copy all flags from the original command
	pluginSubCmd.Flags().VisitAll(func(f *pflag.Flag) {
		aliasCmd.Flags().AddFlag(f)
	})
	return aliasCmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	// Main commands
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(pluginCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.AddCommand(createAliasCommand(pluginEnableCmd, nil))
	rootCmd.AddCommand(createAliasCommand(pluginDisableCmd, nil))
}
