package cmd

import (
	"fmt"
	"sort"

	"github.com/egoavara/steward/internal/config"
	"github.com/egoavara/steward/internal/i18n"
	"github.com/egoavara/steward/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage steward configuration",
	Long: `Manage steward configuration settings.

Example:
  steward config show
  steward config set locale ko-KR
  steward config set log.level debug`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Available keys:
  locale     - Language setting
               Values: auto, en-US, ko-KR, etc.
  log.level  - Minimum level written to the log file
               Values: debug, info, warn, error

Example:
  steward config set locale ko-KR
  steward config set log.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Configuration:")
	fmt.Println("----------------------------------------")
	fmt.Printf("  file: %s\n", config.ConfigPath())
	fmt.Printf("  locale: %s\n", cfg.Locale)
	fmt.Printf("  log.level: %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Printf("  log.file: %s\n", cfg.Log.File)
	} else {
		fmt.Printf("  log.file: %s\n", config.LogPath())
	}

	if len(cfg.Plugins) == 0 {
		return nil
	}

	names := make([]string, 0, len(cfg.Plugins))
	for name := range cfg.Plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	fmt.Println("Plugins:")
	for _, name := range names {
		pc := cfg.Plugins[name]
		fmt.Printf("  %s: disabled=%t\n", name, pc.Disabled)
		for orkey, key := range pc.Keys {
			fmt.Printf("    %s -> %s\n", orkey, key)
		}
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	switch key {
	case "locale":
		if err := config.SetLocale(value); err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.config.localeSet", map[string]interface{}{"Locale": value}))
		return nil
	case "log.level":
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
		if err := config.SetLogLevel(value); err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.config.logLevelSet", map[string]interface{}{"Level": value}))
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
