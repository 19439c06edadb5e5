package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/egoavara/steward/internal/i18n"
	"github.com/egoavara/steward/internal/plugin"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// errNoData is returned for plugins without editable data
var errNoData = errors.New("plugin has no editable data")

var (
	pluginDataFormat string
	pluginDataOutput string
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Manage plugins",
	Long: `Manage the built-in plugins.

Example:
  steward plugin list
  steward plugin disable openurl
  steward plugin rekey search se engine
  steward plugin data export search --format yaml`,
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plugins and their commands",
	Args:  cobra.NoArgs,
	RunE:  runPluginList,
}

var pluginEnableCmd = &cobra.Command{
	Use:   "enable <plugin>",
	Short: "Enable a plugin",
	Args:  cobra.ExactArgs(1),
	RunE:  runPluginEnable,
}

var pluginDisableCmd = &cobra.Command{
	Use:   "disable <plugin>",
	Short: "Disable a plugin",
	Args:  cobra.ExactArgs(1),
	RunE:  runPluginDisable,
}

var pluginRekeyCmd = &cobra.Command{
	Use:   "rekey <plugin> <orkey> <key>",
	Short: "Bind a command to a new key",
	Long: `Bind an editable command to a new key.

The command is identified by its original key (orkey), which never
changes. Rekeying to the orkey restores the default.

Example:
  steward plugin rekey search se engine
  steward plugin rekey search se se`,
	Args: cobra.ExactArgs(3),
	RunE: runPluginRekey,
}

var pluginDataCmd = &cobra.Command{
	Use:   "data",
	Short: "Export or import plugin data",
}

var pluginDataExportCmd = &cobra.Command{
	Use:   "export <plugin>",
	Short: "Print a plugin's data table",
	Args:  cobra.ExactArgs(1),
	RunE:  runPluginDataExport,
}

var pluginDataImportCmd = &cobra.Command{
	Use:   "import <plugin> <file>",
	Short: "Replace a plugin's data table from a file",
	Long: `Replace a plugin's data table from a YAML or JSON file.

The format follows --format, or the file extension when it is not set.`,
	Args: cobra.ExactArgs(2),
	RunE: runPluginDataImport,
}

func init() {
	pluginDataExportCmd.Flags().StringVarP(&pluginDataFormat, "format", "f", "", "output format: yaml or json (default from --output extension, else yaml)")
	pluginDataExportCmd.Flags().StringVarP(&pluginDataOutput, "output", "o", "", "write to file instead of stdout")
	pluginDataImportCmd.Flags().StringVarP(&pluginDataFormat, "format", "f", "", "input format (yaml or json)")

	pluginDataCmd.AddCommand(pluginDataExportCmd)
	pluginDataCmd.AddCommand(pluginDataImportCmd)

	pluginCmd.AddCommand(pluginListCmd)
	pluginCmd.AddCommand(pluginEnableCmd)
	pluginCmd.AddCommand(pluginDisableCmd)
	pluginCmd.AddCommand(pluginRekeyCmd)
	pluginCmd.AddCommand(pluginDataCmd)
}

func runPluginList(cmd *cobra.Command, args []string) error {
	fmt.Println(i18n.T("cli.plugin.header", nil))
	fmt.Println(strings.Repeat("-", 40))

	for _, info := range getApp().Registry.Snapshot() {
		state := ""
		if info.Disabled {
			state = " (" + i18n.T("cli.plugin.disabled", nil) + ")"
		}
		fmt.Printf("  %s - %s v%d%s\n", info.ID, info.Title, info.Version, state)

		for _, c := range info.Commands {
			key := c.Key
			if c.Key != c.Orkey {
				key = fmt.Sprintf("%s [%s]", c.Key, c.Orkey)
			}
			fmt.Printf("    %-20s %-8s %s\n", key, c.Type, c.Title)
		}
	}
	return nil
}

func runPluginEnable(cmd *cobra.Command, args []string) error {
	a := getApp()
	if err := a.SetEnabled(args[0], true); err != nil {
		return err
	}
	fmt.Println(i18n.T("cli.plugin.enabled", map[string]interface{}{"Name": args[0]}))
	return nil
}

func runPluginDisable(cmd *cobra.Command, args []string) error {
	a := getApp()
	if err := a.SetEnabled(args[0], false); err != nil {
		return err
	}
	fmt.Println(i18n.T("cli.plugin.disabledNow", map[string]interface{}{"Name": args[0]}))
	return nil
}

func runPluginRekey(cmd *cobra.Command, args []string) error {
	name, orkey, key := args[0], args[1], args[2]
	if err := getApp().Rekey(name, orkey, key); err != nil {
		return err
	}
	fmt.Println(i18n.T("cli.plugin.rekeyed", map[string]interface{}{"Orkey": orkey, "Key": key}))
	return nil
}

// dataEditor finds the editor of a plugin by its ID
func dataEditor(name string) (plugin.DataEditor, error) {
	p, ok := getApp().Registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", plugin.ErrUnknownPlugin, name)
	}
	if p.DataEditor == nil {
		return nil, fmt.Errorf("%w: %s", errNoData, name)
	}
	return p.DataEditor, nil
}

func runPluginDataExport(cmd *cobra.Command, args []string) error {
	editor, err := dataEditor(args[0])
	if err != nil {
		return err
	}

	rows, err := editor.Export(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", args[0], err)
	}

	var out io.Writer = os.Stdout
	if pluginDataOutput != "" {
		f, err := os.Create(pluginDataOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return encodeRows(out, formatOf(pluginDataFormat, pluginDataOutput), rows)
}

func runPluginDataImport(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]
	editor, err := dataEditor(name)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decode := func(v any) error {
		if formatOf(pluginDataFormat, path) == "json" {
			return json.Unmarshal(data, v)
		}
		return yaml.Unmarshal(data, v)
	}
	if err := editor.Import(cmd.Context(), decode); err != nil {
		return fmt.Errorf("failed to import %s: %w", name, err)
	}

	fmt.Println(i18n.T("cli.plugin.imported", map[string]interface{}{"Name": name}))
	return nil
}

// formatOf picks the explicit format, else guesses from the file extension
func formatOf(format, path string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

func encodeRows(w io.Writer, format string, rows any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
