package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/egoavara/steward/internal/i18n"
	"github.com/egoavara/steward/internal/plugin"
	"github.com/spf13/cobra"
)

var (
	querySelect  int
	queryShift   bool
	queryCtrl    bool
	queryJSON    bool
	queryTimeout time.Duration
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Run a query and print its results",
	Long: `Run a query through the plugins without opening the palette.

With --select the numbered result is entered as if it was picked in the
palette, and the resulting input is printed.

Example:
  steward query se
  steward query "search golang generics"
  steward query "search golang generics" --select 1 --shift`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&querySelect, "select", "s", 0, "enter the Nth result (1-based)")
	queryCmd.Flags().BoolVar(&queryShift, "shift", false, "enter with the shift modifier")
	queryCmd.Flags().BoolVar(&queryCtrl, "ctrl", false, "enter with the ctrl modifier")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print results as JSON")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 10*time.Second, "give up after this long")
}

func runQuery(cmd *cobra.Command, args []string) error {
	a := getApp()
	query := strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
	defer cancel()

	res, err := a.Dispatcher.Dispatch(ctx, query).Await(ctx)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Items); err != nil {
			return err
		}
	} else {
		printResults(res)
	}

	if querySelect == 0 {
		return nil
	}
	if querySelect < 0 || querySelect > len(res.Items) {
		return fmt.Errorf("--select %d is out of range (1-%d)", querySelect, len(res.Items))
	}

	item := res.Items[querySelect-1]
	keys := plugin.KeyStatus{ShiftKey: queryShift, CtrlKey: queryCtrl}
	out := a.Executor.Invoke(ctx, &item, res.Match.Command, res.Match.Query, keys, res.Items)

	for _, n := range a.Notices.Drain() {
		fmt.Printf("[%s] %s\n", n.Level, n.Message)
	}
	if out.Err != nil {
		return out.Err
	}

	switch out.Action {
	case plugin.ActionReplace:
		fmt.Printf("> %s\n", out.Query)
	case plugin.ActionClear:
		fmt.Println(">")
	}
	return nil
}

func printResults(res plugin.Results) {
	if !res.Matched {
		fmt.Println(i18n.T("cli.query.noMatch", nil))
		return
	}
	if len(res.Items) == 0 {
		fmt.Println(i18n.T("cli.query.noResults", nil))
		return
	}

	for i, item := range res.Items {
		marker := " "
		if item.IsWarn {
			marker = "!"
		}
		fmt.Printf("%s%3d. %s\n", marker, i+1, item.Title)
		if item.Desc != "" {
			fmt.Printf("       %s\n", item.Desc)
		}
	}
}
