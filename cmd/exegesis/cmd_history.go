package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// historyCmd groups the recent-query commands. Without a subcommand it lists.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or manage the recent studies",
	Args:  cobra.NoArgs,
	RunE:  listHistory,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent studies, most recent first",
	Args:  cobra.NoArgs,
	RunE:  listHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every recent study",
	Args:  cobra.NoArgs,
	RunE:  clearHistory,
}

var historyOpenCmd = &cobra.Command{
	Use:   "open <n>",
	Short: "Generate again the n-th entry of the list",
	Args:  cobra.ExactArgs(1),
	RunE:  openHistory,
}

func init() {
	historyOpenCmd.Flags().StringVarP(&studyFormats, "format", "f", "markdown", "Output formats (comma separated, or all)")
	historyOpenCmd.Flags().StringVarP(&studyOutDir, "output", "o", "", "Output directory (default from config)")
	historyOpenCmd.Flags().BoolVar(&studyView, "view", false, "Open the study in the terminal viewer")
	historyCmd.AddCommand(historyListCmd, historyClearCmd, historyOpenCmd)
}

func listHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.history.Entries()
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "Nenhum estudo recente.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPASSAGEM\tVERSÃO\tPROFUNDIDADE\tQUANDO")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, e.Passage, e.Translation, e.Depth.Label(), e.Time().Format("02/01/2006 15:04"))
	}
	return w.Flush()
}

func clearHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.history.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Histórico apagado.")
	return nil
}

func openHistory(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("expected a positive entry number, got %q", args[0])
	}

	a, err := newApp(cmd.Context(), cfg, appOptions{})
	if err != nil {
		return err
	}
	entries := a.history.Entries()
	a.Close()

	if n > len(entries) {
		return fmt.Errorf("history has %d entries", len(entries))
	}
	return generateAndWrite(cmd, entries[n-1].Request())
}
