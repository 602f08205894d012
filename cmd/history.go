package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitekit/internal/audit"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded maintenance operations",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().String("action", "", "only show this action (backup, update, backup_and_update, link_fix, retitle)")
	historyCmd.Flags().Int("limit", 20, "maximum number of entries")
	historyCmd.Flags().Bool("json", false, "print entries as JSON")
	historyCmd.Flags().String("prune-before", "", "delete entries recorded before this date (YYYY-MM-DD or RFC 3339) instead of listing")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	history, closeHistory := openHistory(cfg)
	defer closeHistory()
	if history == nil {
		return fmt.Errorf("no history database at %s", cfg.HistoryDB)
	}

	if before, _ := cmd.Flags().GetString("prune-before"); before != "" {
		return pruneHistory(cmd, history, before)
	}

	action, _ := cmd.Flags().GetString("action")
	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := history.Query(cmd.Context(), audit.QueryFilter{
		Action: audit.Action(action),
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if entries == nil {
			entries = []audit.Entry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No history recorded yet.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tACTOR\tSUMMARY\tTARGET")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, e.Actor, e.Summary, e.Target)
	}
	return tw.Flush()
}

func pruneHistory(cmd *cobra.Command, history *audit.Store, before string) error {
	t, err := parseHistoryDate(before)
	if err != nil {
		return err
	}
	n, err := history.DeleteBefore(cmd.Context(), t)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries recorded before %s\n", n, t.Local().Format("2006-01-02 15:04:05"))
	return nil
}

// parseHistoryDate accepts a local calendar date or an RFC 3339 timestamp.
func parseHistoryDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}
