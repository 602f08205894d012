package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitekit/internal/audit"
	"github.com/ziadkadry99/sitekit/internal/linkfix"
)

var fixLinksCmd = &cobra.Command{
	Use:   "fix-links",
	Short: "Repair placeholder event article links",
	Long: `Backs up the content document, then sets the link of every event whose
title is in the link table and whose link is empty, missing or "#". Links that
differ from the table are reported but left alone.`,
	Args: cobra.NoArgs,
	RunE: runFixLinks,
}

func init() {
	rootCmd.AddCommand(fixLinksCmd)
}

func runFixLinks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	history, closeHistory := openHistory(cfg)
	defer closeHistory()

	out := cmd.OutOrStdout()
	store := contentStore(cfg)
	fmt.Fprintf(out, "Fixing article links in %s\n\n", store.Path)

	res, err := linkfix.Run(store, cfg.LinkTable())
	if res.Backup != "" {
		fmt.Fprintf(out, "Backup created: %s\n", res.Backup)
	}
	if err != nil {
		return fmt.Errorf("fixing article links: %w", err)
	}

	for _, c := range res.Report.Changes {
		switch c.Outcome {
		case linkfix.Fixed:
			fmt.Fprintf(out, "Fixed %q: %s -> %s\n", c.Title, displayLink(c.OldLink), c.NewLink)
		case linkfix.Mismatch:
			fmt.Fprintf(out, "Warning: %q has unexpected link: %s (expected: %s)\n", c.Title, c.OldLink, c.NewLink)
		case linkfix.Unknown:
			fmt.Fprintf(out, "Warning: event %d has no title or unknown title: %q\n", c.Index+1, c.Title)
		case linkfix.Correct:
			vlogf("%q already links to %s", c.Title, c.OldLink)
		}
	}

	fixed := res.Report.Fixed()
	fmt.Fprintf(out, "\nSummary:\n  Backup created: %s\n  Links fixed:    %d\n  File updated:   %s\n", res.Backup, fixed, store.Path)
	if fixed == 0 {
		fmt.Fprintln(out, "\nNo broken links found. The content document is already correct.")
	}

	if err := history.Log(cmd.Context(), audit.Entry{
		Action:     audit.ActionLinkFix,
		Target:     store.Path,
		Summary:    fmt.Sprintf("Fixed %d event link(s)", fixed),
		Detail:     fmt.Sprintf("%d mismatched, %d unknown", res.Report.Count(linkfix.Mismatch), res.Report.Count(linkfix.Unknown)),
		BackupPath: res.Backup,
	}); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: recording history: %v\n", err)
	}
	return nil
}

func displayLink(link string) string {
	if link == "" {
		return `""`
	}
	return link
}
