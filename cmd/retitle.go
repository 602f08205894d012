package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitekit/internal/audit"
	"github.com/ziadkadry99/sitekit/internal/config"
	"github.com/ziadkadry99/sitekit/internal/content"
	"github.com/ziadkadry99/sitekit/internal/progress"
	"github.com/ziadkadry99/sitekit/internal/retitle"
)

var retitleCmd = &cobra.Command{
	Use:   "retitle <article-file> <new-title>",
	Short: "Replace an article page's heading and <title>",
	Long: `Rewrites the banner heading (the first <h2> after <div class="logo">, or the
first <h2> in the page) and the <title> of a static article page.

With --all, every page matched by retitle.include is titled from the content
document: the event whose link names the page supplies its article's full title.`,
	Example: `  sitekit retitle articles/legal-writing-workshop.html "The Law Ball"
  sitekit retitle --all`,
	Args: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runRetitle,
}

func init() {
	retitleCmd.Flags().Bool("all", false, "retitle every matched article page from the content document")
	retitleCmd.Flags().Bool("dry-run", false, "with --all, list the planned titles without writing")
	retitleCmd.Flags().String("suffix", "", "override the <title> suffix")
	rootCmd.AddCommand(retitleCmd)
}

func runRetitle(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	suffix := cfg.Retitle.Suffix
	if cmd.Flags().Changed("suffix") {
		suffix, _ = cmd.Flags().GetString("suffix")
	}
	history, closeHistory := openHistory(cfg)
	defer closeHistory()

	if all, _ := cmd.Flags().GetBool("all"); all {
		return retitleAll(cmd, cfg, suffix, history)
	}

	path, title := args[0], args[1]
	res, err := retitle.File(path, title, suffix)
	if errors.Is(err, retitle.ErrNotFound) {
		return fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		return fmt.Errorf("updating article %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Updated article: %s\n", path)
	fmt.Fprintf(out, "  New title: %q\n", title)
	reportRetitle(res, path)
	logRetitle(cmd, history, path, title)
	return nil
}

func retitleAll(cmd *cobra.Command, cfg *config.Config, suffix string, history *audit.Store) error {
	doc, err := content.Load(cfg.Resolve(cfg.ContentFile))
	if err != nil {
		return err
	}
	jobs, unmatched, err := retitle.Plan(cfg.SiteDir, doc, retitle.PlanOptions{
		Include:  cfg.Retitle.Include,
		Exclude:  cfg.Retitle.Exclude,
		FromSlug: cfg.Retitle.FromSlug,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range unmatched {
		fmt.Fprintf(out, "Skipped %s: no event links to it\n", p)
	}
	if len(jobs) == 0 {
		fmt.Fprintln(out, "No article pages to retitle.")
		return nil
	}

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		for _, j := range jobs {
			fmt.Fprintf(out, "%s -> %q (from %s)\n", j.Path, j.Title, j.Source)
		}
		return nil
	}

	outcomes := retitle.Apply(cfg.SiteDir, jobs, suffix, progress.NewReporter("Retitling pages"))
	failed := 0
	for _, o := range outcomes {
		path := filepath.Join(cfg.SiteDir, filepath.FromSlash(o.Job.Path))
		if o.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Error updating %s: %v\n", o.Job.Path, o.Err)
			continue
		}
		fmt.Fprintf(out, "Updated %s: %q\n", o.Job.Path, o.Job.Title)
		reportRetitle(o.Result, o.Job.Path)
		logRetitle(cmd, history, path, o.Job.Title)
	}
	fmt.Fprintf(out, "\n%d page(s) retitled, %d failed, %d skipped\n", len(outcomes)-failed, failed, len(unmatched))
	if failed > 0 {
		return fmt.Errorf("%d page(s) could not be retitled", failed)
	}
	return nil
}

func reportRetitle(res retitle.Result, path string) {
	switch {
	case res.Heading && res.Fallback:
		vlogf("%s: no logo heading, replaced the first <h2>", path)
	case !res.Heading:
		vlogf("%s: no <h2> found", path)
	}
	if !res.Title {
		vlogf("%s: no <title> found", path)
	}
}

func logRetitle(cmd *cobra.Command, history *audit.Store, path, title string) {
	err := history.Log(cmd.Context(), audit.Entry{
		Action:   audit.ActionRetitle,
		Target:   path,
		Summary:  fmt.Sprintf("Retitled page to %q", title),
		NewValue: title,
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: recording history: %v\n", err)
	}
}
