package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitekit/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the site into the output directory",
	Long: `Copies the site into the output directory, renders the home page from the
content document and pre-renders every event article at its event link.
Event cards link to those pages unless --viewer-links is set. A template
missing a required element stops the build.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory")
	buildCmd.Flags().Bool("viewer-links", false, "point event cards at the article viewer (needs sitekit serve) instead of the pre-rendered pages")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}

	home, article := newRenderers(cfg)
	viewerLinks, _ := cmd.Flags().GetBool("viewer-links")

	generator := &site.SiteGenerator{
		SiteDir:         cfg.SiteDir,
		OutputDir:       outputDir,
		IndexTemplate:   cfg.Render.IndexTemplate,
		ArticleTemplate: cfg.Render.ArticleTemplate,
		ContentFile:     cfg.Resolve(cfg.ContentFile),
		Exclude:         []string{cfg.BackupDir + "/**", cfg.OutputDir + "/**"},
		ViewerLinks:     viewerLinks,
		Home:            home,
		Article:         article,
		Logf:            vlogf,
	}
	rep, err := generator.Generate()
	if err != nil {
		return templateHint(fmt.Errorf("building site: %w", err))
	}

	errOut := cmd.ErrOrStderr()
	for _, w := range rep.Warnings {
		fmt.Fprintf(errOut, "Warning: %s\n", w)
	}
	if rep.ContentErr != nil {
		fmt.Fprintf(errOut, "Warning: content not applied: %v\n", rep.ContentErr)
	}
	if rep.Home.Dropped > 0 {
		fmt.Fprintf(errOut, "Warning: %d event(s) have no card on the home page\n", rep.Home.Dropped)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Site built: %s (%d pages rendered, %d files copied)\n", outputDir, len(rep.Pages), rep.Copied)
	return nil
}
