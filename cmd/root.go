package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sitekit",
	Short: "Content tooling for the law society website",
	Long: `sitekit maintains a static society website driven by one JSON content
document. It backs up and replaces the document, repairs event article links,
patches article page titles, renders the site for deployment and serves a
live preview.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".sitekit.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// vlogf prints to stderr when --verbose is set.
func vlogf(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
