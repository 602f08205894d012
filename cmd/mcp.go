package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitekit/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server on stdio exposing the site content",
	Long:  `Starts a Model Context Protocol server over stdio with tools to list events, read articles, check links, back up the content document and read the history.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		history, closeHistory := openHistory(cfg)
		defer closeHistory()

		mcp.Version = Version
		srv := mcp.NewServer(contentStore(cfg), cfg.LinkTable(), history)

		// Stdout carries the protocol; everything else goes to stderr.
		fmt.Fprintf(os.Stderr, "sitekit MCP server serving %s\n", cfg.Resolve(cfg.ContentFile))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
