package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitekit/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a live preview of the site",
	Long: `Renders the home page and article viewer on every request from the current
templates and content document. With live reload on, open pages refresh when
the content document or a template changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (defaults to serve.port)")
	serveCmd.Flags().Bool("live-reload", true, "reload open pages when files change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	port := cfg.Serve.Port
	if p, _ := cmd.Flags().GetInt("port"); p != 0 {
		port = p
	}
	liveReload := cfg.Serve.LiveReload
	if cmd.Flags().Changed("live-reload") {
		liveReload, _ = cmd.Flags().GetBool("live-reload")
	}

	history, closeHistory := openHistory(cfg)
	defer closeHistory()

	home, article := newRenderers(cfg)
	srvCfg := server.Config{
		Port:            port,
		SiteDir:         cfg.SiteDir,
		ContentFile:     cfg.Resolve(cfg.ContentFile),
		IndexTemplate:   cfg.Resolve(cfg.Render.IndexTemplate),
		ArticleTemplate: cfg.Resolve(cfg.Render.ArticleTemplate),
		ViewerPath:      cfg.Render.ArticleViewer,
		AllowAll:        true,
		LiveReload:      liveReload,
	}
	srv, err := server.New(srvCfg, home, article, history)
	if err != nil {
		return templateHint(err)
	}

	if hub := srv.Hub(); hub != nil {
		stop := hub.Watch(srvCfg.ContentFile, srvCfg.IndexTemplate, srvCfg.ArticleTemplate)
		defer stop()
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "sitekit %s previewing %s at http://localhost:%d\n", Version, cfg.SiteDir, port)
	fmt.Fprintf(os.Stderr, "  Content: %s\n", srvCfg.ContentFile)
	if liveReload {
		fmt.Fprintln(os.Stderr, "  Live reload: on")
	}
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop.")

	return srv.Start()
}
