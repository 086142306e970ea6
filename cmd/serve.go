package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"assetforge/internal/config"
	"assetforge/internal/critical"
	"assetforge/internal/minify"
	"assetforge/internal/pipeline"
	"assetforge/internal/preload"
	"assetforge/internal/server"
	"assetforge/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve processed assets over HTTP",
	Long: `Start the asset server. It serves the assembled sprite, minified CSS/JS,
and attaches font preload hints. With --watch, source changes flush the
affected cache entries automatically.

Examples:
  assetforge serve
  assetforge serve --watch`,
	RunE: runServe,
}

var serveWatch bool

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "watch asset sources and invalidate the cache on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger()

	store, closeStore, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	reg, err := discoverRegistry(cfg)
	if err != nil {
		return err
	}
	assembler := newAssembler(cfg, reg, store, logger)

	processor := pipeline.NewProcessor(store, minify.NewCommandCompiler(logger), logger, nil)
	processor.SetTTL(cacheTTL(cfg))

	fonts := preload.NewFontRegistry()
	if cfg.Preload.Enabled && len(cfg.Assets.FontDirs) > 0 {
		if err := fonts.Discover(cfg.Assets.FontDirs...); err != nil {
			return fmt.Errorf("discovering fonts: %w", err)
		}
	}

	if serveWatch {
		w, err := watcher.New(store, 300*time.Millisecond, logger)
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer w.Stop()
		if err := w.AddRecursive(cfg.Assets.SourceDir); err != nil {
			return fmt.Errorf("watching source directory: %w", err)
		}
		go w.Start(cmd.Context())
	}

	srv := server.New(cfg, assembler, processor, critical.NewCache(store), fonts, store, logger)
	return srv.ListenAndServe(cmd.Context())
}
