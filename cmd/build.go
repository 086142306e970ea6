package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"assetforge/internal/config"
	"assetforge/internal/errors"
	"assetforge/internal/minify"
	"assetforge/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Warm the asset cache",
	Long: `Process every discoverable asset and store the results in the cache.
CSS and JS files under the source directory are minified, SCSS files are
compiled, and the sprite is assembled for each listed site.

Examples:
  assetforge build                      # Warm everything
  assetforge build --site brand-a       # Also assemble the brand-a sprite
  assetforge build --site brand-a --site brand-b`,
	RunE: runBuild,
}

var buildSites []string

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringArrayVar(&buildSites, "site", nil, "site identifier to assemble the sprite for (repeatable)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

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

	collector := errors.NewCollector()
	processor := pipeline.NewProcessor(store, minify.NewCommandCompiler(logger), logger, collector)
	processor.SetTTL(cacheTTL(cfg))

	processed, err := warmTextAssets(cmd, cfg, processor)
	if err != nil {
		return err
	}

	reg, err := discoverRegistry(cfg)
	if err != nil {
		return err
	}
	assembler := newAssembler(cfg, reg, store, logger)

	// The empty site covers the no-site-context sprite.
	sites := append([]string{""}, buildSites...)
	for _, site := range sites {
		assembled := assembler.Assemble(cmd.Context(), site)
		label := site
		if label == "" {
			label = "(global)"
		}
		fmt.Printf("Assembled sprite for %s: %d symbols\n", label, len(assembled.IncludedIDs))
	}

	fmt.Printf("Processed %d assets in %s\n", processed, time.Since(startTime).Round(time.Millisecond))
	reportSkipped(collector)
	return nil
}

// warmTextAssets processes every CSS/JS/SCSS file under the source
// directory. Individual failures are recorded and skipped; they never
// abort the run.
func warmTextAssets(cmd *cobra.Command, cfg *config.Config, processor *pipeline.Processor) (int, error) {
	processed := 0
	root := cfg.Assets.SourceDir
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		identifier := filepath.ToSlash(rel)

		switch strings.ToLower(filepath.Ext(path)) {
		case ".css":
			src, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			processor.CSS(cmd.Context(), identifier, src, cfg.Minify.CSS)
			processed++
		case ".js":
			src, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			processor.JS(cmd.Context(), identifier, src, cfg.Minify.JS)
			processed++
		case ".scss":
			if _, ok := processor.SCSSFile(cmd.Context(), identifier, path); ok {
				processed++
			}
		}
		return nil
	})
	if err != nil {
		return processed, fmt.Errorf("walking source directory: %w", err)
	}
	return processed, nil
}

func reportSkipped(collector *errors.Collector) {
	if !collector.HasErrors() {
		return
	}
	fmt.Printf("Skipped %d items:\n", len(collector.Errors()))
	for _, assetErr := range collector.Errors() {
		fmt.Printf("  %s\n", assetErr.Error())
	}
}
