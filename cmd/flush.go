package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"assetforge/internal/cache"
	"assetforge/internal/config"
)

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Flush cached assets",
	Long: `Remove entries from the asset cache. Without a tag the whole cache is
cleared; with --tag only entries carrying that tag are removed.

Examples:
  assetforge flush
  assetforge flush --tag svg_sprite
  assetforge flush --tag critical`,
	RunE: runFlush,
}

var flushTag = tagValue{}

func init() {
	rootCmd.AddCommand(flushCmd)

	flushCmd.Flags().Var(&flushTag, "tag", "flush only entries carrying this tag (assets, svg_sprite, critical)")
}

// tagValue is a pflag.Value that rejects unknown cache tags at parse time.
type tagValue struct {
	tag string
}

var _ pflag.Value = (*tagValue)(nil)

func (v *tagValue) String() string { return v.tag }

func (v *tagValue) Set(val string) error {
	switch val {
	case cache.TagAssets, cache.TagSprite, cache.TagCritical:
		v.tag = val
		return nil
	}
	return fmt.Errorf("unknown tag %q (expected %s, %s or %s)", val, cache.TagAssets, cache.TagSprite, cache.TagCritical)
}

func (v *tagValue) Type() string { return "tag" }

func runFlush(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, closeStore, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if flushTag.tag == "" {
		store.Flush()
		fmt.Fprintln(cmd.OutOrStdout(), "cache flushed")
		return nil
	}

	store.FlushByTag(flushTag.tag)
	fmt.Fprintf(cmd.OutOrStdout(), "cache entries tagged %q flushed\n", flushTag.tag)
	return nil
}
