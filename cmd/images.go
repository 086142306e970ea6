package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"assetforge/internal/config"
	"assetforge/internal/images"
)

var imagesCmd = &cobra.Command{
	Use:   "images <source>",
	Short: "Print the responsive variant plan for an image",
	Long: `Compute the responsive rendition plan for a source image from the
configured widths and formats, and print the srcset per format. Widths
above the source width are excluded.

Examples:
  assetforge images banner/hero.jpg --source-width 2400
  assetforge images logo.png --source-width 512`,
	Args: cobra.ExactArgs(1),
	RunE: runImages,
}

var imagesSourceWidth int

func init() {
	rootCmd.AddCommand(imagesCmd)

	imagesCmd.Flags().IntVar(&imagesSourceWidth, "source-width", 0, "pixel width of the source image")
	imagesCmd.MarkFlagRequired("source-width")
}

func runImages(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if imagesSourceWidth <= 0 {
		return fmt.Errorf("source width must be positive, got %d", imagesSourceWidth)
	}

	plan := images.NewPlan(args[0], imagesSourceWidth, cfg.Images.Widths, cfg.Images.Formats)
	if len(plan.Variants) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no variants: every configured width exceeds the source width")
		return nil
	}
	for _, format := range plan.Formats() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", format, plan.SrcSet(format))
	}
	return nil
}
