package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"assetforge/internal/config"
)

var spriteCmd = &cobra.Command{
	Use:   "sprite",
	Short: "Assemble and print the SVG sprite",
	Long: `Assemble the sprite from every discovered icon manifest and print the
document to stdout.

Examples:
  assetforge sprite                     # Global sprite (unscoped symbols only)
  assetforge sprite --site brand-a      # Sprite for one site
  assetforge sprite --list              # Print included symbol ids instead`,
	RunE: runSprite,
}

var (
	spriteSite string
	spriteList bool
)

func init() {
	rootCmd.AddCommand(spriteCmd)

	spriteCmd.Flags().StringVar(&spriteSite, "site", "", "site identifier to scope the sprite to")
	spriteCmd.Flags().BoolVar(&spriteList, "list", false, "print the included symbol ids instead of the document")
}

func runSprite(cmd *cobra.Command, args []string) error {
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

	assembled := newAssembler(cfg, reg, store, logger).Assemble(cmd.Context(), spriteSite)

	if spriteList {
		for _, id := range assembled.IncludedIDs {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), assembled.Document)
	return nil
}
