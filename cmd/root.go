// Package cmd provides the command-line interface for assetforge with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, etc.) - highest priority
//	2. ASSETFORGE_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (ASSETFORGE_SERVER_PORT, etc.)
//	4. Configuration files (.assetforge.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "assetforge",
	Short: "Asset pipeline toolkit for content sites",
	Long: `Assetforge processes and caches the assets of a content site: CSS/JS
minification, SCSS compilation, SVG sprite assembly from extension icon
manifests, responsive image planning, font preload hints, and
critical-CSS inlining.

Quick Start:
  assetforge build                Warm the asset cache
  assetforge sprite               Print the assembled sprite
  assetforge serve                Serve processed assets over HTTP
  assetforge flush                Flush the asset cache`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .assetforge.yml, can also use ASSETFORGE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. ASSETFORGE_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .assetforge.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("ASSETFORGE_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".assetforge")
	}

	// Enable automatic environment variable binding with ASSETFORGE_ prefix
	// Examples: ASSETFORGE_SERVER_PORT, ASSETFORGE_PRELOAD_ENABLED
	viper.SetEnvPrefix("ASSETFORGE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing or unreadable config files fall back to defaults without failing.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
