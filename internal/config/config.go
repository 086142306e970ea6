// Package config provides configuration management for the asset pipeline
// using Viper for flexible loading from files, environment variables, and
// command-line flags.
//
// Configuration supports YAML files, environment variable overrides with
// the ASSETFORGE_ prefix, validation, and security checks. It manages
// server settings, extension scan paths, cache sizing, minification
// toggles, the font preload kill-switch, and responsive image defaults.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Assets   AssetsConfig   `yaml:"assets"`
	Cache    CacheConfig    `yaml:"cache"`
	Minify   MinifyConfig   `yaml:"minify"`
	Preload  PreloadConfig  `yaml:"preload"`
	Images   ImagesConfig   `yaml:"images"`
	Critical CriticalConfig `yaml:"critical"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type AssetsConfig struct {
	// ExtensionsDir is scanned for extensions contributing icon manifests.
	ExtensionsDir string `yaml:"extensions_dir"`
	// SourceDir is the root symbol sources resolve against.
	SourceDir string `yaml:"source_dir"`
	// FontDirs are walked for preloadable fonts.
	FontDirs []string `yaml:"font_dirs"`
	// FontPublicPrefix is the URL prefix fonts are served under.
	FontPublicPrefix string `yaml:"font_public_prefix"`
}

type CacheConfig struct {
	// Path of the persistent SQLite cache; empty selects the in-memory store.
	Path string `yaml:"path"`
	// MaxMemoryBytes bounds the in-memory store.
	MaxMemoryBytes int64 `yaml:"max_memory_bytes"`
	// TTLSeconds bounds processed-asset entries; 0 keeps them until flushed.
	TTLSeconds int `yaml:"ttl_seconds"`
}

type MinifyConfig struct {
	CSS bool `yaml:"css"`
	JS  bool `yaml:"js"`
}

type PreloadConfig struct {
	// Enabled is the global preload kill-switch.
	Enabled bool `yaml:"enabled"`
}

type ImagesConfig struct {
	Widths  []int    `yaml:"widths"`
	Formats []string `yaml:"formats"`
}

type CriticalConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle settings set via viper (workaround for viper slice/bool handling)
	if viper.IsSet("assets.font_dirs") && len(config.Assets.FontDirs) == 0 {
		config.Assets.FontDirs = viper.GetStringSlice("assets.font_dirs")
	}
	if viper.IsSet("images.widths") && len(config.Images.Widths) == 0 {
		config.Images.Widths = viper.GetIntSlice("images.widths")
	}
	if viper.IsSet("images.formats") && len(config.Images.Formats) == 0 {
		config.Images.Formats = viper.GetStringSlice("images.formats")
	}
	if viper.IsSet("minify.css") {
		config.Minify.CSS = viper.GetBool("minify.css")
	}
	if viper.IsSet("minify.js") {
		config.Minify.JS = viper.GetBool("minify.js")
	}
	if viper.IsSet("preload.enabled") {
		config.Preload.Enabled = viper.GetBool("preload.enabled")
	}
	if viper.IsSet("critical.enabled") {
		config.Critical.Enabled = viper.GetBool("critical.enabled")
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 8090
	}
	if config.Assets.ExtensionsDir == "" {
		config.Assets.ExtensionsDir = "extensions"
	}
	if config.Assets.SourceDir == "" {
		config.Assets.SourceDir = "."
	}
	if config.Assets.FontPublicPrefix == "" {
		config.Assets.FontPublicPrefix = "/assets/fonts"
	}
	if config.Cache.MaxMemoryBytes == 0 {
		config.Cache.MaxMemoryBytes = 64 * 1024 * 1024
	}
	if len(config.Images.Widths) == 0 {
		config.Images.Widths = []int{320, 640, 960, 1280, 1920}
	}
	if len(config.Images.Formats) == 0 {
		config.Images.Formats = []string{"webp", "jpg"}
	}
	if !viper.IsSet("minify.css") {
		config.Minify.CSS = true
	}
	if !viper.IsSet("minify.js") {
		config.Minify.JS = true
	}
	if !viper.IsSet("preload.enabled") {
		config.Preload.Enabled = true
	}
	if !viper.IsSet("critical.enabled") {
		config.Critical.Enabled = true
	}
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Server.Port)
	}

	if err := validatePath(config.Assets.ExtensionsDir); err != nil {
		return fmt.Errorf("invalid extensions_dir: %w", err)
	}
	if err := validatePath(config.Assets.SourceDir); err != nil {
		return fmt.Errorf("invalid source_dir: %w", err)
	}
	for _, dir := range config.Assets.FontDirs {
		if err := validatePath(dir); err != nil {
			return fmt.Errorf("invalid font dir '%s': %w", dir, err)
		}
	}

	if config.Cache.MaxMemoryBytes < 0 {
		return fmt.Errorf("max_memory_bytes must not be negative")
	}
	if config.Cache.TTLSeconds < 0 {
		return fmt.Errorf("ttl_seconds must not be negative")
	}
	for _, width := range config.Images.Widths {
		if width <= 0 {
			return fmt.Errorf("image width %d must be positive", width)
		}
	}
	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}
	return nil
}
