// Package config provides configuration management for the modmaker CLI.
//
// Values are layered: built-in defaults, then modmaker.yaml, then
// MODMAKER_ environment variables, then explicitly set flags.
package config

import (
	"time"

	"github.com/Jocowski/democracy-mod-maker/internal/loader"
	"github.com/Jocowski/democracy-mod-maker/internal/modpack"
	"github.com/Jocowski/democracy-mod-maker/internal/source"
)

// Source kinds.
const (
	SourceDir  = "dir"
	SourceHTTP = "http"
)

// Default configuration values.
const (
	DefaultSource    = SourceDir
	DefaultDataDir   = "."
	DefaultWorkspace = ".modmaker/workspace.db"
	DefaultLogLevel  = "warn"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPort      = 8765
	DefaultTimeout   = source.DefaultTimeout

	DefaultDilemmasDir    = loader.DefaultDilemmasDir
	DefaultPoliciesPath   = loader.DefaultPoliciesPath
	DefaultSlidersPath    = loader.DefaultSlidersPath
	DefaultSimulationPath = loader.DefaultSimulationPath
	DefaultWorkers        = loader.DefaultWorkers
	DefaultExportPath     = modpack.DefaultFilename
)

// Config holds all CLI configuration options.
type Config struct {
	Source           string        `koanf:"source"`
	DataDir          string        `koanf:"data_dir"`
	BaseURL          string        `koanf:"base_url"`
	DilemmasDir      string        `koanf:"dilemmas_dir"`
	PoliciesPath     string        `koanf:"policies_path"`
	SlidersPath      string        `koanf:"sliders_path"`
	SimulationPath   string        `koanf:"simulation_path"`
	FallbackDilemmas []string      `koanf:"fallback_dilemmas"`
	Workers          int           `koanf:"workers"`
	HTTPTimeout      time.Duration `koanf:"http_timeout"`
	Workspace        string        `koanf:"workspace"`
	Verbose          bool          `koanf:"verbose"`
	LogLevel         string        `koanf:"log_level"`
	OutputFormat     string        `koanf:"output"`
	Export           ExportConfig  `koanf:"export"`
	Serve            ServeConfig   `koanf:"serve"`

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string `koanf:"-"`
}

// ExportConfig holds settings for mod export.
type ExportConfig struct {
	Path string `koanf:"path"`
}

// ServeConfig holds configuration for the API server.
type ServeConfig struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
}

// defaults returns the flat default key map loaded before anything else.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"source":            DefaultSource,
		"data_dir":          DefaultDataDir,
		"base_url":          "",
		"dilemmas_dir":      DefaultDilemmasDir,
		"policies_path":     DefaultPoliciesPath,
		"sliders_path":      DefaultSlidersPath,
		"simulation_path":   DefaultSimulationPath,
		"fallback_dilemmas": append([]string(nil), loader.DefaultFallbackDilemmas...),
		"workers":           DefaultWorkers,
		"http_timeout":      DefaultTimeout.String(),
		"workspace":         DefaultWorkspace,
		"verbose":           false,
		"log_level":         DefaultLogLevel,
		"output":            DefaultOutput,
		"export.path":       DefaultExportPath,
		"serve.port":        DefaultPort,
		"serve.watch":       true,
	}
}
