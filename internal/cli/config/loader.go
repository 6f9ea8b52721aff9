package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read into the config.
// A double underscore separates nested keys: MODMAKER_SERVE__PORT.
const EnvPrefix = "MODMAKER_"

// configNames are the file names searched in the working directory.
var configNames = []string{"modmaker.yaml", "modmaker.yml"}

// pathKeys are resolved against the config file directory when they come
// from the file.
var pathKeys = []string{"data_dir", "workspace", "export.path"}

// findConfigFile finds the config file to use.
// Priority: explicit path > modmaker.yaml > modmaker.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// envKey transforms MODMAKER_SERVE__PORT into serve.port.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// flagKey maps a flag to its config key, skipping flags that were not set.
func flagKey(flags *pflag.FlagSet) func(f *pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed || f.Name == "config" {
			return "", nil
		}
		// Transform kebab-case to snake_case for config keys
		key := strings.ReplaceAll(f.Name, "-", "_")
		return key, posflag.FlagVal(flags, f)
	}
}

// LoadConfig loads configuration from defaults, the config file,
// environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	used := findConfigFile(cfgFile)
	fk := koanf.New(".")
	if used != "" {
		if err := fk.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
		if err := k.Merge(fk); err != nil {
			return nil, fmt.Errorf("error merging config file %s: %w", used, err)
		}
	}

	// 3. Load environment variables (MODMAKER_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Paths that still hold the file's value are relative to the file
	if used != "" {
		cfg.ConfigFile = used
		base := filepath.Dir(used)
		if abs, err := filepath.Abs(used); err == nil {
			cfg.ConfigFile = abs
			base = filepath.Dir(abs)
		}
		for _, key := range pathKeys {
			if !fk.Exists(key) || fk.String(key) != k.String(key) {
				continue
			}
			cfg.setPath(key, resolvePathRelativeTo(k.String(key), base))
		}
	}

	return &cfg, nil
}

func (c *Config) setPath(key, value string) {
	switch key {
	case "data_dir":
		c.DataDir = value
	case "workspace":
		c.Workspace = value
	case "export.path":
		c.Export.Path = value
	}
}
