package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/paths"
)

// Load merges the embedded defaults, the user config file, and
// DOTBACK_-prefixed environment variables into a Config. The overrides
// map has the highest priority and carries CLI flag values, keyed in
// koanf dotted form (e.g. "retention.keep_last").
func Load(p paths.Paths, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. User config file, if present
	userPath := p.UserConfigPath()
	if _, err := os.Stat(userPath); err == nil {
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load user config from %s", userPath)
		}
		logger.Debug().Str("path", userPath).Msg("Loaded user config")
	}

	// 3. Environment variables: DOTBACK_RETENTION_KEEP_LAST -> retention.keep_last
	// The first underscore separates section from key; the rest of the
	// key keeps its underscores. Candidate lists are not addressable
	// this way; only scalar keys are.
	err := k.Load(env.Provider("DOTBACK_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "DOTBACK_"))
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Programmatic overrides (CLI flags)
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}

	logger.Debug().
		Int("files", len(cfg.Candidates.Files)).
		Int("directories", len(cfg.Candidates.Directories)).
		Int("keepLast", cfg.Retention.KeepLast).
		Msg("Configuration loaded")

	return &cfg, nil
}
