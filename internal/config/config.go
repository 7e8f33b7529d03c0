// Package config resolves the bridge's settings: the Page4U endpoint
// and API token. Precedence, lowest to highest: built-in defaults,
// page4u.toml, .env files, real environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL = "https://page4u.app"

	EnvAPIToken   = "PAGE4U_API_TOKEN"
	EnvAPIBaseURL = "PAGE4U_API_URL"
)

type Config struct {
	APIBaseURL string `toml:"api_url"`
	APIToken   string `toml:"api_token"`
}

func Default() Config {
	return Config{APIBaseURL: DefaultAPIBaseURL}
}

// Load resolves the configuration. A missing token is not an error
// here: the transport reports it on first use, so read-only commands
// like version keep working.
func Load(configPath string) (Config, error) {
	if err := loadDotEnvPrecedence(); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := mergeUserConfig(&cfg, configPath); err != nil {
		return Config{}, err
	}
	mergeEnv(&cfg)

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	cfg.APIToken = strings.TrimSpace(cfg.APIToken)
	return cfg, nil
}

// loadDotEnvPrecedence reads .env then .env.local into the process
// environment without overriding values already set by the caller.
func loadDotEnvPrecedence() error {
	for _, name := range []string{".env", ".env.local"} {
		values, err := godotenv.Read(name)
		if err != nil {
			continue
		}
		for k, v := range values {
			if _, exists := os.LookupEnv(k); !exists {
				if setErr := os.Setenv(k, v); setErr != nil {
					return setErr
				}
			}
		}
	}
	return nil
}

// mergeUserConfig overlays an optional TOML config file. An explicit
// path must exist; the default search (cwd, then the user config dir)
// tolerates absence.
func mergeUserConfig(cfg *Config, configPath string) error {
	explicit := configPath != ""
	candidates := []string{configPath}
	if !explicit {
		candidates = []string{"page4u.toml"}
		if base, err := os.UserConfigDir(); err == nil {
			candidates = append(candidates, filepath.Join(base, "page4u", "config.toml"))
		}
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if _, err := os.Stat(candidate); err != nil {
			if explicit {
				return fmt.Errorf("config file %s: %w", candidate, err)
			}
			continue
		}
		if _, err := toml.DecodeFile(candidate, cfg); err != nil {
			return fmt.Errorf("config file %s: %w", candidate, err)
		}
		return nil
	}
	return nil
}

func mergeEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIToken)); v != "" {
		cfg.APIToken = v
	}
}
