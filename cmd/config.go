package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".config/fid"
	envPrefix  = "FID"

	apiBaseURLKey      = "api.base_url"
	apiTimeoutKey      = "api.timeout"
	cacheStaleAfterKey = "cache.stale_after"

	defaultAPIBaseURL = "http://localhost:8000/api"
	defaultAPITimeout = 30 * time.Second
	defaultStaleAfter = 24 * time.Hour
)

// loadConfig layers flags over FID_* environment variables (a .env file in the
// working directory included) over config.toml over defaults.
func loadConfig(flags *pflag.FlagSet) (*viper.Viper, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := viper.New()
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	}

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(apiBaseURLKey, defaultAPIBaseURL)
	cfg.SetDefault(apiTimeoutKey, defaultAPITimeout)
	cfg.SetDefault(cacheStaleAfterKey, defaultStaleAfter)

	if flags != nil {
		for key, name := range map[string]string{apiBaseURLKey: "api-url", apiTimeoutKey: "timeout"} {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := cfg.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}
