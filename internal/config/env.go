package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Environment variables read by Resolve. Empty values count as unset.
const (
	EnvDBDriver   = "DB_DRIVER"
	EnvDBHost     = "DB_HOST"
	EnvDBPort     = "DB_PORT"
	EnvDBName     = "DB_NAME"
	EnvDBUser     = "DB_USER"
	EnvDBPassword = "DB_PASSWORD"
	EnvDBSSLMode  = "DB_SSLMODE"
	EnvQueryFile  = "OFFER_QUERY_FILE"
	EnvOutputFile = "OFFER_OUTPUT_FILE"
	EnvSheetName  = "OFFER_SHEET_NAME"
	EnvDebug      = "OFFER_DEBUG"
)

const DefaultEnvFile = ".env"

type ResolveOptions struct {
	// ConfigFile is an optional YAML file. Empty means the per-user file
	// read by Load.
	ConfigFile string
	// EnvFile is read before the process environment. Empty means DefaultEnvFile.
	EnvFile string
}

// Resolve layers defaults, the YAML file, the .env file and the process
// environment, in increasing precedence. Values are taken as given: a missing
// database name or an unparsable port is left for the driver to reject.
func Resolve(opts ResolveOptions) (Config, error) {
	cfg, err := loadBase(opts.ConfigFile)
	if err != nil {
		return Config{}, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
		return Config{}, fmt.Errorf("read env file %s: %w", envFile, err)
	}
	v.AutomaticEnv()

	applyEnv(v, &cfg)
	return cfg, nil
}

func loadBase(p string) (Config, error) {
	if p == "" {
		cfg, err := LoadOrDefault()
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := LoadFile(p)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, ErrNotFound):
		return Default(), nil
	default:
		return Config{}, fmt.Errorf("read config %s: %w", p, err)
	}
}

func applyEnv(v *viper.Viper, cfg *Config) {
	set := func(env string) (string, bool) {
		key := strings.ToLower(env)
		if !v.IsSet(key) {
			return "", false
		}
		return v.GetString(key), true
	}

	portWasDefault := cfg.DB.Port == DefaultPort(cfg.DB.Driver)

	if val, ok := set(EnvDBDriver); ok {
		cfg.DB.Driver = DBDriver(strings.ToLower(strings.TrimSpace(val)))
	}
	if _, ok := set(EnvDBPort); ok {
		cfg.DB.Port = v.GetInt(strings.ToLower(EnvDBPort))
	} else if portWasDefault {
		cfg.DB.Port = DefaultPort(cfg.DB.Driver)
	}
	if val, ok := set(EnvDBHost); ok {
		cfg.DB.Host = strings.TrimSpace(val)
	}
	if val, ok := set(EnvDBName); ok {
		cfg.DB.Database = val
	}
	if val, ok := set(EnvDBUser); ok {
		cfg.DB.User = val
	}
	if val, ok := set(EnvDBPassword); ok {
		cfg.DB.Password = val
	}
	if val, ok := set(EnvDBSSLMode); ok {
		cfg.DB.SSLMode = strings.TrimSpace(val)
	}
	if val, ok := set(EnvQueryFile); ok {
		cfg.Export.QueryFile = val
	}
	if val, ok := set(EnvOutputFile); ok {
		cfg.Export.OutputFile = val
	}
	if val, ok := set(EnvSheetName); ok {
		cfg.Export.SheetName = val
	}
	if _, ok := set(EnvDebug); ok {
		cfg.Debug = v.GetBool(strings.ToLower(EnvDebug))
	}
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
