package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIURL         string `yaml:"api_url"`
	Token          string `yaml:"token,omitempty"`
	TokenFile      string `yaml:"token_file,omitempty"`
	AuthScheme     string `yaml:"auth_scheme,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	LogFile        string `yaml:"log_file"`
	HistoryDB      string `yaml:"history_db"`
	Debug          bool   `yaml:"debug"`
}

// GetConfigDir returns ~/.switchboard.
func GetConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".switchboard")
}

// DefaultPath returns the config file path, honoring SWITCHBOARD_CONFIG.
func DefaultPath() string {
	if p := os.Getenv("SWITCHBOARD_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(GetConfigDir(), "config.yml")
}

func defaults() *Config {
	dir := GetConfigDir()
	return &Config{
		TimeoutSeconds: 10,
		LogFile:        filepath.Join(dir, "switchboard.log"),
		HistoryDB:      filepath.Join(dir, "history.db"),
	}
}

// Load reads the default config file and ./.env, then applies the environment.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath(), ".env")
}

// LoadFrom layers defaults, the YAML file at path, the dotenv file at envFile
// and the process environment, in that order. Missing files are skipped.
func LoadFrom(path, envFile string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if envFile != "" {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var errs []error
	cfg.APIURL = getEnv("SWITCHBOARD_API_URL", cfg.APIURL)
	cfg.Token = getEnv("SWITCHBOARD_TOKEN", cfg.Token)
	cfg.TokenFile = getEnv("SWITCHBOARD_TOKEN_FILE", cfg.TokenFile)
	cfg.AuthScheme = getEnv("SWITCHBOARD_AUTH_SCHEME", cfg.AuthScheme)
	cfg.LogFile = getEnv("SWITCHBOARD_LOG_FILE", cfg.LogFile)
	cfg.HistoryDB = getEnv("SWITCHBOARD_HISTORY_DB", cfg.HistoryDB)

	timeout, err := getEnvInt("SWITCHBOARD_TIMEOUT_SECONDS", cfg.TimeoutSeconds)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.TimeoutSeconds = timeout

	debug, err := getEnvBool("SWITCHBOARD_DEBUG", cfg.Debug)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Debug = debug

	errs = append(errs, validate(cfg)...)
	if err := joinErrors(errs); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) []error {
	var errs []error
	if strings.TrimSpace(cfg.APIURL) == "" {
		errs = append(errs, errors.New("missing API URL: set api_url or SWITCHBOARD_API_URL"))
	}
	if cfg.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("SWITCHBOARD_TIMEOUT_SECONDS must be > 0"))
	}
	return errs
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Token != "" {
		c.Token = "********"
	}
	return c
}

// YAML renders the config in file format.
func (c Config) YAML() (string, error) {
	data, err := yaml.Marshal(&c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid int for env %s: %q", key, v)
	}
	return i, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid bool for env %s: %q", key, v)
	}
	return b, nil
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
