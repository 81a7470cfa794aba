package config

import (
	"errors"
	"os"
	"sync"
)

type Config struct {
	Env            string
	LogLevel       string
	ListenAddr     string
	StorageBackend string
	StateFile      string
	PostgresDSN    string
	AuthToken      string
	AuthServiceURL string
	// NotifyWebhookURL receives best-effort reminder notifications;
	// empty disables the capability.
	NotifyWebhookURL string
	// CompleteReportURL is the optional remote completion endpoint;
	// empty disables reporting.
	CompleteReportURL string
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = loadDotEnv()
		cfg = &Config{
			Env:               getEnv("APP_ENV", "development"),
			LogLevel:          getEnv("LOG_LEVEL", "info"),
			ListenAddr:        getEnv("LISTEN_ADDR", ":3000"),
			StorageBackend:    getEnv("STORAGE_BACKEND", "file"),
			StateFile:         getEnv("STATE_FILE", "data/app_state.json"),
			PostgresDSN:       getEnv("POSTGRES_DSN", ""),
			AuthToken:         getEnv("AUTH_TOKEN", "MOCK-TOKEN"),
			AuthServiceURL:    getEnv("AUTH_SERVICE_URL", ""),
			NotifyWebhookURL:  getEnv("NOTIFY_WEBHOOK_URL", ""),
			CompleteReportURL: getEnv("COMPLETE_REPORT_URL", ""),
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.StorageBackend == "postgres" && c.PostgresDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.StorageBackend == "file" && c.StateFile == "" {
		return errors.New("File storage requires STATE_FILE to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	raw, err := os.ReadFile(".env")
	if err != nil {
		return err
	}
	for _, l := range splitLines(string(raw)) {
		if len(l) == 0 || l[0] == '#' {
			continue
		}
		kv := splitKV(l)
		if len(kv) == 2 {
			os.Setenv(kv[0], kv[1])
		}
	}
	return nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' || c == '\r' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func splitKV(s string) []string {
	for i, c := range s {
		if c == '=' {
			return []string{s[:i], s[i+1:]}
		}
	}
	return nil
}
