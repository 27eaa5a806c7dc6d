package internal

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

type Config struct {
	Port           int    `env:"PORT,default=5000"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=data/badger"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`

	// InactivityThreshold governs eligibility for eviction; SweepInterval
	// only governs how often the sweep looks. They are deliberately
	// independent settings.
	InactivityThreshold time.Duration `env:"INACTIVITY_THRESHOLD,default=10s"`
	SweepInterval       time.Duration `env:"SWEEP_INTERVAL,default=15s"`

	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=15s"`

	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	CensoredWords  string `env:"CENSORED_WORDS"`

	DebugPort int `env:"DEBUG_PORT,default=8081"`
}

// Origins returns the configured CORS origins; empty means allow all.
func (c Config) Origins() []string {
	return splitCSV(c.AllowedOrigins)
}

// Words returns the censored-word list; empty disables moderation.
func (c Config) Words() []string {
	return splitCSV(c.CensoredWords)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Filter(parts, func(p string, _ int) bool { return p != "" })
}
