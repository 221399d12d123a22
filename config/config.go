// Package config loads the analyzer configuration from strict JSON.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"morphparse/model"
)

// Config selects dictionaries and analysis defaults. CLI flags override it.
type Config struct {
	Dictionary       string          `json:"dictionary"`
	UserDictionaries []string        `json:"user_dictionaries,omitempty"`
	OOV              string          `json:"oov"`
	Mode             model.SplitMode `json:"mode"`
	SentenceLimit    int             `json:"sentence_limit"`
	DumpDir          string          `json:"dump_dir,omitempty"`
	Server           Server          `json:"server"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `json:"addr"`
	CacheSize      int      `json:"cache_size"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
	MaxBodyBytes   int64    `json:"max_body_bytes"`
}

// OOV provider names.
const (
	OOVUnknown  = "unknown"
	OOVSimple   = "simple"
	OOVGrouping = "grouping"
)

// Defaults returns a working configuration: IPADIC, MeCab-style unknown
// words, long units.
func Defaults() Config {
	return Config{
		Dictionary:    "ipa",
		OOV:           OOVUnknown,
		Mode:          model.SplitC,
		SentenceLimit: 4096,
		Server: Server{
			Addr:           ":8080",
			CacheSize:      1024,
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
	}
}

// Load reads path over Defaults, rejecting unknown fields.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode is Load for an arbitrary reader.
func Decode(r io.Reader) (Config, error) {
	cfg := Defaults()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if dec.More() {
		return Config{}, errors.New("config: trailing data after object")
	}
	return cfg, nil
}

// Parse is Decode for raw bytes.
func Parse(raw []byte) (Config, error) {
	return Decode(bytes.NewReader(raw))
}

// Validate checks the static constraints of cfg.
func Validate(cfg Config) error {
	switch strings.ToLower(cfg.Dictionary) {
	case "ipa", "ipadic", "uni", "unidic":
	default:
		return fmt.Errorf("config: unknown dictionary %q", cfg.Dictionary)
	}
	switch cfg.OOV {
	case OOVUnknown, OOVSimple, OOVGrouping:
	default:
		return fmt.Errorf("config: unknown oov provider %q", cfg.OOV)
	}
	if !cfg.Mode.Valid() {
		return fmt.Errorf("config: invalid mode %v", cfg.Mode)
	}
	if cfg.SentenceLimit < 1 {
		return errors.New("config: sentence_limit must be >= 1")
	}
	for _, p := range cfg.UserDictionaries {
		if strings.TrimSpace(p) == "" {
			return errors.New("config: user dictionary path cannot be empty")
		}
	}
	if cfg.Server.CacheSize < 1 {
		return errors.New("config: server.cache_size must be >= 1")
	}
	if cfg.Server.MaxBodyBytes < 1 {
		return errors.New("config: server.max_body_bytes must be >= 1")
	}
	return nil
}
