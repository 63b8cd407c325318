// Package config loads and saves spendsync.yaml.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/spendsync/internal/importer"
	"github.com/cleared-dev/spendsync/internal/model"
	"github.com/cleared-dev/spendsync/internal/preview"
)

// FileName is the config file relative to the workspace root.
const FileName = "spendsync.yaml"

// Config represents the top-level spendsync.yaml configuration.
type Config struct {
	Import  ImportConfig  `yaml:"import"`
	Preview PreviewConfig `yaml:"preview"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Git     GitConfig     `yaml:"git"`
}

// ImportConfig controls statement parsing and refund matching.
type ImportConfig struct {
	User           string   `yaml:"user,omitempty"` // default owner of imported records
	ClosingDay     int      `yaml:"closing_day"`
	Category       string   `yaml:"category"`
	ReferencedTo   string   `yaml:"referenced_to"`
	Tolerance      string   `yaml:"tolerance"` // decimal, e.g. "0.01"
	ExcludePhrases []string `yaml:"exclude_phrases"`
	RefundPhrases  []string `yaml:"refund_phrases"`
}

// PreviewConfig controls preview summaries.
type PreviewConfig struct {
	TopN            int    `yaml:"top_n"`
	DefaultCategory string `yaml:"default_category"`
}

// StorageConfig locates the expense database.
type StorageConfig struct {
	Path string `yaml:"path"` // relative paths resolve against the workspace root
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// GitConfig controls committing workspace changes after imports.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a spendsync.yaml file from disk. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the stock settings for a new workspace.
func Default() *Config {
	pc := importer.DefaultConfig()
	vc := preview.DefaultConfig()
	return &Config{
		Import: ImportConfig{
			ClosingDay:     pc.ClosingDay,
			Category:       model.DefaultCategory,
			ReferencedTo:   model.DefaultReferencedTo,
			Tolerance:      pc.Tolerance.String(),
			ExcludePhrases: pc.ExcludePhrases,
			RefundPhrases:  pc.RefundPhrases,
		},
		Preview: PreviewConfig{
			TopN:            vc.TopN,
			DefaultCategory: vc.DefaultCategory,
		},
		Storage: StorageConfig{
			Path: "spendsync.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Git: GitConfig{
			AuthorName:  "spendsync",
			AuthorEmail: "spendsync@localhost",
		},
	}
}

// ApplyEnv overrides values from environment variables: LOG_LEVEL,
// LOG_FORMAT and SPENDSYNC_DB.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv("SPENDSYNC_DB"); v != "" {
		c.Storage.Path = v
	}
}

// ParserConfig converts the import section into parser settings.
func (c *Config) ParserConfig() (importer.Config, error) {
	tol, err := decimal.NewFromString(c.Import.Tolerance)
	if err != nil {
		return importer.Config{}, fmt.Errorf("parsing import.tolerance %q: %w", c.Import.Tolerance, err)
	}
	if tol.IsNegative() {
		return importer.Config{}, fmt.Errorf("import.tolerance %s must not be negative", tol)
	}
	if c.Import.ClosingDay < 1 || c.Import.ClosingDay > 31 {
		return importer.Config{}, fmt.Errorf("import.closing_day %d not in 1..31", c.Import.ClosingDay)
	}
	return importer.Config{
		ClosingDay:     c.Import.ClosingDay,
		Category:       c.Import.Category,
		ReferencedTo:   c.Import.ReferencedTo,
		Tolerance:      tol,
		ExcludePhrases: c.Import.ExcludePhrases,
		RefundPhrases:  c.Import.RefundPhrases,
	}, nil
}

// AggregatorConfig converts the preview section into aggregator settings.
func (c *Config) AggregatorConfig() preview.Config {
	return preview.Config{
		TopN:            c.Preview.TopN,
		DefaultCategory: c.Preview.DefaultCategory,
	}
}
