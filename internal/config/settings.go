package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handiism/synset-downloader/internal/model"
)

const (
	defaultOutputDir  = "images"
	defaultAgendaFile = "download_agenda.txt"
	defaultLookupURL  = "http://www.image-net.org/api/text/imagenet.synset.geturls"
	defaultWorkers    = 720
)

// Settings holds all configuration options.
type Settings struct {
	// Worklist settings
	OutputDir  string   `json:"output_dir" yaml:"output_dir"`
	AgendaFile string   `json:"agenda_file" yaml:"agenda_file"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// URL lookup settings
	LookupURL             string  `json:"lookup_url" yaml:"lookup_url"`
	LookupTimeout         float64 `json:"lookup_timeout" yaml:"lookup_timeout"`
	LookupMaxRetries      int     `json:"lookup_max_retries" yaml:"lookup_max_retries"`
	LookupRetryCooldown   float64 `json:"lookup_retry_cooldown" yaml:"lookup_retry_cooldown"`
	MaxConcurrentResolves int     `json:"max_concurrent_resolves" yaml:"max_concurrent_resolves"`

	// Download settings
	Workers        int     `json:"workers" yaml:"workers"`
	FetchTimeout   float64 `json:"fetch_timeout" yaml:"fetch_timeout"`
	DequeueTimeout float64 `json:"dequeue_timeout" yaml:"dequeue_timeout"`
	UserAgent      string  `json:"user_agent" yaml:"user_agent"`

	// Image settings
	JPEGQuality  int `json:"jpeg_quality" yaml:"jpeg_quality"`
	MaxImageSize int `json:"max_image_size" yaml:"max_image_size"` // 0 keeps the original size
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:  defaultOutputDir,
		AgendaFile: defaultAgendaFile,

		LookupURL:             defaultLookupURL,
		LookupTimeout:         5,
		LookupMaxRetries:      10,
		LookupRetryCooldown:   0.5,
		MaxConcurrentResolves: 1,

		Workers:        defaultWorkers,
		FetchTimeout:   5,
		DequeueTimeout: 1,
		UserAgent:      "SynsetDownloader",

		JPEGQuality:  90,
		MaxImageSize: 0,
	}
}

// Load reads settings from a JSON or YAML file. The format is chosen by
// extension: .yml and .yaml are YAML, anything else is JSON.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if len(data) == 0 {
		return settings, nil
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the downloader cannot run with.
func (s *Settings) Validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("invalid workers: %d (must be >= 1)", s.Workers)
	}
	if s.MaxConcurrentResolves < 1 {
		return fmt.Errorf("invalid max_concurrent_resolves: %d (must be >= 1)", s.MaxConcurrentResolves)
	}
	if s.LookupMaxRetries < 1 {
		return fmt.Errorf("invalid lookup_max_retries: %d (must be >= 1)", s.LookupMaxRetries)
	}
	if s.JPEGQuality < 1 || s.JPEGQuality > 100 {
		return fmt.Errorf("invalid jpeg_quality: %d (must be 1..100)", s.JPEGQuality)
	}
	if s.MaxImageSize < 0 {
		return fmt.Errorf("invalid max_image_size: %d", s.MaxImageSize)
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if s.FetchTimeout <= 0 || s.LookupTimeout <= 0 || s.DequeueTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// CategoryOverride returns the configured categories, or nil when the
// worklist file should be used.
func (s *Settings) CategoryOverride() []model.Category {
	return model.ParseCategories(strings.Join(s.Categories, ","))
}

// FetchTimeoutDuration returns the per-image request timeout.
func (s *Settings) FetchTimeoutDuration() time.Duration {
	return seconds(s.FetchTimeout)
}

// LookupTimeoutDuration returns the per-request URL lookup timeout.
func (s *Settings) LookupTimeoutDuration() time.Duration {
	return seconds(s.LookupTimeout)
}

// LookupRetryCooldownDuration returns the pause between lookup attempts.
func (s *Settings) LookupRetryCooldownDuration() time.Duration {
	return seconds(s.LookupRetryCooldown)
}

// DequeueTimeoutDuration returns how long a worker waits for a work item
// before re-checking the queue.
func (s *Settings) DequeueTimeoutDuration() time.Duration {
	return seconds(s.DequeueTimeout)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}
