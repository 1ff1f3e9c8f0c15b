package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// AI Models
	Models ModelConfig `json:"models"`

	// Pipeline thresholds
	Pipeline PipelineConfig `json:"pipeline"`

	// Generation result cache
	Cache CacheConfig `json:"cache"`

	// Read-only HTTP API
	API APIConfig `json:"api"`

	// Data file locations
	Files FileConfig `json:"files"`
}

// ModelConfig holds AI model settings
type ModelConfig struct {
	Claude ModelSettings `json:"claude"`
	Gemini ModelSettings `json:"gemini"`
}

// ModelSettings for a single AI provider
type ModelSettings struct {
	Enabled  bool   `json:"enabled"`
	APIKey   string `json:"api_key,omitempty"`
	Model    string `json:"model,omitempty"` // Specific model to use
	Priority int    `json:"priority"`        // Lower = higher priority for fallback
}

// PipelineConfig holds curation thresholds
type PipelineConfig struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
	MinMatches          int     `json:"min_matches"`
	MinComposite        float64 `json:"min_composite"`
	MaxItems            int     `json:"max_items"`
	RequestsPerMinute   int     `json:"requests_per_minute"` // Provider rate limit
}

// CacheConfig bounds the generation result cache
type CacheConfig struct {
	Capacity   int `json:"capacity"`
	TTLMinutes int `json:"ttl_minutes"`
}

// APIConfig for the read-only feed server
type APIConfig struct {
	ListenAddr string `json:"listen_addr"`
}

// FileConfig names the pipeline's data files
type FileConfig struct {
	DataDir     string `json:"data_dir"`
	SourcesFile string `json:"sources_file"`
	RawFile     string `json:"raw_file"`
	FeedFile    string `json:"feed_file"`
	IdeasFile   string `json:"ideas_file"`
	DBFile      string `json:"db_file"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Models: ModelConfig{
			Claude: ModelSettings{
				Enabled:  true,
				Priority: 1,
				Model:    "claude-sonnet-4-5-20250929",
			},
			Gemini: ModelSettings{
				Enabled:  false,
				Priority: 2,
				Model:    "gemini-3-flash-preview",
			},
		},
		Pipeline: PipelineConfig{
			SimilarityThreshold: 0.7,
			MinMatches:          1,
			MinComposite:        0.2,
			MaxItems:            30,
			RequestsPerMinute:   15,
		},
		Cache: CacheConfig{
			Capacity:   256,
			TTLMinutes: 360,
		},
		API: APIConfig{
			ListenAddr: ":8080",
		},
		Files: FileConfig{
			DataDir:     dataDir,
			SourcesFile: filepath.Join(dataDir, "sources.yaml"),
			RawFile:     filepath.Join(dataDir, "raw.json"),
			FeedFile:    filepath.Join(dataDir, "feed.json"),
			IdeasFile:   filepath.Join(dataDir, "video_ideas.json"),
			DBFile:      filepath.Join(dataDir, "curator.db"),
		},
	}
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

func defaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".curator", "data")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".curator", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults and try to auto-populate from environment
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.AutoPopulateFromEnv()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in API keys from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if key := os.Getenv("CLAUDE_API_KEY"); key != "" {
		c.Models.Claude.APIKey = key
		c.Models.Claude.Enabled = true
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.Models.Claude.APIKey = key
		c.Models.Claude.Enabled = true
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.Models.Gemini.APIKey = key
		c.Models.Gemini.Enabled = true
	}
}

// GetEnabledModels returns models that are enabled and have API keys
func (c *Config) GetEnabledModels() []string {
	var models []string
	if c.Models.Claude.Enabled && c.Models.Claude.APIKey != "" {
		models = append(models, "claude")
	}
	if c.Models.Gemini.Enabled && c.Models.Gemini.APIKey != "" {
		models = append(models, "gemini")
	}
	return models
}
