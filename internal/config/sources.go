package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FeedSource is one RSS feed in the sources file.
type FeedSource struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled *bool  `yaml:"enabled,omitempty"` // nil means enabled
}

// Sources is the sources.yaml document.
type Sources struct {
	Feeds []FeedSource `yaml:"feeds"`
}

// DefaultSources returns the built-in feed list, used when no sources
// file exists.
func DefaultSources() *Sources {
	return &Sources{
		Feeds: []FeedSource{
			{Name: "TechCrunch AI", URL: "https://techcrunch.com/category/artificial-intelligence/feed/"},
			{Name: "The Verge AI", URL: "https://www.theverge.com/rss/ai-artificial-intelligence/index.xml"},
			{Name: "VentureBeat AI", URL: "https://venturebeat.com/category/ai/feed/"},
			{Name: "MIT Technology Review", URL: "https://www.technologyreview.com/feed/"},
			{Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/technology-lab"},
		},
	}
}

// LoadSources reads the sources file, falling back to the defaults when
// the file does not exist.
func LoadSources(path string) (*Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSources(), nil
		}
		return nil, fmt.Errorf("read sources: %w", err)
	}

	var src Sources
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("parse sources: %w", err)
	}
	if len(src.Feeds) == 0 {
		return DefaultSources(), nil
	}
	return &src, nil
}

// Enabled returns the feeds that are not explicitly disabled.
func (s *Sources) Enabled() []FeedSource {
	var out []FeedSource
	for _, f := range s.Feeds {
		if f.Enabled == nil || *f.Enabled {
			out = append(out, f)
		}
	}
	return out
}
