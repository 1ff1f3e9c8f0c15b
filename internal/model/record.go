// Package model defines the types that flow through the curation
// pipeline and the JSON document shapes exchanged at its boundaries.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Record is a single article/post candidate moving through the pipeline.
// It is created at ingestion, mutated in place as tags and scores are
// attached, and either retained in the curated output or dropped.
type Record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source"`
	SourceURL string    `json:"source_url"`
	Author    string    `json:"author,omitempty"`
	Published time.Time `json:"published,omitempty"`

	// Tags are free-form tags carried over from the feed entry.
	Tags []string `json:"tags,omitempty"`

	// VisualTags are the topic tags assigned by the categorizer,
	// at most three, ordered by match weight.
	VisualTags []string `json:"visual_tags,omitempty"`

	// TagRelevanceScore counts how many topic-vocabulary entries matched.
	TagRelevanceScore int `json:"tag_relevance_score"`

	RelevanceScore float64 `json:"relevance_score"`
	QualityScore   float64 `json:"quality_score"`
	SEOScore       float64 `json:"seo_score"`
	InterestScore  float64 `json:"interest_score"`
	CompositeScore float64 `json:"composite_score"`

	// VideoIdeas holds generated artifacts merged in by ID before the
	// final feed is emitted.
	VideoIdeas []Artifact `json:"video_ideas,omitempty"`
}

// Artifact is a generated content idea derived from a curated record.
type Artifact struct {
	ID                       string   `json:"id"`
	ArticleID                string   `json:"article_id"`
	VideoTitle               string   `json:"video_title"`
	VideoDescription         string   `json:"video_description"`
	ContentOutline           []string `json:"content_outline,omitempty"`
	TargetDurationMinutes    int      `json:"target_duration_minutes,omitempty"`
	SuggestedThumbnailPrompt string   `json:"suggested_thumbnail_prompt,omitempty"`
	DifficultyLevel          string   `json:"difficulty_level,omitempty"`
	EstimatedEngagementScore float64  `json:"estimated_engagement_score,omitempty"`
	VisualTags               []string `json:"visual_tags,omitempty"`
}

// Summary is the structured output of the summarization task for one record.
type Summary struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Summary        string   `json:"summary"`
	KeyPoints      []string `json:"key_points"`
	RelevanceScore float64  `json:"relevance_score"`
	Category       string   `json:"category"`
	Source         string   `json:"source"`
	SourceURL      string   `json:"source_url"`
}

// RecordID derives the stable identifier for a record from its canonical
// source URL: the first 16 hex characters of its SHA-256. Records without
// a URL get a time-based fallback so the ID is still unique.
func RecordID(sourceURL string) string {
	if sourceURL == "" {
		sourceURL = fmt.Sprintf("no-url-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(sourceURL)))[:16]
}

// MergeArtifacts attaches generated artifacts to their records by ID.
// Artifacts referencing an unknown record are ignored. Returns the number
// of artifacts attached.
func MergeArtifacts(records []Record, artifacts []Artifact) int {
	byID := make(map[string]int, len(records))
	for i := range records {
		byID[records[i].ID] = i
	}

	attached := 0
	for _, a := range artifacts {
		i, ok := byID[a.ArticleID]
		if !ok {
			continue
		}
		records[i].VideoIdeas = append(records[i].VideoIdeas, a)
		attached++
	}
	return attached
}
