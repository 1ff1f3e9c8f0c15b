package guardrails

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kiwifruitpeter/curator/internal/cache"
	"github.com/kiwifruitpeter/curator/internal/ideas"
	"github.com/kiwifruitpeter/curator/internal/logging"
	"github.com/kiwifruitpeter/curator/internal/metrics"
	"github.com/kiwifruitpeter/curator/internal/model"
)

// MinIdeaRelevance gates idea generation: summaries scored below this by
// the summarization pass never reach the provider.
const MinIdeaRelevance = 0.5

// Manager wraps every provider call in the guardrail sequence:
// topic filter, input validation, generation, output schema validation,
// output sanitization. Safety checks fail closed; per-record failures in
// batch operations are recorded and skipped, never fatal.
type Manager struct {
	providers *ProviderManager
	limiter   *rate.Limiter
	results   *cache.Cache
}

// NewManager creates a guardrails manager. limiter throttles provider
// calls (nil means unthrottled); results memoizes summaries by record ID
// (nil disables memoization).
func NewManager(providers *ProviderManager, limiter *rate.Limiter, results *cache.Cache) *Manager {
	return &Manager{
		providers: providers,
		limiter:   limiter,
		results:   results,
	}
}

// Process runs one guarded generation: the input passes the topic filter
// and input validator, the provider's response must parse into the task's
// schema, and every string field is sanitized before return.
func (m *Manager) Process(ctx context.Context, task Task, userMessage string) (map[string]interface{}, error) {
	if err := FilterTopic(userMessage); err != nil {
		return nil, err
	}
	if err := ValidateInput(userMessage); err != nil {
		return nil, err
	}

	provider := m.providers.GetAvailable()
	if provider == nil {
		return nil, fmt.Errorf("no provider available")
	}

	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := provider.Generate(ctx, Request{
		SystemPrompt: task.SystemPrompt,
		UserPrompt:   userMessage,
		Temperature:  task.Temperature,
	})
	if err != nil {
		metrics.ProviderCalls.WithLabelValues(provider.Name(), "error").Inc()
		return nil, fmt.Errorf("provider %s: %w", provider.Name(), err)
	}
	metrics.ProviderCalls.WithLabelValues(provider.Name(), "ok").Inc()

	obj, err := ValidateSchema(resp.Content, task.RequiredKeys)
	if err != nil {
		return nil, err
	}

	return SanitizeOutput(obj), nil
}

// SummarizeRecord runs the summarization task for one curated record.
// Results are memoized by record ID when a cache is configured.
func (m *Manager) SummarizeRecord(ctx context.Context, rec model.Record) (model.Summary, error) {
	if m.results != nil {
		if v, ok := m.results.Get("summary:" + rec.ID); ok {
			metrics.CacheHits.Inc()
			return v.(model.Summary), nil
		}
		metrics.CacheMisses.Inc()
	}

	message := fmt.Sprintf("Title: %s\n\nSource: %s\n\nArticle:\n%s", rec.Title, rec.Source, rec.Summary)
	obj, err := m.Process(ctx, SummarizationTask, message)
	if err != nil {
		return model.Summary{}, err
	}

	sum := model.Summary{
		ID:             rec.ID,
		Title:          stringField(obj, "title"),
		Summary:        stringField(obj, "summary"),
		KeyPoints:      stringList(obj, "key_points"),
		RelevanceScore: floatField(obj, "relevance_score"),
		Category:       stringField(obj, "category"),
		Source:         rec.Source,
		SourceURL:      rec.SourceURL,
	}

	if m.results != nil {
		m.results.Set("summary:"+rec.ID, sum)
	}
	return sum, nil
}

// GenerateIdea runs the idea-generation task for one summary. Summaries
// below the relevance gate are rejected without a provider call.
func (m *Manager) GenerateIdea(ctx context.Context, sum model.Summary) (model.Artifact, error) {
	if sum.RelevanceScore < MinIdeaRelevance {
		return model.Artifact{}, fmt.Errorf("relevance %.2f below %.2f gate", sum.RelevanceScore, MinIdeaRelevance)
	}

	message := fmt.Sprintf("Title: %s\n\nSummary: %s\n\nKey points: %s",
		sum.Title, sum.Summary, strings.Join(sum.KeyPoints, "; "))
	obj, err := m.Process(ctx, IdeaTask, message)
	if err != nil {
		return model.Artifact{}, err
	}

	artifact := model.Artifact{
		ID:                       uuid.NewString(),
		ArticleID:                sum.ID,
		VideoTitle:               stringField(obj, "video_title"),
		VideoDescription:         stringField(obj, "video_description"),
		ContentOutline:           stringList(obj, "content_outline"),
		TargetDurationMinutes:    int(floatField(obj, "target_duration_minutes")),
		SuggestedThumbnailPrompt: stringField(obj, "suggested_thumbnail_prompt"),
		DifficultyLevel:          stringField(obj, "difficulty_level"),
		EstimatedEngagementScore: floatField(obj, "estimated_engagement_score"),
	}

	// Providers sometimes omit or zero the engagement estimate; fall back
	// to the offline signal-based estimate.
	if artifact.EstimatedEngagementScore <= 0 {
		text := sum.Title + " " + sum.Summary
		angle := ideas.ExtractAngle(sum.Title, sum.Summary)
		keywords := ideas.Keywords(ideas.ExtractTopics(text, 5), angle)
		artifact.EstimatedEngagementScore = ideas.Analyze(text).Estimate(len(keywords)).Engagement
	}

	return artifact, nil
}

// SummarizeBatch summarizes records one by one. A failure on one record
// is counted and skipped; the batch always completes.
func (m *Manager) SummarizeBatch(ctx context.Context, records []model.Record) ([]model.Summary, map[string]int) {
	summaries := make([]model.Summary, 0, len(records))
	failures := make(map[string]int)

	for _, rec := range records {
		sum, err := m.SummarizeRecord(ctx, rec)
		if err != nil {
			failures[reasonFor(err)]++
			logging.Warn("summarization failed", "id", rec.ID, "title", rec.Title, "err", err)
			continue
		}
		summaries = append(summaries, sum)
	}

	logging.Info("summarization batch complete", "in", len(records), "out", len(summaries))
	return summaries, failures
}

// GenerateIdeas produces artifacts for summaries that clear the relevance
// gate, fail-soft per summary.
func (m *Manager) GenerateIdeas(ctx context.Context, summaries []model.Summary) ([]model.Artifact, map[string]int) {
	artifacts := make([]model.Artifact, 0, len(summaries))
	failures := make(map[string]int)

	for _, sum := range summaries {
		artifact, err := m.GenerateIdea(ctx, sum)
		if err != nil {
			failures[reasonFor(err)]++
			logging.Debug("idea generation skipped", "id", sum.ID, "err", err)
			continue
		}
		artifacts = append(artifacts, artifact)
	}

	logging.Info("idea generation complete", "in", len(summaries), "out", len(artifacts))
	return artifacts, failures
}

func reasonFor(err error) string {
	switch {
	case err == nil:
		return ""
	case strings.Contains(err.Error(), "blocked topic"):
		return "blocked_topic"
	case strings.Contains(err.Error(), "no allowlisted topic"):
		return "off_topic"
	case strings.Contains(err.Error(), "invalid input"):
		return "invalid_input"
	case strings.Contains(err.Error(), "invalid response"):
		return "invalid_response"
	case strings.Contains(err.Error(), "below"):
		return "low_relevance"
	default:
		return "provider_error"
	}
}

func stringField(obj map[string]interface{}, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

func floatField(obj map[string]interface{}, key string) float64 {
	if f, ok := obj[key].(float64); ok {
		return f
	}
	return 0
}

func stringList(obj map[string]interface{}, key string) []string {
	items, ok := obj[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out
}
