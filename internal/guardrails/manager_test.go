package guardrails

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kiwifruitpeter/curator/internal/cache"
	"github.com/kiwifruitpeter/curator/internal/model"
)

// stubProvider returns a canned response and records how often it was
// called.
type stubProvider struct {
	content string
	err     error
	calls   int
}

func (s *stubProvider) Name() string    { return "stub" }
func (s *stubProvider) Available() bool { return true }

func (s *stubProvider) Generate(ctx context.Context, req Request) (Response, error) {
	s.calls++
	if s.err != nil {
		return Response{}, s.err
	}
	return Response{Content: s.content, Model: "stub-1"}, nil
}

func newStubManager(content string) (*Manager, *stubProvider) {
	stub := &stubProvider{content: content}
	pm := NewProviderManager()
	pm.AddProvider(stub)
	return NewManager(pm, nil, cache.New(16, time.Minute)), stub
}

const summaryJSON = `{
	"title": "Model release",
	"summary": "A new model improves reasoning benchmarks.",
	"key_points": ["benchmark gains", "open weights"],
	"relevance_score": 0.8,
	"category": "research"
}`

const ideaJSON = `{
	"video_title": "Testing the new model",
	"video_description": "We put the release through real tasks.",
	"content_outline": ["intro", "setup", "benchmarks", "verdict"],
	"target_duration_minutes": 12,
	"suggested_thumbnail_prompt": "robot at a workbench",
	"difficulty_level": "intermediate",
	"estimated_engagement_score": 0.7
}`

func TestProcessRunsFullSequence(t *testing.T) {
	m, stub := newStubManager(`{"title": "<b>Tagged</b> title", "summary": "fine", "key_points": ["a"], "relevance_score": 0.5, "category": "research"}`)

	obj, err := m.Process(context.Background(), SummarizationTask, "new large language model released")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("expected one provider call, got %d", stub.calls)
	}
	if obj["title"].(string) != "Tagged title" {
		t.Errorf("expected sanitized output, got %q", obj["title"])
	}
}

func TestProcessRejectsBeforeProviderCall(t *testing.T) {
	m, stub := newStubManager(summaryJSON)

	cases := map[string]struct {
		input string
		want  error
	}{
		"blocked topic": {"llm predicts bitcoin moves", ErrBlockedTopic},
		"off topic":     {"gardening tips for spring", ErrOffTopic},
		"injection":     {"machine learning <script>x</script>", ErrInvalidInput},
	}
	for name, tc := range cases {
		if _, err := m.Process(context.Background(), SummarizationTask, tc.input); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", name, tc.want, err)
		}
	}
	if stub.calls != 0 {
		t.Errorf("expected no provider calls for rejected input, got %d", stub.calls)
	}
}

func TestProcessRejectsBadResponse(t *testing.T) {
	m, _ := newStubManager(`{"title": "only a title"}`)

	_, err := m.Process(context.Background(), SummarizationTask, "neural network training advances")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected schema rejection, got %v", err)
	}
}

func TestProcessWrapsProviderError(t *testing.T) {
	stub := &stubProvider{err: fmt.Errorf("upstream 500")}
	pm := NewProviderManager()
	pm.AddProvider(stub)
	m := NewManager(pm, nil, nil)

	_, err := m.Process(context.Background(), SummarizationTask, "transformer architecture overview")
	if err == nil || !errors.Is(err, stub.err) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}

func TestSummarizeRecordMemoizes(t *testing.T) {
	m, stub := newStubManager(summaryJSON)
	rec := model.Record{
		ID:      "abc123",
		Title:   "Big model news",
		Summary: "A deep learning model was released with open weights for inference.",
		Source:  "Example Wire",
	}

	first, err := m.SummarizeRecord(context.Background(), rec)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if first.ID != "abc123" || first.RelevanceScore != 0.8 {
		t.Errorf("unexpected summary: %+v", first)
	}
	if first.Category != "research" || len(first.KeyPoints) != 2 {
		t.Errorf("unexpected fields: %+v", first)
	}

	second, err := m.SummarizeRecord(context.Background(), rec)
	if err != nil {
		t.Fatalf("expected cached success, got %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("expected memoized second call, provider called %d times", stub.calls)
	}
	if second.Title != first.Title {
		t.Errorf("cached summary differs: %q vs %q", second.Title, first.Title)
	}
}

func TestGenerateIdeaGatesOnRelevance(t *testing.T) {
	m, stub := newStubManager(ideaJSON)

	low := model.Summary{ID: "r1", Title: "Minor ai note", Summary: "machine learning aside", RelevanceScore: 0.4}
	if _, err := m.GenerateIdea(context.Background(), low); err == nil {
		t.Errorf("expected low-relevance summary rejected")
	}
	if stub.calls != 0 {
		t.Errorf("expected no provider call for gated summary")
	}

	high := model.Summary{
		ID:             "r2",
		Title:          "Major release",
		Summary:        "A large language model with open weights.",
		KeyPoints:      []string{"weights", "benchmarks"},
		RelevanceScore: 0.9,
	}
	artifact, err := m.GenerateIdea(context.Background(), high)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if artifact.ArticleID != "r2" {
		t.Errorf("expected artifact linked to summary, got %q", artifact.ArticleID)
	}
	if artifact.ID == "" {
		t.Errorf("expected generated artifact ID")
	}
	if artifact.TargetDurationMinutes != 12 {
		t.Errorf("unexpected duration: %d", artifact.TargetDurationMinutes)
	}
	if artifact.EstimatedEngagementScore != 0.7 {
		t.Errorf("unexpected engagement: %f", artifact.EstimatedEngagementScore)
	}
}

func TestGenerateIdeaFallbackEngagement(t *testing.T) {
	zeroed := `{
		"video_title": "t",
		"video_description": "d",
		"content_outline": ["a"],
		"target_duration_minutes": 8,
		"suggested_thumbnail_prompt": "p",
		"difficulty_level": "beginner",
		"estimated_engagement_score": 0.0
	}`
	m, _ := newStubManager(zeroed)

	sum := model.Summary{
		ID:             "r3",
		Title:          "Company announces breakthrough llm",
		Summary:        "a large language model release",
		RelevanceScore: 0.9,
	}
	artifact, err := m.GenerateIdea(context.Background(), sum)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if artifact.EstimatedEngagementScore <= 0 {
		t.Errorf("expected offline engagement fallback, got %f", artifact.EstimatedEngagementScore)
	}
}

func TestSummarizeBatchFailSoft(t *testing.T) {
	m, _ := newStubManager(summaryJSON)

	records := []model.Record{
		{ID: "ok1", Title: "LLM release", Summary: "large language model weights published"},
		{ID: "bad1", Title: "Crypto rally", Summary: "bitcoin price surges on speculation"},
		{ID: "ok2", Title: "Vision work", Summary: "computer vision model for robotics arrives"},
	}

	summaries, failures := m.SummarizeBatch(context.Background(), records)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if failures["blocked_topic"] != 1 {
		t.Errorf("expected one blocked_topic failure, got %v", failures)
	}
}

func TestGenerateIdeasCountsGated(t *testing.T) {
	m, _ := newStubManager(ideaJSON)

	summaries := []model.Summary{
		{ID: "a", Title: "LLM deep dive", Summary: "large language model analysis", RelevanceScore: 0.9},
		{ID: "b", Title: "Side note", Summary: "machine learning mention", RelevanceScore: 0.2},
	}

	artifacts, failures := m.GenerateIdeas(context.Background(), summaries)
	if len(artifacts) != 1 {
		t.Fatalf("expected 1 artifact, got %d", len(artifacts))
	}
	if failures["low_relevance"] != 1 {
		t.Errorf("expected one low_relevance failure, got %v", failures)
	}
}
