package store

import (
	"testing"
	"time"

	"github.com/kiwifruitpeter/curator/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(id, title string, published time.Time) model.Record {
	return model.Record{
		ID:             id,
		Title:          title,
		Summary:        "body text",
		Source:         "Test Wire",
		SourceURL:      "https://example.com/" + id,
		Published:      published,
		Tags:           []string{"llm", "machine learning"},
		CompositeScore: 0.5,
	}
}

func TestSaveAndGetRecords(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	records := []model.Record{
		testRecord("a1", "First", now),
		testRecord("b2", "Second", now.Add(-time.Hour)),
	}
	records[0].CompositeScore = 0.9
	records[1].CompositeScore = 0.3

	n, err := s.SaveRecords(records)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 new rows, got %d", n)
	}

	got, err := s.GetRecords(0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "a1" {
		t.Errorf("expected composite ordering, got %s first", got[0].ID)
	}
	if len(got[0].Tags) != 2 || got[0].Tags[0] != "llm" {
		t.Errorf("tags did not round-trip: %v", got[0].Tags)
	}
}

func TestSaveRecordsUpsert(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()

	rec := testRecord("a1", "Original", now)
	if _, err := s.SaveRecords([]model.Record{rec}); err != nil {
		t.Fatal(err)
	}

	rec.Title = "Updated"
	rec.CompositeScore = 0.8
	if _, err := s.SaveRecords([]model.Record{rec}); err != nil {
		t.Fatal(err)
	}

	count, err := s.RecordCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected upsert to keep 1 row, got %d", count)
	}

	got, _ := s.GetRecords(1)
	if got[0].Title != "Updated" {
		t.Errorf("expected updated title, got %q", got[0].Title)
	}
}

func TestArtifacts(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()

	if _, err := s.SaveRecords([]model.Record{testRecord("a1", "Article", now)}); err != nil {
		t.Fatal(err)
	}

	artifacts := []model.Artifact{
		{
			ID:                       "idea-1",
			ArticleID:                "a1",
			VideoTitle:               "Build it today",
			ContentOutline:           []string{"intro", "demo", "wrap"},
			TargetDurationMinutes:    10,
			EstimatedEngagementScore: 0.62,
		},
	}

	n, err := s.SaveArtifacts(artifacts)
	if err != nil {
		t.Fatalf("save artifacts: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 new artifact, got %d", n)
	}

	// Re-saving the same ID is a no-op.
	n, err = s.SaveArtifacts(artifacts)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected duplicate insert ignored, got %d", n)
	}

	got, err := s.GetArtifacts("a1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].VideoTitle != "Build it today" {
		t.Fatalf("unexpected artifacts: %+v", got)
	}
	if len(got[0].ContentOutline) != 3 {
		t.Errorf("outline did not round-trip: %v", got[0].ContentOutline)
	}

	all, err := s.AllArtifacts(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 artifact overall, got %d", len(all))
	}
}

func TestPruneOlderThan(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()

	records := []model.Record{
		testRecord("fresh", "Fresh", now),
		testRecord("stale", "Stale", now.Add(-60*24*time.Hour)),
	}
	if _, err := s.SaveRecords(records); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveArtifacts([]model.Artifact{{ID: "i1", ArticleID: "stale", VideoTitle: "Old idea"}}); err != nil {
		t.Fatal(err)
	}

	removed, err := s.PruneOlderThan(now.Add(-30 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 record pruned, got %d", removed)
	}

	count, _ := s.RecordCount()
	if count != 1 {
		t.Errorf("expected 1 record left, got %d", count)
	}
	ideas, _ := s.GetArtifacts("stale")
	if len(ideas) != 0 {
		t.Errorf("expected orphan artifacts pruned, got %d", len(ideas))
	}
}
