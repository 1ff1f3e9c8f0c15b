package feedfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kiwifruitpeter/curator/internal/model"
)

func TestSaveAndLoadFeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "feed.json")

	doc := model.NewDocument([]model.Record{
		{ID: "a1", Title: "First", SourceURL: "https://example.com/1"},
	})
	if err := Save(path, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadFeed(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.TotalItems != 1 || got.Items[0].ID != "a1" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Version != "1.0" {
		t.Errorf("unexpected version: %q", got.Version)
	}

	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file not cleaned up")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFeed(filepath.Join(dir, "missing.json")); err == nil {
		t.Errorf("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFeed(bad); err == nil {
		t.Errorf("expected error for malformed file")
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ideas.json")

	doc := model.NewArtifactDocument([]model.Artifact{
		{ID: "i1", ArticleID: "a1", VideoTitle: "Idea", ContentOutline: []string{"intro"}},
	})
	if err := Save(path, doc); err != nil {
		t.Fatal(err)
	}

	got, err := LoadArtifacts(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Items[0].VideoTitle != "Idea" || len(got.Items[0].ContentOutline) != 1 {
		t.Errorf("round trip mismatch: %+v", got.Items[0])
	}
}
