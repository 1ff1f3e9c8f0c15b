package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kiwifruitpeter/curator/internal/cache"
	"github.com/kiwifruitpeter/curator/internal/model"
	"github.com/kiwifruitpeter/curator/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, cache.New(8, time.Minute)), st
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(t, s, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetFeed(t *testing.T) {
	s, st := newTestServer(t)

	records := []model.Record{
		{ID: "a1", Title: "First", SourceURL: "https://example.com/1", CompositeScore: 0.9, Published: time.Now()},
		{ID: "b2", Title: "Second", SourceURL: "https://example.com/2", CompositeScore: 0.4, Published: time.Now()},
	}
	if _, err := st.SaveRecords(records); err != nil {
		t.Fatal(err)
	}

	w := get(t, s, "/api/feed?limit=10")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var doc model.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.TotalItems != 2 || len(doc.Items) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Items[0].ID != "a1" {
		t.Errorf("expected composite ordering, got %s first", doc.Items[0].ID)
	}
}

func TestGetFeedEmpty(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(t, s, "/api/feed")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var doc model.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Items == nil || len(doc.Items) != 0 {
		t.Errorf("expected empty items array, got %v", doc.Items)
	}
}

func TestGetRecordIdeas(t *testing.T) {
	s, st := newTestServer(t)

	if _, err := st.SaveRecords([]model.Record{{ID: "a1", Title: "Article", SourceURL: "https://example.com/1"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.SaveArtifacts([]model.Artifact{{ID: "i1", ArticleID: "a1", VideoTitle: "Idea"}}); err != nil {
		t.Fatal(err)
	}

	w := get(t, s, "/api/records/a1/ideas")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var doc model.ArtifactDocument
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.TotalItems != 1 || doc.Items[0].VideoTitle != "Idea" {
		t.Errorf("unexpected ideas: %+v", doc)
	}

	if w := get(t, s, "/api/records/missing/ideas"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown record, got %d", w.Code)
	}
}

func TestGetStats(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(t, s, "/api/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["records"]; !ok {
		t.Errorf("expected records count in stats: %v", body)
	}
	if _, ok := body["cache"]; !ok {
		t.Errorf("expected cache stats: %v", body)
	}
}
