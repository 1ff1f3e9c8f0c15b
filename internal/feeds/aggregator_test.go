package feeds

import (
	"context"
	"fmt"
	"testing"

	"github.com/kiwifruitpeter/curator/internal/model"
)

type fakeSource struct {
	name    string
	records []model.Record
	err     error
}

func (f *fakeSource) Name() string     { return f.name }
func (f *fakeSource) Type() SourceType { return SourceRSS }

func (f *fakeSource) Fetch(ctx context.Context) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.records, f.err
}

func rec(title, url string) model.Record {
	return model.Record{ID: model.RecordID(url), Title: title, SourceURL: url}
}

func TestFetchAllMergesAndDeduplicates(t *testing.T) {
	a := NewAggregator()
	a.AddSource(&fakeSource{name: "one", records: []model.Record{
		rec("First", "https://example.com/1"),
		rec("Second", "https://example.com/2"),
	}})
	a.AddSource(&fakeSource{name: "two", records: []model.Record{
		rec("Second again", "https://example.com/2"),
		rec("Third", "https://example.com/3"),
	}})

	if err := a.FetchAll(context.Background()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	records := a.Records()
	if len(records) != 3 {
		t.Fatalf("expected 3 unique records, got %d", len(records))
	}

	seen := map[string]bool{}
	for _, r := range records {
		if seen[r.SourceURL] {
			t.Errorf("duplicate URL survived merge: %s", r.SourceURL)
		}
		seen[r.SourceURL] = true
	}
}

func TestFetchAllFailSoft(t *testing.T) {
	a := NewAggregator()
	a.AddSource(&fakeSource{name: "good", records: []model.Record{rec("Item", "https://example.com/a")}})
	a.AddSource(&fakeSource{name: "broken", err: fmt.Errorf("connection refused")})

	if err := a.FetchAll(context.Background()); err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}

	if len(a.Records()) != 1 {
		t.Errorf("expected 1 record from healthy source, got %d", len(a.Records()))
	}

	failed := a.Failed()
	if _, ok := failed["broken"]; !ok {
		t.Errorf("expected broken source recorded, got %v", failed)
	}

	// A later successful fetch clears the failure.
	a2 := NewAggregator()
	src := &fakeSource{name: "flaky", err: fmt.Errorf("timeout")}
	a2.AddSource(src)
	_ = a2.FetchAll(context.Background())
	src.err = nil
	src.records = []model.Record{rec("Recovered", "https://example.com/r")}
	_ = a2.FetchAll(context.Background())
	if len(a2.Failed()) != 0 {
		t.Errorf("expected failure cleared after recovery, got %v", a2.Failed())
	}
}

func TestFetchAllHonorsCancellation(t *testing.T) {
	a := NewAggregator()
	a.AddSource(&fakeSource{name: "one"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := a.FetchAll(ctx); err == nil {
		t.Errorf("expected context error")
	}
}
