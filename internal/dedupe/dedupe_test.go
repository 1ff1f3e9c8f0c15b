package dedupe

import (
	"testing"

	"github.com/kiwifruitpeter/curator/internal/model"
)

func TestSimilaritySelf(t *testing.T) {
	for _, s := range []string{"a", "hello world", "google launches gemini 2.0 update"} {
		if sim := Similarity(s, s); sim != 1.0 {
			t.Errorf("Similarity(%q, %q) = %f, want 1.0", s, s, sim)
		}
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"openai releases new model", "openai releases a new model"},
		{"abc", "xyz"},
		{"google launches gemini", "google launches gemini 2.0"},
		{"short", "a much longer unrelated title"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q,%q)=%f but reversed=%f", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("Similarity(%q,%q)=%f outside [0,1]", p[0], p[1], ab)
		}
	}
}

func TestSimilarityUnrelated(t *testing.T) {
	if sim := Similarity("abcdef", "uvwxyz"); sim != 0.0 {
		t.Errorf("expected 0.0 for disjoint strings, got %f", sim)
	}
	if sim := Similarity("", ""); sim != 1.0 {
		t.Errorf("expected 1.0 for two empty strings, got %f", sim)
	}
	if sim := Similarity("abc", ""); sim != 0.0 {
		t.Errorf("expected 0.0 against empty string, got %f", sim)
	}
}

func TestDedupeCaseOnlyDifference(t *testing.T) {
	records := []model.Record{
		{ID: "1", Title: "Google launches Gemini 2.0 update"},
		{ID: "2", Title: "Google launches Gemini 2.0 Update"},
	}

	out := Dedupe(records, DefaultThreshold)
	if len(out) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(out))
	}
	if out[0].ID != "1" {
		t.Errorf("expected first occurrence kept, got %q", out[0].ID)
	}
}

func TestDedupeExactMatchIgnoresThreshold(t *testing.T) {
	records := []model.Record{
		{ID: "1", Title: "Same title"},
		{ID: "2", Title: "same title"},
	}

	// Even an impossible threshold cannot save an exact duplicate.
	out := Dedupe(records, 1.1)
	if len(out) != 1 {
		t.Fatalf("expected exact duplicate removed, got %d records", len(out))
	}
}

func TestDedupeNearDuplicate(t *testing.T) {
	records := []model.Record{
		{ID: "1", Title: "OpenAI releases new coding model today"},
		{ID: "2", Title: "OpenAI releases new coding model today!"},
		{ID: "3", Title: "Quantum chip breakthrough announced"},
	}

	out := Dedupe(records, DefaultThreshold)
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].ID != "1" || out[1].ID != "3" {
		t.Errorf("expected [1 3] in stable order, got [%s %s]", out[0].ID, out[1].ID)
	}
}

func TestDedupeSubstringRule(t *testing.T) {
	records := []model.Record{
		{ID: "1", Title: "Anthropic announces Claude update for enterprise customers worldwide"},
		{ID: "2", Title: "Anthropic announces Claude update"},
	}

	out := Dedupe(records, DefaultThreshold)
	if len(out) != 1 {
		t.Fatalf("expected substring duplicate removed, got %d records", len(out))
	}
}

func TestDedupeShortTitlesNotSubstringMatched(t *testing.T) {
	// Both under the 20-char guard; "ai" is a substring of "ai lab" but the
	// titles are short, and the similarity ratio is below threshold.
	records := []model.Record{
		{ID: "1", Title: "ai lab expands fast"},
		{ID: "2", Title: "ai"},
	}

	out := Dedupe(records, DefaultThreshold)
	if len(out) != 2 {
		t.Fatalf("expected both short titles kept, got %d", len(out))
	}
}

func TestDedupeIdempotent(t *testing.T) {
	records := []model.Record{
		{ID: "1", Title: "OpenAI releases new coding model"},
		{ID: "2", Title: "openai releases new coding model"},
		{ID: "3", Title: "Quantum chip breakthrough announced"},
		{ID: "4", Title: "Robotics startup raises funding"},
	}

	once := Dedupe(records, DefaultThreshold)
	twice := Dedupe(once, DefaultThreshold)

	if len(once) != len(twice) {
		t.Fatalf("dedupe not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("order changed at %d: %q vs %q", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestDedupeDropsEmptyTitles(t *testing.T) {
	records := []model.Record{
		{ID: "1", Title: ""},
		{ID: "2", Title: "A real title"},
	}

	out := Dedupe(records, DefaultThreshold)
	if len(out) != 1 || out[0].ID != "2" {
		t.Fatalf("expected empty-title record dropped, got %+v", out)
	}
}
