package sanitize

import (
	"strings"
	"testing"

	"github.com/kiwifruitpeter/curator/internal/model"
)

func TestStripMarkup(t *testing.T) {
	s := New()

	got := s.StripMarkup(`<p>Hello <b>World</b></p>&nbsp;test`)
	if got != "Hello World test" {
		t.Errorf("expected %q, got %q", "Hello World test", got)
	}
}

func TestStripMarkupMarkdown(t *testing.T) {
	s := New()

	cases := map[string]string{
		"## Heading text":                  "Heading text",
		"some **bold** and *italic* words": "some bold and italic words",
		"see [the docs](https://a.io/d)":   "see the docs",
		"pic ![alt text](https://a.io/i)":  "pic",
		"uses `inline code` here":          "uses inline code here",
		"\x1b[31mred text\x1b[0m":          "red text",
	}
	for in, want := range cases {
		if got := s.StripMarkup(in); got != want {
			t.Errorf("StripMarkup(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripBoilerplate(t *testing.T) {
	s := New()

	got := s.StripBoilerplate("Great article body. Subscribe to our newsletter for updates. All rights reserved.")
	if strings.Contains(strings.ToLower(got), "subscribe") {
		t.Errorf("expected subscription line removed, got %q", got)
	}
	if strings.Contains(strings.ToLower(got), "rights reserved") {
		t.Errorf("expected rights line removed, got %q", got)
	}
	if !strings.Contains(got, "Great article body") {
		t.Errorf("expected content kept, got %q", got)
	}
}

func TestTruncateKeepsFirstAndLastParagraph(t *testing.T) {
	s := New()

	first := strings.Repeat("a", 40)
	middle := strings.Repeat("b", 500)
	last := strings.Repeat("c", 40)
	text := first + "\n\n" + middle + "\n\n" + last

	got := s.Truncate(text, 50) // 200 char budget
	if len(got) > 200 {
		t.Fatalf("expected at most 200 chars, got %d", len(got))
	}
	if !strings.HasPrefix(got, first) || !strings.HasSuffix(got, last) {
		t.Errorf("expected first and last paragraph kept, got %q", got)
	}
	if !strings.Contains(got, "[...]") {
		t.Errorf("expected ellipsis marker, got %q", got)
	}
}

func TestTruncateHard(t *testing.T) {
	s := New()

	text := strings.Repeat("x", 1000) // single paragraph
	got := s.Truncate(text, 25)       // 100 char budget
	if len(got) != 100 {
		t.Errorf("expected exactly 100 chars, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected trailing ellipsis, got %q", got[len(got)-10:])
	}

	short := "short text"
	if s.Truncate(short, 25) != short {
		t.Errorf("expected under-budget text unchanged")
	}
}

func TestValidateContent(t *testing.T) {
	s := New()

	bad := []string{
		"hello <script>alert(1)</script>",
		"click javascript:doEvil()",
		"<img onerror=pwn()>",
		"1; DROP TABLE users",
		"template ${payload} injection",
		"mustache {{payload}} injection",
		`escaped \x41 bytes`,
		"control\x00char",
	}
	for _, text := range bad {
		if err := s.ValidateContent(text); err == nil {
			t.Errorf("expected rejection for %q", text)
		}
	}

	if err := s.ValidateContent("A perfectly normal sentence about machine learning."); err != nil {
		t.Errorf("expected clean text to pass, got %v", err)
	}
}

func TestValidateContentSpecialDensity(t *testing.T) {
	s := New()

	// Over 15% of characters outside the basic set.
	if err := s.ValidateContent("abc ####%%%%@@@@"); err == nil {
		t.Errorf("expected rejection for high special-character density")
	}
}

func TestValidateSourceDomain(t *testing.T) {
	s := New()

	ok := []string{
		"https://techcrunch.com/2026/01/story",
		"https://www.wired.com/story",
		"https://blog.github.com/post", // subdomain of allowlisted domain
	}
	for _, u := range ok {
		if err := s.ValidateSourceDomain(u); err != nil {
			t.Errorf("expected %q accepted, got %v", u, err)
		}
	}

	bad := []string{
		"https://example-shop.biz/deal",
		"https://evil-techcrunch.com/story", // not a subdomain match
		"not a url",
	}
	for _, u := range bad {
		if err := s.ValidateSourceDomain(u); err == nil {
			t.Errorf("expected %q rejected", u)
		}
	}
}

func TestSanitizeRecordRejectsUntrustedDomain(t *testing.T) {
	s := New()

	_, err := s.SanitizeRecord(model.Record{
		Title:     "Big discount on widgets",
		Summary:   "Some body",
		SourceURL: "https://example-shop.biz/deal",
	})
	if err == nil {
		t.Fatalf("expected rejection for untrusted domain")
	}
}

func TestSanitizeBatch(t *testing.T) {
	s := New()

	records := []model.Record{
		{Title: "<b>AI model</b> released", Summary: "A clean body about machine learning.", SourceURL: "https://techcrunch.com/a"},
		{Title: "Spam", Summary: "body", SourceURL: "https://example-shop.biz/x"},
	}

	out := s.SanitizeBatch(records)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving record, got %d", len(out))
	}
	if out[0].Title != "AI model released" {
		t.Errorf("expected cleaned title, got %q", out[0].Title)
	}
}
