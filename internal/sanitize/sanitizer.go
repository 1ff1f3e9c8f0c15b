// Package sanitize cleans and validates raw record text before it enters
// the curation pipeline: markup/boilerplate stripping, token-budget
// truncation, injection screening and source-domain trust checks.
package sanitize

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/kiwifruitpeter/curator/internal/logging"
	"github.com/kiwifruitpeter/curator/internal/model"
)

// One token is approximated as four characters of text.
const charsPerToken = 4

// DefaultAllowedDomains is the source-domain trust allowlist. A URL is
// accepted when its host equals an entry or is a subdomain of one.
var DefaultAllowedDomains = []string{
	"newsapi.org",
	"reddit.com",
	"twitter.com",
	"x.com",
	"github.com",
	"arxiv.org",
	"medium.com",
	"techcrunch.com",
	"wired.com",
	"theverge.com",
	"arstechnica.com",
	"nature.com",
	"science.org",
	"openai.com",
	"deepmind.com",
	"anthropic.com",
}

var (
	ErrUntrustedDomain = errors.New("untrusted source domain")
	ErrInvalidContent  = errors.New("invalid content")
)

// injectionPatterns are the fixed screening rules for content validation.
// Any match fails the text in strict mode.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\\x[0-9a-fA-F]{2}`),
	regexp.MustCompile(`\\u[0-9a-fA-F]{4}`),
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)\b(union\s+select|drop\s+table|insert\s+into|delete\s+from|update\s+\w+\s+set)\b`),
	regexp.MustCompile(`\$\{[^}]*\}`),
	regexp.MustCompile(`\{\{[^}]*\}\}`),
}

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	mdHeaderRe   = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	mdBoldRe     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	mdItalicRe   = regexp.MustCompile(`\*([^*]+)\*`)
	mdStrikeRe   = regexp.MustCompile(`~~([^~]+)~~`)
	mdCodeRe     = regexp.MustCompile("`([^`]+)`")
	mdImageRe    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	ansiEscapeRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Characters outside letters, digits, whitespace and basic punctuation.
	specialCharRe = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?;:'"()\-]`)
	// Control characters except newline, tab and carriage return.
	controlCharRe = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&#39;", "'",
)

// boilerplatePatterns match promotional and footer phrasing that adds no
// content value. Matches are removed to the end of the sentence or line.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)read more[^.\n]*\.?`),
	regexp.MustCompile(`(?im)click here[^.\n]*\.?`),
	regexp.MustCompile(`(?im)continue reading[^.\n]*\.?`),
	regexp.MustCompile(`(?im)subscribe to our[^.\n]*\.?`),
	regexp.MustCompile(`(?im)sign up for[^.\n]*\.?`),
	regexp.MustCompile(`(?im)follow us on[^.\n]*\.?`),
	regexp.MustCompile(`(?im)share this[^.\n]*\.?`),
	regexp.MustCompile(`(?im)for more information[^.\n]*\.?`),
	regexp.MustCompile(`(?im)if you found this helpful[^.\n]*\.?`),
	regexp.MustCompile(`(?im)the post .* appeared first on .*$`),
	regexp.MustCompile(`(?im)copyright\s*(©|\(c\))?\s*\d{4}[^.\n]*\.?`),
	regexp.MustCompile(`(?im)all rights reserved\.?`),
	regexp.MustCompile(`©\s*\d{4}[^.\n]*`),
}

// Sanitizer cleans record text and enforces the trust policy. In strict
// mode any violation rejects the record; otherwise violations are logged
// and the record passes through.
type Sanitizer struct {
	MaxBodyTokens  int
	Strict         bool
	AllowedDomains []string
}

// New returns a Sanitizer with the default policy: strict validation,
// the default domain allowlist and a 2000-token body budget.
func New() *Sanitizer {
	return &Sanitizer{
		MaxBodyTokens:  2000,
		Strict:         true,
		AllowedDomains: DefaultAllowedDomains,
	}
}

// StripMarkup removes HTML tags, decodes the six common HTML entities,
// strips Markdown syntax and ANSI escapes, and collapses whitespace.
// Link text is kept; image alt text and URLs are dropped.
func (s *Sanitizer) StripMarkup(text string) string {
	if text == "" {
		return ""
	}

	text = htmlTagRe.ReplaceAllString(text, " ")
	text = entityReplacer.Replace(text)

	text = mdImageRe.ReplaceAllString(text, " ")
	text = mdLinkRe.ReplaceAllString(text, "$1")
	text = mdHeaderRe.ReplaceAllString(text, "")
	text = mdBoldRe.ReplaceAllString(text, "$1")
	text = mdItalicRe.ReplaceAllString(text, "$1")
	text = mdStrikeRe.ReplaceAllString(text, "$1")
	text = mdCodeRe.ReplaceAllString(text, "$1")

	text = ansiEscapeRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// StripBoilerplate removes promotional/footer phrases, case-insensitively,
// and collapses whitespace again.
func (s *Sanitizer) StripBoilerplate(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range boilerplatePatterns {
		text = re.ReplaceAllString(text, " ")
	}
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Truncate limits text to an approximate token budget. Over-budget text is
// reduced to its first and last paragraph joined by an ellipsis marker;
// if that is still too long the text is hard-truncated.
func (s *Sanitizer) Truncate(text string, maxTokens int) string {
	maxChars := maxTokens * charsPerToken
	if len(text) <= maxChars {
		return text
	}

	const marker = "\n\n[...]\n\n"
	paragraphs := strings.Split(text, "\n\n")
	if len(paragraphs) >= 2 {
		first := paragraphs[0]
		last := paragraphs[len(paragraphs)-1]
		if len(first)+len(last)+len(marker) <= maxChars {
			return first + marker + last
		}
	}

	if maxChars <= 3 {
		return text[:maxChars]
	}
	return text[:maxChars-3] + "..."
}

// ValidateContent checks text against the injection patterns, the special
// character density limit (15%) and the control character rule. Returns a
// descriptive error on the first violation.
func (s *Sanitizer) ValidateContent(text string) error {
	for _, re := range injectionPatterns {
		if re.MatchString(text) {
			return fmt.Errorf("%w: injection pattern %q", ErrInvalidContent, re.String())
		}
	}

	if len(text) > 0 {
		specials := len(specialCharRe.FindAllString(text, -1))
		if float64(specials)/float64(len(text)) > 0.15 {
			return fmt.Errorf("%w: special character density %.0f%%", ErrInvalidContent, 100*float64(specials)/float64(len(text)))
		}
	}

	if controlCharRe.MatchString(text) {
		return fmt.Errorf("%w: control characters present", ErrInvalidContent)
	}

	return nil
}

// ValidateSourceDomain accepts a URL only when its host, after stripping a
// leading "www.", exactly matches or is a subdomain of an allowlist entry.
func (s *Sanitizer) ValidateSourceDomain(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: unparseable URL %q", ErrUntrustedDomain, rawURL)
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	for _, domain := range s.AllowedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUntrustedDomain, host)
}

// SanitizeRecord validates the record's source domain, cleans title and
// body, truncates the body to the token budget and content-validates it.
// On success it returns a minimal sanitized record; any rejection in
// strict mode returns an error and the record is dropped. In non-strict
// mode violations are logged and the record passes.
func (s *Sanitizer) SanitizeRecord(rec model.Record) (model.Record, error) {
	if err := s.ValidateSourceDomain(rec.SourceURL); err != nil {
		if s.Strict {
			return model.Record{}, err
		}
		logging.Warn("source domain not in allowlist", "url", rec.SourceURL)
	}

	title := s.StripBoilerplate(s.StripMarkup(rec.Title))
	body := s.StripBoilerplate(s.StripMarkup(rec.Summary))
	body = s.Truncate(body, s.MaxBodyTokens)

	if err := s.ValidateContent(body); err != nil {
		if s.Strict {
			return model.Record{}, err
		}
		logging.Warn("content validation failed", "title", title, "err", err)
	}

	out := rec
	out.Title = title
	out.Summary = body
	return out, nil
}

// SanitizeBatch maps SanitizeRecord over the input, drops rejected records
// and logs the pass rate.
func (s *Sanitizer) SanitizeBatch(records []model.Record) []model.Record {
	out := make([]model.Record, 0, len(records))
	for i, rec := range records {
		clean, err := s.SanitizeRecord(rec)
		if err != nil {
			logging.Debug("record rejected by sanitizer", "index", i, "title", rec.Title, "err", err)
			continue
		}
		out = append(out, clean)
	}

	if len(records) > 0 {
		logging.Info("sanitized batch",
			"in", len(records),
			"out", len(out),
			"pass_rate", fmt.Sprintf("%.0f%%", 100*float64(len(out))/float64(len(records))))
	}
	return out
}
