package guardrails

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kiwifruitpeter/curator/internal/logging"
)

// Input budget: ~8000 tokens at four characters per token.
const (
	maxInputTokens = 8000
	charsPerToken  = 4
	maxInputChars  = maxInputTokens * charsPerToken
)

var (
	ErrBlockedTopic    = errors.New("blocked topic")
	ErrOffTopic        = errors.New("no allowlisted topic")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidResponse = errors.New("invalid response")
)

// allowlistTopics must appear at least once in the combined input text.
var allowlistTopics = []string{
	"machine learning", "artificial intelligence", "deep learning",
	"large language model", "llm", "neural network", "transformer",
	"nlp", "natural language processing", "computer vision", "robotics",
	"generative ai", "prompt engineering", "fine-tuning", "inference",
	"gpu", "distributed training", "model optimization", "ai safety",
	"alignment",
}

// blocklistTopics reject the input outright. The blocklist is checked
// before the allowlist, so it always wins.
var blocklistTopics = []string{
	"stock", "financial", "cryptocurrency", "crypto", "bitcoin", "nft",
	"politics", "election", "misinformation", "conspiracy", "sports",
	"entertainment", "celebrity", "gossip", "gaming", "mobile app",
	"real estate", "dating",
}

// inputInjectionPatterns extend the sanitizer's set with code-execution
// and prototype-pollution probes seen in prompt-injection attempts.
var inputInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\\x[0-9a-fA-F]{2}`),
	regexp.MustCompile(`\\u[0-9a-fA-F]{4}`),
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)<iframe`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)data:text/html`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)\b(union\s+select|drop\s+table|insert\s+into|delete\s+from)\b`),
	regexp.MustCompile(`(?i)\beval\s*\(`),
	regexp.MustCompile(`(?i)\bexec\s*\(`),
	regexp.MustCompile(`(?i)\bsubprocess\b`),
	regexp.MustCompile(`__proto__`),
	regexp.MustCompile(`(?i)constructor\s*[\[(]`),
	regexp.MustCompile(`\$\{[^}]*\}`),
	regexp.MustCompile(`\{\{[^}]*\}\}`),
}

var (
	inputSpecialRe = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?;:'"()\-]`)
	inputControlRe = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
	collapseRe     = regexp.MustCompile(`\s+`)
	outputTagRe    = regexp.MustCompile(`<[^>]+>`)
	outputMdRe     = regexp.MustCompile("[*_~`#]")
	jsonFenceRe    = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
)

// FilterTopic checks that the text is on-topic for generation: no
// blocklisted topic present, at least one allowlisted topic present.
func FilterTopic(text string) error {
	lower := strings.ToLower(text)

	for _, topic := range blocklistTopics {
		if strings.Contains(lower, topic) {
			return fmt.Errorf("%w: %s", ErrBlockedTopic, topic)
		}
	}

	for _, topic := range allowlistTopics {
		if strings.Contains(lower, topic) {
			return nil
		}
	}
	return ErrOffTopic
}

// ValidateInput rejects empty input, input over the character budget,
// injection patterns, control characters and text with more than 20%
// special characters.
func ValidateInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidInput)
	}
	if len(text) > maxInputChars {
		return fmt.Errorf("%w: %d chars over budget of %d", ErrInvalidInput, len(text), maxInputChars)
	}

	for _, re := range inputInjectionPatterns {
		if re.MatchString(text) {
			return fmt.Errorf("%w: injection pattern %q", ErrInvalidInput, re.String())
		}
	}

	if inputControlRe.MatchString(text) {
		return fmt.Errorf("%w: control characters", ErrInvalidInput)
	}

	specials := len(inputSpecialRe.FindAllString(text, -1))
	if float64(specials)/float64(len(text)) > 0.20 {
		return fmt.Errorf("%w: special character density too high", ErrInvalidInput)
	}

	return nil
}

// ValidateSchema parses the provider's response as a JSON object and
// requires every listed key to be present and non-empty. Suspicious
// patterns inside string values are flagged in the log but do not reject.
// A fenced code block around the JSON is tolerated.
func ValidateSchema(content string, requiredKeys []string) (map[string]interface{}, error) {
	if m := jsonFenceRe.FindStringSubmatch(content); m != nil {
		content = m[1]
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	for _, key := range requiredKeys {
		value, ok := obj[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrInvalidResponse, key)
		}
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, fmt.Errorf("%w: empty value for %q", ErrInvalidResponse, key)
			}
		case []interface{}:
			if len(v) == 0 {
				return nil, fmt.Errorf("%w: empty list for %q", ErrInvalidResponse, key)
			}
		case nil:
			return nil, fmt.Errorf("%w: null value for %q", ErrInvalidResponse, key)
		}
	}

	flagSuspicious(obj)
	return obj, nil
}

func flagSuspicious(obj map[string]interface{}) {
	for key, value := range obj {
		s, ok := value.(string)
		if !ok {
			continue
		}
		for _, re := range inputInjectionPatterns {
			if re.MatchString(s) {
				logging.Warn("suspicious pattern in generated field", "key", key, "pattern", re.String())
				break
			}
		}
	}
}

// SanitizeOutput strips markup from every string field, collapses
// whitespace and stringifies non-string list elements. Nested objects are
// sanitized recursively.
func SanitizeOutput(obj map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(obj))
	for key, value := range obj {
		out[key] = sanitizeValue(value)
	}
	return out
}

func sanitizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return sanitizeString(v)
	case []interface{}:
		items := make([]interface{}, len(v))
		for i, item := range v {
			if s, ok := item.(string); ok {
				items[i] = sanitizeString(s)
			} else if nested, ok := item.(map[string]interface{}); ok {
				items[i] = SanitizeOutput(nested)
			} else {
				items[i] = fmt.Sprint(item)
			}
		}
		return items
	case map[string]interface{}:
		return SanitizeOutput(v)
	default:
		return value
	}
}

func sanitizeString(s string) string {
	s = outputTagRe.ReplaceAllString(s, "")
	s = outputMdRe.ReplaceAllString(s, "")
	s = collapseRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
