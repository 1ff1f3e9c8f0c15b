// Package ideas holds the offline half of video idea generation: topic
// extraction, angle selection and engagement estimation. The provider
// produces the creative text; everything here is deterministic and runs
// without a network call.
package ideas

import (
	"hash/fnv"
	"regexp"
	"sort"
	"strings"
)

// AutomationAngles is the pool of builder-focused angles. ExtractAngle
// falls back to a deterministic pick from this list when no rule matches.
var AutomationAngles = []string{
	"workflow automation",
	"on-device inference",
	"local LLMs",
	"edge AI",
	"API integration",
	"cross-platform tools",
	"privacy-first AI",
	"cost optimization",
	"performance benchmarking",
	"developer tools",
	"model deployment",
	"inference optimization",
}

// AngleRule maps trigger terms to a builder angle. Rules are evaluated in
// order, first match wins.
type AngleRule struct {
	Triggers []string
	Angle    string
}

// AngleRules is the ordered angle table.
var AngleRules = []AngleRule{
	{Triggers: []string{"api", "sdk", "developer", "tool", "platform"}, Angle: "API integration"},
	{Triggers: []string{"local", "on-device", "edge", "offline"}, Angle: "edge AI"},
	{Triggers: []string{"privacy", "secure", "encrypted"}, Angle: "privacy-first AI"},
	{Triggers: []string{"cost", "price", "cheap", "affordable"}, Angle: "cost optimization"},
	{Triggers: []string{"speed", "performance", "fast", "benchmark"}, Angle: "performance benchmarking"},
	{Triggers: []string{"deploy", "production", "infrastructure"}, Angle: "model deployment"},
}

// ExtractAngle picks the builder angle for an article. Unmatched articles
// get a stable pick from AutomationAngles keyed on the text, so repeated
// runs agree.
func ExtractAngle(title, summary string) string {
	text := strings.ToLower(title + " " + summary)

	for _, rule := range AngleRules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(text, trigger) {
				return rule.Angle
			}
		}
	}

	h := fnv.New32a()
	h.Write([]byte(text))
	return AutomationAngles[int(h.Sum32())%len(AutomationAngles)]
}

// Signals are editorial cues read off the article text. They feed the
// engagement estimate.
type Signals struct {
	Breakthrough  bool
	Announcement  bool
	ExecChange    bool
	StrategyShift bool
}

var (
	breakthroughTerms  = []string{"breakthrough", "revolutionary", "game-changer"}
	announcementTerms  = []string{"announces", "unveils", "launches", "releases"}
	execChangeTerms    = []string{"executive", "ceo", "leaves", "departs", "resigns"}
	strategyShiftTerms = []string{"strategy", "pivot", "shift", "new direction"}
)

// Analyze reads editorial signals from the combined article text.
func Analyze(text string) Signals {
	lower := strings.ToLower(text)
	has := func(terms []string) bool {
		for _, t := range terms {
			if strings.Contains(lower, t) {
				return true
			}
		}
		return false
	}
	return Signals{
		Breakthrough:  has(breakthroughTerms),
		Announcement:  has(announcementTerms),
		ExecChange:    has(execChangeTerms),
		StrategyShift: has(strategyShiftTerms),
	}
}

// Estimate holds the component scores behind an engagement estimate.
type Estimate struct {
	Trend      float64
	SEO        float64
	Uniqueness float64
	Engagement float64
}

// Engagement weights.
const (
	weightTrend      = 0.4
	weightSEO        = 0.35
	weightUniqueness = 0.25
)

// Estimate computes the expected engagement for an idea from its signals
// and keyword coverage. Engagement is the weighted sum of the three
// component scores.
func (s Signals) Estimate(keywordCount int) Estimate {
	e := Estimate{Trend: 0.5, SEO: 0.5, Uniqueness: 0.6}
	if s.Announcement || s.Breakthrough {
		e.Trend = 0.6
	}
	if keywordCount >= 6 {
		e.SEO = 0.7
	}
	if s.Breakthrough || s.ExecChange {
		e.Uniqueness = 0.8
	}
	e.Engagement = e.Trend*weightTrend + e.SEO*weightSEO + e.Uniqueness*weightUniqueness
	return e
}

var (
	multiWordEntityRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2}\b`)
	singleWordRe      = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
)

var excludedWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "may": true, "might": true, "must": true,
	"can": true, "this": true, "that": true, "these": true, "those": true,
	"after": true, "before": true, "during": true, "while": true, "when": true,
	"where": true, "why": true, "how": true, "what": true, "which": true,
	"who": true, "if": true, "then": true, "else": true, "because": true,
	"since": true, "until": true, "unless": true, "although": true,
	"however": true, "therefore": true, "meanwhile": true,
}

var knownEntities = map[string]bool{
	"openai": true, "deepmind": true, "anthropic": true, "google": true,
	"microsoft": true, "meta": true, "amazon": true, "aws": true,
	"nvidia": true, "intel": true, "amd": true, "apple": true, "ibm": true,
	"gpt": true, "claude": true, "gemini": true, "llama": true, "mistral": true,
	"copilot": true, "chatgpt": true, "sora": true, "transformer": true,
	"waymo": true, "midjourney": true,
}

var aiTechTerms = map[string]bool{
	"ai": true, "ml": true, "llm": true, "nlp": true, "neural": true,
	"deep": true, "learning": true, "algorithm": true, "model": true,
	"dataset": true, "training": true, "inference": true, "robotics": true,
	"automation": true, "autonomous": true, "quantum": true,
}

// ExtractTopics pulls up to max key topics out of the text: multi-word
// capitalized entities first, then known companies and AI terms, then
// repeated capitalized words.
func ExtractTopics(text string, max int) []string {
	if text == "" || max <= 0 {
		return nil
	}

	var topics []string
	seen := map[string]bool{}

	add := func(topic string) {
		lower := strings.ToLower(topic)
		if !seen[lower] && !excludedWords[lower] {
			topics = append(topics, topic)
			seen[lower] = true
		}
	}

	for _, entity := range multiWordEntityRe.FindAllString(text, -1) {
		add(entity)
	}

	for _, word := range singleWordRe.FindAllString(text, -1) {
		lower := strings.ToLower(word)
		if knownEntities[lower] || aiTechTerms[lower] || strings.Count(text, word) >= 2 {
			add(word)
		}
	}

	priority := func(topic string) int {
		lower := strings.ToLower(topic)
		switch {
		case strings.Contains(topic, " "):
			return 0
		case knownEntities[lower] || aiTechTerms[lower]:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return priority(topics[i]) < priority(topics[j])
	})

	if len(topics) > max {
		topics = topics[:max]
	}
	return topics
}

// Keywords builds the target keyword list for an idea: extracted topics
// plus the angle and the builder staples, deduplicated, capped at 8.
func Keywords(topics []string, angle string) []string {
	combined := append(append([]string{}, topics...), angle, "automation", "AI builders", "workflow")

	var out []string
	seen := map[string]bool{}
	for _, kw := range combined {
		lower := strings.ToLower(kw)
		if kw != "" && !seen[lower] {
			out = append(out, kw)
			seen[lower] = true
		}
	}
	if len(out) > 8 {
		out = out[:8]
	}
	return out
}
