// Package topics assigns weighted topic tags to records from a fixed
// vocabulary and enforces the hard-reject keyword rules that keep
// off-topic content out of the pipeline.
package topics

import (
	"sort"
	"strings"

	"github.com/kiwifruitpeter/curator/internal/logging"
	"github.com/kiwifruitpeter/curator/internal/model"
)

// TitleNegativeKeywords reject a record outright when found in the title.
// No AI-keyword override applies; shopping and holiday roundups are never
// curated even when they mention AI products.
var TitleNegativeKeywords = []string{
	"gift guide",
	"gift ideas",
	"holiday",
	"black friday",
	"cyber monday",
	"prime day",
	"deal",
	"deals",
	"discount",
	"sale",
	"coupon",
	"shopping",
	"best gifts",
}

// NegativeKeywords mark off-topic domains anywhere in the combined text.
// A record containing one is rejected unless it also carries at least
// three distinct strong-AI keywords.
var NegativeKeywords = []string{
	"holiday", "gift guide", "shopping", "retail", "fashion", "food", "recipe",
	"travel", "vacation", "sports", "entertainment", "celebrity", "gossip",
	"weather", "forecast", "horoscope", "zodiac", "pets", "animals", "wildlife",
	"real estate", "home improvement", "diy", "gardening", "cooking", "baking",
	"garage door", "appliance", "furniture", "decor", "lifestyle", "beauty",
	"makeup", "fitness", "health", "medical", "pharmaceutical", "insurance",
}

// StrongAIKeywords can override a general negative-keyword rejection when
// at least three distinct entries appear in the combined text.
var StrongAIKeywords = []string{
	"ai", "artificial intelligence", "machine learning", "ml", "neural",
	"gpt", "llm", "transformer", "algorithm", "model", "deep learning",
}

// multiPartPatterns reject serialized articles; a "part 2 of 5" post is
// useless without its siblings.
var multiPartPatterns = []string{
	"(part",
	"part 1", "part 2", "part 3", "part 4", "part 5",
	"part one", "part two", "part three", "part four", "part five",
	"part i", "part ii", "part iii", "part iv", "part v",
}

// Vocabulary is the fixed topic vocabulary, scanned in order. Order
// matters: it breaks ties when topics carry equal weight.
var Vocabulary = []string{
	"artificial intelligence",
	"machine learning",
	"deep learning",
	"neural network",
	"large language model",
	"llm",
	"gpt",
	"chatgpt",
	"claude",
	"gemini",
	"transformer",
	"generative ai",
	"genai",
	"openai",
	"anthropic",
	"deepmind",
	"mistral",
	"hugging face",
	"nvidia",
	"computer vision",
	"natural language processing",
	"nlp",
	"speech recognition",
	"reinforcement learning",
	"fine-tuning",
	"prompt engineering",
	"inference",
	"training data",
	"dataset",
	"benchmark",
	"multimodal",
	"ai agent",
	"gpu",
	"tpu",
	"semiconductor",
	"chip",
	"robotics",
	"robot",
	"autonomous",
	"ai safety",
	"alignment",
	"ai governance",
	"ai regulation",
	"ai policy",
	"ai ethics",
	"ai startup",
	"venture capital",
	"funding",
	"mlops",
	"vector database",
	"embedding",
}

// FallbackRule maps trigger phrases to a topic. Rules are evaluated in
// order, first match wins; exactly one fallback tag is produced when the
// vocabulary scan comes up empty.
type FallbackRule struct {
	Triggers []string
	Topic    string
}

// FallbackRules is the ordered fallback table for records that matched no
// vocabulary entry. The final rule has no triggers and always applies.
var FallbackRules = []FallbackRule{
	{Triggers: []string{"gpt-", "copilot", "chatbot", "assistant"}, Topic: "large language model"},
	{Triggers: []string{"neural", "deep learning", "backpropagation"}, Topic: "neural network"},
	{Triggers: []string{"training", "dataset", "data set", "fine-tun"}, Topic: "machine learning"},
	{Triggers: []string{"robot", "drone", "humanoid"}, Topic: "robotics"},
	{Triggers: []string{"vision", "image recognition", "object detection"}, Topic: "computer vision"},
	{Triggers: []string{"regulation", "policy", "governance", "ethics"}, Topic: "ai governance"},
	{Triggers: []string{"startup", "funding", "venture", "seed round"}, Topic: "ai startup"},
	{Topic: "machine learning"},
}

// Result carries the categorizer's decision for one record.
type Result struct {
	Tags       []string
	MatchCount int
	Rejected   bool
	Reason     string
}

type topicMatch struct {
	topic  string
	weight int
	order  int
}

// Categorize runs the rejection rules and vocabulary scan for one record.
// It returns at most three topic tags ordered by weight (title matches
// weigh 3, body 2, existing tags 1) and the total match count, or a
// rejection with its reason.
func Categorize(rec model.Record, minMatches int) Result {
	title := strings.ToLower(rec.Title)
	body := strings.ToLower(rec.Summary)
	combined := title + " " + body + " " + strings.ToLower(strings.Join(rec.Tags, " "))

	for _, neg := range TitleNegativeKeywords {
		if strings.Contains(title, neg) {
			return Result{Rejected: true, Reason: "title_negative_keywords"}
		}
	}

	for _, pattern := range multiPartPatterns {
		if strings.Contains(title, pattern) {
			return Result{Rejected: true, Reason: "multi_part"}
		}
	}

	if HasNegativeKeyword(combined) && StrongAICount(combined) < 3 {
		return Result{Rejected: true, Reason: "negative_keywords"}
	}

	var matches []topicMatch
	for i, topic := range Vocabulary {
		if !strings.Contains(combined, topic) {
			continue
		}
		weight := 1
		if strings.Contains(title, topic) {
			weight = 3
		} else if strings.Contains(body, topic) {
			weight = 2
		}
		matches = append(matches, topicMatch{topic: topic, weight: weight, order: i})
	}

	if len(matches) == 0 {
		matches = append(matches, topicMatch{topic: fallbackTopic(combined), weight: 1})
	}

	if len(matches) < minMatches {
		return Result{Rejected: true, Reason: "no_ai_category", MatchCount: len(matches)}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].weight > matches[j].weight
	})

	tags := make([]string, 0, 3)
	for _, m := range matches {
		tags = append(tags, m.topic)
		if len(tags) == 3 {
			break
		}
	}

	return Result{Tags: tags, MatchCount: len(matches)}
}

func fallbackTopic(combined string) string {
	for _, rule := range FallbackRules {
		if len(rule.Triggers) == 0 {
			return rule.Topic
		}
		for _, trigger := range rule.Triggers {
			if strings.Contains(combined, trigger) {
				return rule.Topic
			}
		}
	}
	return "machine learning"
}

// HasNegativeKeyword reports whether the text contains any general
// negative keyword.
func HasNegativeKeyword(text string) bool {
	for _, neg := range NegativeKeywords {
		if strings.Contains(text, neg) {
			return true
		}
	}
	return false
}

// StrongAICount counts distinct strong-AI keywords present in the text.
func StrongAICount(text string) int {
	count := 0
	for _, kw := range StrongAIKeywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

// Assign categorizes every record, attaching visual tags and the match
// count in place. Records the categorizer rejects are dropped; rejection
// reasons are returned as aggregate counts.
func Assign(records []model.Record, minMatches int) ([]model.Record, map[string]int) {
	kept := make([]model.Record, 0, len(records))
	reasons := make(map[string]int)

	for _, rec := range records {
		res := Categorize(rec, minMatches)
		if res.Rejected {
			reasons[res.Reason]++
			logging.Debug("record rejected by categorizer", "title", rec.Title, "reason", res.Reason)
			continue
		}
		rec.VisualTags = res.Tags
		rec.TagRelevanceScore = res.MatchCount
		kept = append(kept, rec)
	}

	logging.Info("categorized records", "in", len(records), "kept", len(kept), "rejected", len(records)-len(kept))
	return kept, reasons
}
