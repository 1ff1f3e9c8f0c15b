package scoring

// aiKeywords are the phrases used to measure how AI-centric a record's
// text is. Matching is substring-based, mirroring the categorizer.
var aiKeywords = []string{
	"ai", "artificial intelligence", "machine learning", "ml", "deep learning",
	"neural network", "llm", "large language model", "gpt", "claude",
	"chatgpt", "openai", "anthropic", "transformer", "nlp",
	"natural language", "computer vision", "robotics", "automation",
	"algorithm", "data science", "generative ai", "genai",
	"prompt engineering", "fine-tuning", "training", "model", "inference",
	"deployment", "mlops", "vector database", "embedding",
}

// lowRelevanceKeywords penalize consumer-hardware noise that tends to slip
// past the AI keyword net (smart garage doors and the like).
var lowRelevanceKeywords = []string{
	"garage door", "opener", "chamberlain", "tailwind", "meross",
	"home improvement", "hardware store", "diy", "appliance",
}

// highValueKeywords signal trending, search-friendly phrasing.
var highValueKeywords = []string{
	"new", "latest", "update", "release", "announcement", "breakthrough",
	"innovation", "revolutionary", "game-changing", "cutting-edge",
	"trend", "future", "next-generation", "advanced", "state-of-the-art",
}

// uniqueIndicators mark exclusive or first-of-its-kind coverage.
var uniqueIndicators = []string{
	"first", "only", "exclusive", "unprecedented", "never before",
}

// reputableSources get an interest boost.
var reputableSources = []string{
	"techcrunch", "wired", "the verge", "oreilly", "arstechnica", "ieee",
}

// engagingWords in a title correlate with click-through.
var engagingWords = []string{
	"how", "why", "what", "when", "where", "top", "best", "guide", "tutorial",
}

// stopwords are dropped before computing word-level AI density.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "else": true, "at": true, "by": true,
	"for": true, "with": true, "about": true, "against": true,
	"between": true, "into": true, "through": true, "during": true,
	"before": true, "after": true, "above": true, "below": true, "to": true,
	"from": true, "up": true, "down": true, "in": true, "out": true,
	"on": true, "off": true, "over": true, "under": true, "again": true,
	"further": true, "once": true, "here": true, "there": true, "all": true,
	"any": true, "both": true, "each": true, "few": true, "more": true,
	"most": true, "other": true, "some": true, "such": true, "no": true,
	"nor": true, "not": true, "only": true, "own": true, "same": true,
	"so": true, "than": true, "too": true, "very": true, "can": true,
	"will": true, "just": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"of": true, "it": true, "its": true, "this": true, "that": true,
	"these": true, "those": true, "as": true, "what": true, "which": true,
	"who": true, "whom": true, "also": true,
}

var aiKeywordSet = func() map[string]bool {
	set := make(map[string]bool, len(aiKeywords))
	for _, kw := range aiKeywords {
		set[kw] = true
	}
	return set
}()
