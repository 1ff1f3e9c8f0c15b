// Package scoring produces the four [0,1] sub-scores and the weighted
// composite used to rank curated records. All scorers are pure functions
// of a single record.
//
// The weights and bonus/penalty constants are product-tuned values;
// changing any of them changes curation outcomes and needs sign-off.
package scoring

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/kiwifruitpeter/curator/internal/model"
)

// Composite weights.
const (
	WeightRelevance = 0.35
	WeightQuality   = 0.25
	WeightSEO       = 0.25
	WeightInterest  = 0.15
)

// Scorer computes one [0,1] sub-score for a record.
type Scorer interface {
	Name() string
	Score(rec *model.Record) float64
}

var wordRe = regexp.MustCompile(`[a-z]+`)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RelevanceScorer measures AI-topic word density and keyword mentions.
// Records without a categorizer match must clear a >50% density bar;
// records the categorizer already matched only need one keyword mention.
type RelevanceScorer struct{}

func NewRelevanceScorer() *RelevanceScorer { return &RelevanceScorer{} }

func (r *RelevanceScorer) Name() string { return "relevance" }

func (r *RelevanceScorer) Score(rec *model.Record) float64 {
	text := strings.ToLower(rec.Title + " " + rec.Summary)

	// Significant words: alphabetic tokens minus stopwords and short
	// words. Short AI keywords ("ai", "ml") stay significant.
	var significant []string
	for _, w := range wordRe.FindAllString(text, -1) {
		if stopwords[w] {
			continue
		}
		if len(w) <= 2 && !aiKeywordSet[w] {
			continue
		}
		significant = append(significant, w)
	}
	if len(significant) == 0 {
		return 0
	}

	// Phase one: AI keyword phrases present anywhere in the text. Their
	// constituent words are AI-related by definition.
	mentions := 0
	phraseWords := make(map[string]bool)
	for _, kw := range aiKeywords {
		if !strings.Contains(text, kw) {
			continue
		}
		mentions++
		for _, part := range strings.Fields(kw) {
			phraseWords[part] = true
		}
	}

	// Phase two: remaining significant words count as AI-related when
	// they contain, or are contained in, any AI keyword.
	aiWordCount := 0
	for _, w := range significant {
		if phraseWords[w] {
			aiWordCount++
			continue
		}
		for _, kw := range aiKeywords {
			if strings.Contains(w, kw) || strings.Contains(kw, w) {
				aiWordCount++
				break
			}
		}
	}

	aiPercentage := float64(aiWordCount) / float64(len(significant))
	base := math.Min(float64(mentions)*0.15, 1.0)

	var bonus float64
	if rec.TagRelevanceScore >= 1 {
		if mentions < 1 {
			return 0
		}
		bonus = math.Max((aiPercentage-0.1)*0.3, 0.1)
	} else {
		if aiPercentage <= 0.5 {
			return 0
		}
		bonus = (aiPercentage - 0.5) * 0.5
	}

	lowHits := 0
	for _, kw := range lowRelevanceKeywords {
		if strings.Contains(text, kw) {
			lowHits++
		}
	}
	penalty := math.Min(float64(lowHits)*0.3, 0.8)

	score := clamp01(base + bonus - penalty)
	if rec.TagRelevanceScore >= 1 && mentions >= 1 && score < 0.05 {
		score = 0.05
	}
	return score
}

// QualityScorer rewards well-structured summaries: a comfortable word
// count, complete sentences, list structure and a usable title length.
type QualityScorer struct{}

func NewQualityScorer() *QualityScorer { return &QualityScorer{} }

func (q *QualityScorer) Name() string { return "quality" }

func (q *QualityScorer) Score(rec *model.Record) float64 {
	score := 0.0
	body := rec.Summary

	wc := len(strings.Fields(body))
	switch {
	case wc >= 100 && wc <= 300:
		score += 0.4
	case (wc >= 50 && wc < 100) || (wc > 300 && wc <= 500):
		score += 0.2
	}

	terminators := strings.Count(body, ".") + strings.Count(body, "!") + strings.Count(body, "?")
	if terminators >= 3 {
		score += 0.3
	}

	if strings.Contains(body, "\n") || strings.Contains(body, "•") ||
		strings.HasPrefix(strings.TrimSpace(body), "-") {
		score += 0.1
	}

	if tl := len(rec.Title); tl > 20 && tl < 100 {
		score += 0.2
	}

	return math.Min(score, 1.0)
}

// SEOScorer rewards trending keywords, tag coverage and uniqueness markers.
type SEOScorer struct{}

func NewSEOScorer() *SEOScorer { return &SEOScorer{} }

func (s *SEOScorer) Name() string { return "seo" }

func (s *SEOScorer) Score(rec *model.Record) float64 {
	text := strings.ToLower(rec.Title + " " + rec.Summary)
	score := 0.0

	hits := 0
	for _, kw := range highValueKeywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	score += math.Min(float64(hits)*0.15, 0.5)

	switch {
	case len(rec.Tags) >= 3:
		score += 0.3
	case len(rec.Tags) >= 1:
		score += 0.15
	}

	for _, ind := range uniqueIndicators {
		if strings.Contains(text, ind) {
			score += 0.2
			break
		}
	}

	return math.Min(score, 1.0)
}

// InterestScorer rewards reputable sources, engaging titles, substantive
// bodies and recency.
type InterestScorer struct {
	// Now anchors the recency check; the zero value means time.Now().
	Now time.Time
}

func NewInterestScorer() *InterestScorer { return &InterestScorer{} }

func (i *InterestScorer) Name() string { return "interest" }

func (i *InterestScorer) Score(rec *model.Record) float64 {
	now := i.Now
	if now.IsZero() {
		now = time.Now()
	}

	score := 0.0

	source := strings.ToLower(rec.Source)
	for _, rs := range reputableSources {
		if strings.Contains(source, rs) {
			score += 0.3
			break
		}
	}

	title := strings.ToLower(rec.Title)
	for _, w := range engagingWords {
		if strings.Contains(title, w) {
			score += 0.2
			break
		}
	}

	if len(rec.Summary) > 150 {
		score += 0.3
	}

	if !rec.Published.IsZero() && now.Sub(rec.Published) <= 7*24*time.Hour {
		score += 0.2
	}

	return math.Min(score, 1.0)
}

type weightedScorer struct {
	scorer Scorer
	weight float64
}

// CompositeScorer blends sub-scores with fixed weights, capped at 1.0.
type CompositeScorer struct {
	name    string
	scorers []weightedScorer
}

// NewComposite creates an empty composite scorer.
func NewComposite(name string) *CompositeScorer {
	return &CompositeScorer{name: name}
}

// Add registers a scorer with its weight. Returns the composite for
// chaining.
func (c *CompositeScorer) Add(s Scorer, weight float64) *CompositeScorer {
	c.scorers = append(c.scorers, weightedScorer{scorer: s, weight: weight})
	return c
}

func (c *CompositeScorer) Name() string { return c.name }

func (c *CompositeScorer) Score(rec *model.Record) float64 {
	sum := 0.0
	for _, ws := range c.scorers {
		sum += ws.weight * ws.scorer.Score(rec)
	}
	return clamp01(sum)
}

// DefaultComposite returns the production ranking blend.
func DefaultComposite() *CompositeScorer {
	return NewComposite("composite").
		Add(NewRelevanceScorer(), WeightRelevance).
		Add(NewQualityScorer(), WeightQuality).
		Add(NewSEOScorer(), WeightSEO).
		Add(NewInterestScorer(), WeightInterest)
}

// Apply computes all four sub-scores and the composite for every record,
// attaching them in place.
func Apply(records []model.Record) {
	relevance := NewRelevanceScorer()
	quality := NewQualityScorer()
	seo := NewSEOScorer()
	interest := NewInterestScorer()

	for i := range records {
		rec := &records[i]
		rec.RelevanceScore = relevance.Score(rec)
		rec.QualityScore = quality.Score(rec)
		rec.SEOScore = seo.Score(rec)
		rec.InterestScore = interest.Score(rec)
		rec.CompositeScore = clamp01(
			WeightRelevance*rec.RelevanceScore +
				WeightQuality*rec.QualityScore +
				WeightSEO*rec.SEOScore +
				WeightInterest*rec.InterestScore)
	}
}
