// Package pipeline orchestrates curation: dedupe, acceptance criteria,
// scoring and top-N selection. Every record gets an explicit per-record
// outcome; aggregate rejection counts are folds over those outcomes, and
// a failure on one record never aborts the batch.
package pipeline

import (
	"sort"
	"strings"

	"github.com/kiwifruitpeter/curator/internal/dedupe"
	"github.com/kiwifruitpeter/curator/internal/logging"
	"github.com/kiwifruitpeter/curator/internal/model"
	"github.com/kiwifruitpeter/curator/internal/scoring"
	"github.com/kiwifruitpeter/curator/internal/topics"
)

// Rejection reasons used in outcomes and aggregate counters.
const (
	ReasonDuplicate        = "duplicate"
	ReasonNoTags           = "no_ai_category"
	ReasonLowRelevance     = "low_relevance"
	ReasonLowComposite     = "low_composite"
	ReasonTitleNegative    = "title_negative_keywords"
	ReasonNegativeKeywords = "negative_keywords"
)

// Options are the pipeline thresholds.
type Options struct {
	SimilarityThreshold float64
	MinMatches          int
	MinComposite        float64
	MaxItems            int
}

// DefaultOptions returns the production thresholds.
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: dedupe.DefaultThreshold,
		MinMatches:          1,
		MinComposite:        0.2,
		MaxItems:            30,
	}
}

// Outcome is the per-record result of a pipeline pass: either the record
// was kept, or it was dropped for a recorded reason.
type Outcome struct {
	Record model.Record
	Kept   bool
	Reason string
}

// Fold aggregates rejection reasons over a set of outcomes.
func Fold(outcomes []Outcome) map[string]int {
	counts := make(map[string]int)
	for _, o := range outcomes {
		if !o.Kept {
			counts[o.Reason]++
		}
	}
	return counts
}

// accept applies the per-record acceptance criteria shared by both ranking
// variants, except the score gate which the caller supplies.
func accept(rec *model.Record) (string, bool) {
	if rec.TagRelevanceScore < 1 {
		return ReasonNoTags, false
	}

	title := strings.ToLower(rec.Title)
	for _, neg := range topics.TitleNegativeKeywords {
		if strings.Contains(title, neg) {
			return ReasonTitleNegative, false
		}
	}

	combined := strings.ToLower(rec.Title + " " + rec.Summary)
	if topics.HasNegativeKeyword(combined) && topics.StrongAICount(combined) < 3 {
		return ReasonNegativeKeywords, false
	}

	return "", true
}

// FilterAndRank runs the relevance-ranked variant: dedupe, score, apply
// the acceptance criteria, sort descending by relevance score and cap at
// MaxItems. Returns the curated records plus the outcome of every input
// record.
func FilterAndRank(records []model.Record, opts Options) ([]model.Record, []Outcome) {
	return run(records, opts, false)
}

// FilterByComposite is the composite-ranked variant: the score gate is a
// minimum composite threshold and the sort key is the composite score.
func FilterByComposite(records []model.Record, opts Options) ([]model.Record, []Outcome) {
	return run(records, opts, true)
}

func run(records []model.Record, opts Options, byComposite bool) ([]model.Record, []Outcome) {
	mask := dedupe.Mask(records, opts.SimilarityThreshold)
	scoring.Apply(records)

	outcomes := make([]Outcome, 0, len(records))
	kept := make([]model.Record, 0, len(records))

	for i := range records {
		rec := records[i]
		if !mask[i] {
			outcomes = append(outcomes, Outcome{Record: rec, Reason: ReasonDuplicate})
			continue
		}

		if reason, ok := accept(&rec); !ok {
			outcomes = append(outcomes, Outcome{Record: rec, Reason: reason})
			continue
		}

		if byComposite {
			if rec.CompositeScore < opts.MinComposite {
				outcomes = append(outcomes, Outcome{Record: rec, Reason: ReasonLowComposite})
				continue
			}
		} else if rec.RelevanceScore <= 0 {
			outcomes = append(outcomes, Outcome{Record: rec, Reason: ReasonLowRelevance})
			continue
		}

		outcomes = append(outcomes, Outcome{Record: rec, Kept: true})
		kept = append(kept, rec)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if byComposite {
			return kept[i].CompositeScore > kept[j].CompositeScore
		}
		return kept[i].RelevanceScore > kept[j].RelevanceScore
	})

	if opts.MaxItems > 0 && len(kept) > opts.MaxItems {
		kept = kept[:opts.MaxItems]
	}

	logging.Info("filter and rank complete",
		"in", len(records), "out", len(kept), "rejections", Fold(outcomes))
	return kept, outcomes
}

// PreFilter processes raw, un-summarized records: it assigns stable IDs,
// runs the categorizer's rejection rules and tag assignment, then ranks
// and caps the survivors. Returned counts cover every rejection reason.
func PreFilter(records []model.Record, opts Options) ([]model.Record, map[string]int) {
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = model.RecordID(records[i].SourceURL)
		}
	}

	tagged, reasons := topics.Assign(records, opts.MinMatches)
	ranked, outcomes := FilterAndRank(tagged, opts)

	for reason, n := range Fold(outcomes) {
		reasons[reason] += n
	}
	return ranked, reasons
}
