// Package dedupe collapses near-identical records using lexical title
// similarity. First occurrence wins and input order is preserved.
package dedupe

import (
	"strings"

	"github.com/kiwifruitpeter/curator/internal/logging"
	"github.com/kiwifruitpeter/curator/internal/model"
)

// DefaultThreshold is the similarity ratio at or above which two titles
// are considered duplicates.
const DefaultThreshold = 0.7

// substringMinLen guards the substring rule: only titles longer than this
// are checked for containment, so short titles don't collapse spuriously.
const substringMinLen = 20

// Similarity returns the Ratcliff/Obershelp gestalt matching ratio of two
// strings in [0,1]: twice the total matched characters over the combined
// length. Matching is found by recursively locating the longest common
// substring and matching the pieces on either side of it.
func Similarity(a, b string) float64 {
	// Canonical argument order keeps the ratio symmetric even when
	// equal-length common substrings could tie-break differently.
	if a > b {
		a, b = b, a
	}

	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	return 2.0 * float64(matchingChars(a, b)) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

// longestCommonBlock finds the longest common substring of a and b,
// returning its start offsets and length. Ties go to the earliest block.
func longestCommonBlock(a, b string) (int, int, int) {
	bestA, bestB, best := 0, 0, 0
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				cur[j] = 0
				continue
			}
			cur[j] = prev[j-1] + 1
			if cur[j] > best {
				best = cur[j]
				bestA = i - best
				bestB = j - best
			}
		}
		prev, cur = cur, prev
		for j := range cur {
			cur[j] = 0
		}
	}
	return bestA, bestB, best
}

// Dedupe removes duplicate records by title. A record is a duplicate when
// its lowercased title exactly matches a kept title, when the similarity
// ratio to a kept title reaches the threshold, or when both titles exceed
// 20 characters and one contains the other. Records with empty titles are
// dropped.
func Dedupe(records []model.Record, threshold float64) []model.Record {
	mask := Mask(records, threshold)
	kept := make([]model.Record, 0, len(records))
	for i, keep := range mask {
		if keep {
			kept = append(kept, records[i])
		}
	}
	return kept
}

// Mask evaluates the duplicate rules without copying, returning a
// keep/drop flag per input record. First occurrence wins.
func Mask(records []model.Record, threshold float64) []bool {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	mask := make([]bool, len(records))
	seenExact := make(map[string]bool, len(records))
	keptTitles := make([]string, 0, len(records))

	for i, rec := range records {
		title := strings.ToLower(strings.TrimSpace(rec.Title))
		if title == "" {
			continue
		}
		if seenExact[title] {
			continue
		}

		duplicate := false
		for _, prev := range keptTitles {
			if Similarity(title, prev) >= threshold {
				duplicate = true
				break
			}
			if len(title) > substringMinLen && len(prev) > substringMinLen &&
				(strings.Contains(title, prev) || strings.Contains(prev, title)) {
				duplicate = true
				break
			}
		}
		if duplicate {
			logging.Debug("duplicate record dropped", "title", rec.Title)
			continue
		}

		seenExact[title] = true
		keptTitles = append(keptTitles, title)
		mask[i] = true
	}

	return mask
}
