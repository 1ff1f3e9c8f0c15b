package model

import "time"

// Document is the wrapper shape shared by every JSON file the pipeline
// reads or writes: raw news, pre-filtered news and the final feed.
type Document struct {
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	TotalItems  int       `json:"total_items"`
	Items       []Record  `json:"items"`
}

// ArtifactDocument wraps a set of generated artifacts.
type ArtifactDocument struct {
	Version     string     `json:"version"`
	GeneratedAt time.Time  `json:"generated_at"`
	TotalItems  int        `json:"total_items"`
	Items       []Artifact `json:"items"`
}

// SummaryDocument wraps a set of summaries.
type SummaryDocument struct {
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	TotalItems  int       `json:"total_items"`
	Items       []Summary `json:"items"`
}

// DisplayDocument is the display-optimized variant: records live in a map
// keyed by ID and the items array only lists the IDs in rank order.
type DisplayDocument struct {
	Version     string            `json:"version"`
	GeneratedAt time.Time         `json:"generated_at"`
	TotalItems  int               `json:"total_items"`
	Items       []string          `json:"items"`
	Data        map[string]Record `json:"data"`
}

// NewDocument builds a feed wrapper around the given records.
func NewDocument(records []Record) Document {
	return Document{
		Version:     "1.0",
		GeneratedAt: time.Now().UTC(),
		TotalItems:  len(records),
		Items:       records,
	}
}

// NewArtifactDocument builds a wrapper around the given artifacts.
func NewArtifactDocument(artifacts []Artifact) ArtifactDocument {
	return ArtifactDocument{
		Version:     "1.0",
		GeneratedAt: time.Now().UTC(),
		TotalItems:  len(artifacts),
		Items:       artifacts,
	}
}

// NewSummaryDocument builds a wrapper around the given summaries.
func NewSummaryDocument(summaries []Summary) SummaryDocument {
	return SummaryDocument{
		Version:     "1.0",
		GeneratedAt: time.Now().UTC(),
		TotalItems:  len(summaries),
		Items:       summaries,
	}
}

// Display converts a Document into its display-optimized form. Rank order
// is preserved in the items array.
func (d Document) Display() DisplayDocument {
	out := DisplayDocument{
		Version:     d.Version,
		GeneratedAt: d.GeneratedAt,
		TotalItems:  d.TotalItems,
		Items:       make([]string, 0, len(d.Items)),
		Data:        make(map[string]Record, len(d.Items)),
	}
	for _, r := range d.Items {
		out.Items = append(out.Items, r.ID)
		out.Data[r.ID] = r
	}
	return out
}
