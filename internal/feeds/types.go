package feeds

import (
	"context"

	"github.com/kiwifruitpeter/curator/internal/model"
)

// SourceType identifies the origin of a fetched record
type SourceType string

const (
	SourceRSS SourceType = "rss"
)

// Source is the interface all feed sources implement
type Source interface {
	// Name returns human-readable source name
	Name() string

	// Type returns the source type
	Type() SourceType

	// Fetch retrieves latest records from this source
	Fetch(ctx context.Context) ([]model.Record, error)
}
