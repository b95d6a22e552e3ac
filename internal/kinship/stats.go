package kinship

import (
	"context"

	"github.com/nasabhq/nasab/pkg/types"
)

// Statistics aggregates the read-side counts over the graph: lifecycle
// status, biological vs non-biological, verified vs unverified, and
// per-type breakdowns. It reflects store state at call time; nothing is
// cached.
func (e *Engine) Statistics(ctx context.Context) (*Statistics, error) {
	raw, err := e.store.Stats(ctx)
	if err != nil {
		return nil, &StoreError{Op: "statistics", Err: err}
	}

	stats := &Statistics{
		Total:         raw.Total,
		Active:        raw.ByStatus[types.StatusActive],
		Dissolved:     raw.ByStatus[types.StatusDissolved],
		Deceased:      raw.ByStatus[types.StatusDeceased],
		Biological:    raw.Biological,
		NonBiological: raw.Total - raw.Biological,
		Verified:      raw.Verified,
		Unverified:    raw.Total - raw.Verified,
		ByType:        raw.ByType,
		ByCertainty:   raw.ByCertainty,
	}
	if stats.ByType == nil {
		stats.ByType = make(map[types.RelationshipType]int)
	}
	if stats.ByCertainty == nil {
		stats.ByCertainty = make(map[types.CertaintyLevel]int)
	}
	return stats, nil
}

// TypeStatistics returns only the per-type breakdown.
func (e *Engine) TypeStatistics(ctx context.Context) (map[types.RelationshipType]int, error) {
	stats, err := e.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	return stats.ByType, nil
}
