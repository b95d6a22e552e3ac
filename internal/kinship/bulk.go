package kinship

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"github.com/nasabhq/nasab/internal/storage"
	"github.com/nasabhq/nasab/pkg/types"
)

// WithRateLimit throttles bulk operations to reqPerSec sustained item
// writes with the given burst, so a large import does not starve
// interactive store use. Zero or negative values disable throttling.
func WithRateLimit(reqPerSec float64, burst int) Option {
	return func(e *Engine) {
		if reqPerSec > 0 && burst > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(reqPerSec), burst)
		}
	}
}

// waitBulk blocks until the bulk limiter admits the next item.
func (e *Engine) waitBulk(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}

// BulkCreate attempts CreateRelationship for each input independently.
// Items are processed sequentially and results preserve input order; one
// item's failure never aborts the batch.
func (e *Engine) BulkCreate(ctx context.Context, inputs []CreateInput) (*BulkResult, error) {
	result := &BulkResult{Items: make([]BulkItemResult, 0, len(inputs))}

	for i, input := range inputs {
		if err := e.waitBulk(ctx); err != nil {
			return nil, &StoreError{Op: "bulk rate limit", Err: err}
		}

		item := BulkItemResult{Index: i}
		edge, err := e.CreateRelationship(ctx, input)
		if err != nil {
			item.Error = err.Error()
			result.Failed++
		} else {
			item.Edge = edge
			result.Created++
		}
		result.Items = append(result.Items, item)
	}

	return result, nil
}

// Import merges a dataset into the graph. For each item the existing edge is
// looked up by its (person, related, type) triple:
//
//   - found and SkipDuplicates  → SKIPPED
//   - found and UpdateExisting  → updated in place
//   - not found                 → created, then auto-verified when VerifyAll
//
// Running the same dataset twice with SkipDuplicates yields zero net new
// edges on the second run. Partial failure is reported per item, never
// fatal to the batch. VerifyAll uses ImportedBy as the verifier, so the
// combination of VerifyAll without ImportedBy is rejected before any item
// is processed.
func (e *Engine) Import(ctx context.Context, items []CreateInput, opts ImportOptions) (*ImportReport, error) {
	if opts.VerifyAll && opts.ImportedBy == "" {
		return nil, &ValidationError{Violations: []string{"verify_all requires imported_by"}}
	}

	report := &ImportReport{Items: make([]ImportItemResult, 0, len(items))}

	for i, input := range items {
		if err := e.waitBulk(ctx); err != nil {
			return nil, &StoreError{Op: "import rate limit", Err: err}
		}
		report.Items = append(report.Items, e.importItem(ctx, i, input, opts, report))
	}

	return report, nil
}

// importItem handles one import item and bumps the report counters.
func (e *Engine) importItem(ctx context.Context, index int, input CreateInput, opts ImportOptions, report *ImportReport) ImportItemResult {
	item := ImportItemResult{Index: index}

	fail := func(err error) ImportItemResult {
		item.Outcome = ImportFailed
		item.Error = err.Error()
		report.Failed++
		return item
	}

	existing, err := e.store.FindEdge(ctx, input.PersonID, input.RelatedPersonID, input.Type)
	switch {
	case err == nil:
		if opts.SkipDuplicates {
			item.Outcome = ImportSkipped
			item.EdgeID = existing.ID
			report.Skipped++
			return item
		}
		if !opts.UpdateExisting {
			return fail(&ConflictError{Reason: duplicateReason(input.PersonID, input.RelatedPersonID, input.Type)})
		}
		if err := e.updateFromImport(ctx, existing.ID, input); err != nil {
			return fail(err)
		}
		item.Outcome = ImportUpdated
		item.EdgeID = existing.ID
		report.Updated++
		return item

	case errors.Is(err, storage.ErrNotFound):
		if input.CreatedBy == "" {
			input.CreatedBy = opts.ImportedBy
		}
		edge, err := e.CreateRelationship(ctx, input)
		if err != nil {
			return fail(err)
		}
		if opts.VerifyAll {
			if err := e.Verify(ctx, edge.ID, opts.ImportedBy); err != nil {
				return fail(err)
			}
		}
		item.Outcome = ImportCreated
		item.EdgeID = edge.ID
		report.Created++
		return item

	default:
		return fail(&StoreError{Op: "import lookup", Err: err})
	}
}

// updateFromImport applies an import item's mutable fields onto an existing
// edge.
func (e *Engine) updateFromImport(ctx context.Context, edgeID string, input CreateInput) error {
	edge, err := e.GetRelationship(ctx, edgeID)
	if err != nil {
		return err
	}

	if input.Status != "" {
		edge.Status = input.Status
	}
	if input.Certainty != "" {
		edge.Certainty = input.Certainty
	}
	if input.IsBiological != nil {
		edge.IsBiological = *input.IsBiological
	}
	if input.StartDate != nil {
		edge.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		edge.EndDate = input.EndDate
	}
	if input.Notes != "" {
		edge.AppendNote(input.Notes, e.nowFn().UTC())
	}
	edge.UpdatedAt = e.nowFn().UTC()

	// An import item may flip the edge to a terminal status without carrying
	// an end date; default it to the update time, mirroring UpdateStatus.
	if types.TerminalStatus(edge.Status) && edge.EndDate == nil {
		end := edge.UpdatedAt
		edge.EndDate = &end
	}

	if violations := ValidateEdge(edge, true); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	if err := e.store.Update(ctx, edge); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &NotFoundError{Resource: "relationship", ID: edgeID}
		}
		return &StoreError{Op: "import update", Err: err}
	}
	return nil
}

// Export returns a serializable snapshot of a person's edges with
// operational audit fields stripped, plus export metadata.
func (e *Engine) Export(ctx context.Context, filter ExportFilter) (*ExportResult, error) {
	result := &ExportResult{
		Records:    []ExportRecord{},
		ExportedAt: e.nowFn().UTC(),
	}
	if filter.PersonID == "" {
		return result, nil
	}

	edges, err := drainPages(func(page int) (*storage.PaginatedResult[types.RelationshipEdge], error) {
		return e.store.Query(ctx, filter.PersonID, storage.QueryOptions{
			Types:      filter.Types,
			ActiveOnly: filter.ActiveOnly,
			Page:       page,
			Limit:      500,
		})
	})
	if err != nil {
		return nil, &StoreError{Op: "export", Err: err}
	}

	for _, edge := range edges {
		result.Records = append(result.Records, ExportRecord{
			PersonID:        edge.PersonID,
			RelatedPersonID: edge.RelatedPersonID,
			Type:            edge.Type,
			ReciprocalType:  edge.ReciprocalType,
			Status:          edge.Status,
			Certainty:       edge.Certainty,
			IsBiological:    edge.IsBiological,
			StartDate:       edge.StartDate,
			EndDate:         edge.EndDate,
		})
	}
	result.RecordCount = len(result.Records)
	return result, nil
}
