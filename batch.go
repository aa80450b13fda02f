package eventmux

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// batchItem is one record of a batch with its resolved route. A nil handler
// means no route matched and the record takes the not-found path.
type batchItem struct {
	rec        *Record
	id         string
	key        string
	handler    Handler
	sequential bool
}

// runBatch executes a batch and returns the failed record identifiers in
// the order of the original record list. The mode is fixed for the whole
// batch by the first record's matched route.
func (m *Mux) runBatch(ctx context.Context, kind Kind, items []batchItem) []string {
	if len(items) == 0 {
		return nil
	}
	if items[0].sequential {
		return m.runSequential(ctx, kind, items)
	}
	return m.runConcurrent(ctx, kind, items)
}

// runSequential processes records strictly in order. The first failure
// marks that record and every remaining record as failed and stops the
// batch, preserving upstream ordering across redelivery.
func (m *Mux) runSequential(ctx context.Context, kind Kind, items []batchItem) []string {
	var failed []string
	for i, item := range items {
		if err := m.process(ctx, kind, item); err != nil {
			for _, rest := range items[i:] {
				failed = append(failed, rest.id)
			}
			break
		}
	}
	return failed
}

// runConcurrent schedules every record before awaiting any, optionally
// bounded by WithMaxConcurrency. Outcomes are fully independent: one
// record's failure never affects another's execution. Failures are
// collected index-aligned so the reported order matches the record list.
func (m *Mux) runConcurrent(ctx context.Context, kind Kind, items []batchItem) []string {
	errs := make([]error, len(items))

	var g errgroup.Group
	if m.maxConcurrency > 0 {
		g.SetLimit(m.maxConcurrency)
	}
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			errs[i] = m.process(ctx, kind, item)
			return nil
		})
	}
	// Per-record errors live in errs; the group itself never fails.
	_ = g.Wait()

	var failed []string
	for i, err := range errs {
		if err != nil {
			failed = append(failed, items[i].id)
		}
	}
	return failed
}
