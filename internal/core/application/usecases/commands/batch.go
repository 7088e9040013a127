package commands

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many orders a batch handler processes at once.
const DefaultConcurrency = 4

// BatchResult is the aggregate outcome of one job pass.
//
// Successful counts orders that were transitioned and written, Skipped counts orders
// that were evaluated with nothing to do and Failed counts orders whose processing
// returned an error. Errors holds one message per failure.
type BatchResult struct {
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
}

// Merge adds another result to r.
func (r *BatchResult) Merge(o BatchResult) {
	r.Successful += o.Successful
	r.Failed += o.Failed
	r.Skipped += o.Skipped
	r.Errors = append(r.Errors, o.Errors...)
}

// outcome is what a per-order function reports back to the batch.
type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeChanged
)

// batch runs per-order work with bounded concurrency and collects the results.
// Per-order errors never cancel siblings.
type batch struct {
	mu     sync.Mutex
	group  errgroup.Group
	result BatchResult
}

func newBatch(concurrency int) *batch {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	b := &batch{result: BatchResult{Errors: []string{}}}
	b.group.SetLimit(concurrency)
	return b
}

// Go schedules fn for one order. label identifies the order in error messages.
func (b *batch) Go(ctx context.Context, label string, fn func(ctx context.Context) (outcome, error)) {
	b.group.Go(func() error {
		if err := ctx.Err(); err != nil {
			b.record(outcomeSkipped, fmt.Errorf("order %s: %w", label, err))
			return nil
		}
		res, err := fn(ctx)
		if err != nil {
			err = fmt.Errorf("order %s: %w", label, err)
		}
		b.record(res, err)
		return nil
	})
}

// Wait blocks until every scheduled function returned.
func (b *batch) Wait() BatchResult {
	_ = b.group.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}

func (b *batch) record(res outcome, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case err != nil:
		b.result.Failed++
		b.result.Errors = append(b.result.Errors, err.Error())
	case res == outcomeChanged:
		b.result.Successful++
	default:
		b.result.Skipped++
	}
}
