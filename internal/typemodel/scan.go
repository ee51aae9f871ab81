package typemodel

import (
	"context"

	"golang.org/x/sync/errgroup"

	"adapter-generator/internal/analyze"
)

// Result is the outcome of resolving one candidate.
type Result struct {
	Candidate analyze.Candidate
	Pair      TypePair
	// Err is nil for converters and wraps one of the package's sentinel
	// errors otherwise.
	Err error
}

// ScanAll resolves every candidate. Candidates are independent, so they are
// resolved concurrently (at most parallelism at a time, unbounded when <= 0),
// but results are returned in the order of the input slice.
func (r *Resolver) ScanAll(ctx context.Context, candidates []analyze.Candidate, parallelism int) ([]Result, error) {
	results := make([]Result, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}

	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			pair, err := r.Resolve(c.Obj)
			results[i] = Result{Candidate: c, Pair: pair, Err: err}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
