package tick

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// AnalyzeAll analyzes independent regions concurrently.
//
// At most limit regions are processed at once; limit <= 0 means no limit.
// Results keep the order of imgs. The first failing region cancels the rest and
// its error is returned, prefixed with the region index. Cancelling ctx stops
// regions that have not started yet.
func (c *Classifier) AnalyzeAll(ctx context.Context, imgs []GrayImage, limit int) ([]Analysis, error) {
	results := make([]Analysis, len(imgs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, img := range imgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := c.Analyze(img)
			if err != nil {
				return fmt.Errorf("region %d: %w", i, err)
			}
			results[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ClassifyAll is AnalyzeAll without the measurements.
func (c *Classifier) ClassifyAll(ctx context.Context, imgs []GrayImage, limit int) ([]Result, error) {
	analyses, err := c.AnalyzeAll(ctx, imgs, limit)
	if err != nil {
		return nil, err
	}
	results := make([]Result, len(analyses))
	for i, a := range analyses {
		results[i] = a.Result
	}
	return results, nil
}
