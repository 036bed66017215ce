// Package batch runs a set of independent requests through the engine
// concurrently, bounded to the host's CPU count, in the same
// errgroup-plus-fan-in style this codebase's server packages use to run
// their own independent worker pools.
package batch

import (
	"context"
	"runtime"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"github.com/capreolina/scroll-strategist/internal/engine"
)

// Progress reports one request's completion as it happens, so values
// arrive in completion order; Index gives the submission position. A Run caller that isn't interested in incremental progress can
// pass a nil channel.
type Progress struct {
	Index  int
	Result *engine.Result
	Err    error
}

// Run evaluates every request in requests concurrently, each against its
// own fresh engine.Memo (per §5: no memo is ever shared across requests),
// bounded to runtime.NumCPU() concurrent evaluations. Results preserve the
// input order regardless of completion order. If progress is non-nil, one
// Progress value is sent on it per completed request; Run closes progress
// before returning.
//
// Run returns the first error encountered (via errgroup's context
// cancellation, matching the teacher's fastview.client.Sync pattern), at
// which point any requests not yet started are skipped and those already
// running are allowed to finish their current evaluation.
func Run(ctx context.Context, requests []*engine.Request, progress chan<- Progress) ([]*engine.Result, error) {
	results := make([]*engine.Result, len(requests))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	progressChans := make([]<-chan Progress, len(requests))
	for i, req := range requests {
		i, req := i, req
		ch := make(chan Progress, 1)
		progressChans[i] = ch

		group.Go(func() error {
			defer close(ch)
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}

			res, err := engine.Evaluate(req)
			results[i] = res
			ch <- Progress{Index: i, Result: res, Err: err}
			return err
		})
	}

	forwarded := make(chan struct{})
	if progress != nil {
		go func() {
			defer close(forwarded)
			defer close(progress)
			for p := range channerics.Merge(ctx.Done(), progressChans...) {
				progress <- p
			}
		}()
	} else {
		close(forwarded)
	}

	err := group.Wait()
	<-forwarded
	if err != nil {
		return results, err
	}
	return results, nil
}
