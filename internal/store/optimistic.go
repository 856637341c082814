package store

import (
	"context"
	"log"
)

// The caches use two named mutation strategies:
//
//   - pessimistic: issue the request, apply the local change only after the
//     server confirms (posts).
//   - optimistic: apply the local change first, issue the request, and on
//     failure throw the affected cache slice away and refetch ground truth
//     from the server (comments, reactions).
//
// applyOptimistic is the second strategy, parameterized by the entity's
// refetch function. The rollback is "refetch ground truth", not "re-insert
// the removed item": correct under eventual consistency at the cost of an
// extra round trip on failure. The original error is returned either way;
// a failed reconcile is logged, never surfaced twice.
func applyOptimistic(ctx context.Context, name string, apply func(), call func(context.Context) error, refetch func(context.Context) error) error {
	apply()

	if err := call(ctx); err != nil {
		if rerr := refetch(ctx); rerr != nil {
			log.Printf("[%s] reconcile refetch FAILED: err=%v", name, rerr)
		} else {
			log.Printf("[%s] reconcile OK after failed mutation: err=%v", name, err)
		}
		return err
	}
	return nil
}
