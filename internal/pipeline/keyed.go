package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// KeyedGroup allows at most one in-flight call per key within this process.
// Concurrent callers for the same key wait for the running call and share
// its result; each waiter still honors its own context.
type KeyedGroup struct {
	group singleflight.Group
}

// Key builds the concurrency key for an operation on a (candidate, job) pair.
func Key(kind string, candidateID, jobID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", kind, candidateID, jobID)
}

// Do runs fn once per key at a time. shared reports whether the result came
// from a call started by another caller.
func (g *KeyedGroup) Do(ctx context.Context, key string, fn func() (any, error)) (v any, shared bool, err error) {
	ch := g.group.DoChan(key, fn)
	select {
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
