package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewTTL = 24 * time.Hour

// ViewTracker deduplicates job views so the advisory Views counter is
// bumped at most once per viewer per day. Key format:
// job_view:<job_id>:<viewer_id>. A nil tracker is safe to call and
// treats every view as new.
type ViewTracker struct {
	client *redis.Client
}

func NewViewTracker(client *redis.Client) *ViewTracker {
	return &ViewTracker{client: client}
}

// ShouldCount reports whether this viewer's view of the job should bump
// the counter, and marks it as seen. Redis failures degrade to counting
// the view; the counter is advisory either way.
func (t *ViewTracker) ShouldCount(ctx context.Context, jobID, viewerID string) bool {
	if t == nil || t.client == nil || viewerID == "" {
		return true
	}

	ok, err := t.client.SetNX(ctx, t.key(jobID, viewerID), "1", viewTTL).Result()
	if err != nil {
		return true
	}
	return ok
}

func (t *ViewTracker) key(jobID, viewerID string) string {
	return fmt.Sprintf("job_view:%s:%s", jobID, viewerID)
}
