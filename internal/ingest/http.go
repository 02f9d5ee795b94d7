package ingest

import (
	"context"
	"time"

	"github.com/jdelgadoc/funnelboard-go/internal/utils"
)

// GetJSONWithRetry fetches url into dst, retrying transient failures with
// exponential backoff plus jitter.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url string, dst any) error {
	b := utils.NewBackoff(100*time.Millisecond, 150*time.Millisecond, 2)
	return b.Do(ctx, func(int) error {
		return getJSON(ctx, c, url, dst)
	})
}
