package pinapi

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultFetchConcurrency bounds how many meta groups are fetched in parallel.
const DefaultFetchConcurrency = 10

// GetPinsByMetaIDs fetches the pins for several meta IDs concurrently and
// returns them keyed by meta ID. Each fetch is an independent round trip;
// the first failure cancels the remaining ones.
func (c *Client) GetPinsByMetaIDs(ctx context.Context, metaIDs []string) (map[string][]Pin, error) {
	results := make(map[string][]Pin, len(metaIDs))
	if len(metaIDs) == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultFetchConcurrency)

	var mu sync.Mutex

	for _, metaID := range metaIDs {
		metaID := metaID
		g.Go(func() error {
			pins, err := c.GetPins(ctx, metaID)
			if err != nil {
				return err
			}

			mu.Lock()
			results[metaID] = pins
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
