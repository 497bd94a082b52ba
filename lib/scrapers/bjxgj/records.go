package bjxgj

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// RecordPageFunc fetches one page of the record list.
type RecordPageFunc func(ctx context.Context, page int) ([]Record, error)

// CollectRecords drains a paginated record list by requesting page
// 0, 1, 2, ... until a page comes back empty. The empty page, not a
// short one, is the termination signal: the backend pads out full
// pages and only ever returns nothing once the list is exhausted.
// Pages are fetched sequentially since each page's existence is only
// known once the previous one came back non-empty. No deduplication
// is done, repeated entries stay repeated.
func CollectRecords(ctx context.Context, fetch RecordPageFunc) ([]Record, error) {
	var all []Record
	for page := 0; ; page++ {
		batch, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return all, nil
		}
		all = append(all, batch...)
	}
}

// Records fetches the full parent/record list for the given members.
func (c *Client) Records(ctx context.Context, token string, memberIDs []string, pageSize int) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "client:Records")
	defer span.End()

	records, err := CollectRecords(ctx, func(ctx context.Context, page int) ([]Record, error) {
		return c.RecordsPage(ctx, token, memberIDs, page, pageSize)
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("record_count", len(records)))
	return records, nil
}
