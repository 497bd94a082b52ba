package bjxgj

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func makePage(page, size int) []Record {
	out := make([]Record, size)
	for i := 0; i < size; i++ {
		out[i] = Record{
			ID:    fmt.Sprintf("record-%d-%d", page, i),
			Type:  TypeScoreSheet,
			Title: fmt.Sprintf("考试%d", page*100+i),
		}
	}
	return out
}

func TestCollectRecords(t *testing.T) {
	pageSizes := []int{20, 20, 20, 0}
	requests := 0

	records, err := CollectRecords(context.Background(), func(ctx context.Context, page int) ([]Record, error) {
		require.Equal(t, requests, page)
		requests++
		return makePage(page, pageSizes[page]), nil
	})
	require.NoError(t, err)
	require.Len(t, records, 60)
	require.Equal(t, 4, requests)

	// page order must be preserved in the concatenation
	require.Equal(t, "record-0-0", records[0].ID)
	require.Equal(t, "record-1-0", records[20].ID)
	require.Equal(t, "record-2-19", records[59].ID)
}

func TestCollectRecordsShortPagesContinue(t *testing.T) {
	// a short page is not a termination signal, only an empty one is
	pageSizes := []int{20, 3, 20, 0}
	requests := 0

	records, err := CollectRecords(context.Background(), func(ctx context.Context, page int) ([]Record, error) {
		requests++
		return makePage(page, pageSizes[page]), nil
	})
	require.NoError(t, err)
	require.Len(t, records, 43)
	require.Equal(t, 4, requests)
}

func TestCollectRecordsEmptyFirstPage(t *testing.T) {
	records, err := CollectRecords(context.Background(), func(ctx context.Context, page int) ([]Record, error) {
		return nil, nil
	})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestCollectRecordsPropagatesError(t *testing.T) {
	boom := fmt.Errorf("backend unavailable")
	_, err := CollectRecords(context.Background(), func(ctx context.Context, page int) ([]Record, error) {
		if page == 2 {
			return nil, boom
		}
		return makePage(page, 20), nil
	})
	require.ErrorIs(t, err, boom)
}
