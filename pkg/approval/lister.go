package approval

import (
	"context"

	"go.uber.org/zap"
)

// Query bounds a listing by submission time, in epoch seconds.
type Query struct {
	StartTime int64
	EndTime   int64
}

// PageRequest is one listing round.
type PageRequest struct {
	Query
	Cursor int
	Size   int
}

// Page is the response to a PageRequest.
type Page struct {
	Items      []string
	NextCursor int
}

// PageFetcher fetches one page of approval numbers.
type PageFetcher interface {
	FetchPage(ctx context.Context, req PageRequest) (Page, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, req PageRequest) (Page, error)

func (f PageFetcherFunc) FetchPage(ctx context.Context, req PageRequest) (Page, error) {
	return f(ctx, req)
}

// Round caps used by the call sites.
const (
	DefaultListRounds   = 10
	DefaultRemindRounds = 8
)

// ListAll pages through fetcher starting at cursor 0. It stops on an empty
// page, a zero next cursor, a cursor that did not advance, or after
// maxRounds rounds. Items are kept in received order without deduplication.
//
// A failing round ends the loop: the error is logged and whatever was
// accumulated so far is returned.
func ListAll(ctx context.Context, fetcher PageFetcher, query Query, pageSize, maxRounds int, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		all    []string
		cursor int
	)
	for round := 0; round < maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("listing interrupted", zap.Int("round", round), zap.Error(err))
			break
		}

		page, err := fetcher.FetchPage(ctx, PageRequest{Query: query, Cursor: cursor, Size: pageSize})
		if err != nil {
			logger.Warn("listing round failed; returning partial result",
				zap.Int("round", round),
				zap.Int("cursor", cursor),
				zap.Int("accumulated", len(all)),
				zap.Error(err),
			)
			break
		}
		all = append(all, page.Items...)

		if len(page.Items) == 0 || page.NextCursor == 0 || page.NextCursor == cursor {
			break
		}
		cursor = page.NextCursor
	}
	return all
}
