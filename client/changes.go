package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ChangeService reads the cross-entity change feed.
type ChangeService struct {
	c *Client
}

// queryParams encodes a ChangeQuery plus pagination as URL parameters.
func queryParams(q *ChangeQuery, page, pageSize int) url.Values {
	params := url.Values{}
	if q != nil {
		if q.EntityType != "" {
			params.Set("entity_type", q.EntityType)
		}
		if q.EntityID != "" {
			params.Set("entity_id", q.EntityID)
		}
		if q.Actor != "" {
			params.Set("actor", q.Actor)
		}
		if q.ChangeType != "" {
			params.Set("change_type", q.ChangeType)
		}
		if q.Label != "" {
			params.Set("label", q.Label)
		}
		if q.From != nil {
			params.Set("from", q.From.Format(time.RFC3339))
		}
		if q.To != nil {
			params.Set("to", q.To.Format(time.RFC3339))
		}
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	return params
}

// Feed returns a page of the filtered change feed, newest first.
func (s *ChangeService) Feed(ctx context.Context, q *ChangeQuery, page, pageSize int) (*ChangePage, error) {
	var resp ChangePage
	if err := s.c.get(ctx, "/api/v1/changes", queryParams(q, page, pageSize), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns one change record by log sequence.
func (s *ChangeService) Get(ctx context.Context, id int64) (*ChangeRecord, error) {
	var rec ChangeRecord
	if err := s.c.get(ctx, "/api/v1/changes/"+strconv.FormatInt(id, 10), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Export downloads the filtered feed in the given format ("json" or
// "xlsx") and returns the raw bytes.
func (s *ChangeService) Export(ctx context.Context, q *ChangeQuery, format string) ([]byte, error) {
	params := queryParams(q, 0, 0)
	if format != "" {
		params.Set("format", format)
	}
	return s.c.download(ctx, "/api/v1/changes/export?"+params.Encode())
}

// history fetches one entity's change history through its typed endpoint.
func (s *ChangeService) history(ctx context.Context, collection, id string, page, pageSize int) (*ChangePage, error) {
	path := fmt.Sprintf("/api/v1/%s/%s/history", collection, url.PathEscape(id))
	var resp ChangePage
	if err := s.c.get(ctx, path, queryParams(nil, page, pageSize), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
