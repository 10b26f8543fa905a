package api

import (
	"context"
	"strconv"
)

// Direction selects which neighbour of the cursor a page request walks to.
type Direction string

const (
	// DirectionNext walks forward; the zero PageRequest defaults to it.
	DirectionNext Direction = "NEXT"
	// DirectionPrevious walks backward.
	DirectionPrevious Direction = "PREVIOUS"
)

// PageRequest addresses one page of a cursor-paginated collection. The
// cursor is opaque and always comes from a previous response, never from
// client-side arithmetic. Cursor state is caller-owned: a caller listing
// under two filters keeps two independent cursor lineages, and must discard
// its cursor whenever the filter changes — reusing a cursor across filters
// is a caller error with undefined results.
type PageRequest struct {
	Cursor    *int64
	Limit     int
	Direction Direction
}

// Page is one window into a paginated collection. Items preserve backend
// order. HasNext is true exactly when NextCursor is present, and
// symmetrically for the previous side.
type Page[T any] struct {
	Items          []T
	NextCursor     *int64
	PreviousCursor *int64
	HasNext        bool
	HasPrevious    bool
	Count          int
}

// pageEnvelope mirrors the backend's cursor pagination response body.
type pageEnvelope[T any] struct {
	Data           []T    `json:"data"`
	NextCursor     *int64 `json:"nextCursor"`
	PreviousCursor *int64 `json:"previousCursor"`
	HasNext        bool   `json:"hasNext"`
	HasPrevious    bool   `json:"hasPrevious"`
	Count          int    `json:"count"`
}

// FetchPage requests one page from a cursor-paginated endpoint. extra holds
// endpoint-specific query parameters (e.g. the search term); pagination
// parameters are filled in from req. Omitted cursor plus the default
// direction yields the first page in natural order.
func FetchPage[T any](ctx context.Context, c *Client, path string, extra map[string]string, req PageRequest) (Page[T], error) {
	query := make(map[string]string, len(extra)+3)
	for k, v := range extra {
		query[k] = v
	}
	if req.Cursor != nil {
		query["cursor"] = strconv.FormatInt(*req.Cursor, 10)
	}
	if req.Limit > 0 {
		query["limit"] = strconv.Itoa(req.Limit)
	}
	dir := req.Direction
	if dir == "" {
		dir = DirectionNext
	}
	query["direction"] = string(dir)

	var env pageEnvelope[T]
	if err := c.Get(ctx, path, query, &env); err != nil {
		return Page[T]{}, err
	}

	page := Page[T]{
		Items:          env.Data,
		NextCursor:     env.NextCursor,
		PreviousCursor: env.PreviousCursor,
		HasNext:        env.HasNext,
		HasPrevious:    env.HasPrevious,
		Count:          env.Count,
	}
	// Hold the page invariant against sloppy envelopes: a flag without its
	// cursor, or a cursor without its flag, never escapes this layer.
	if page.NextCursor == nil {
		page.HasNext = false
	}
	if !page.HasNext {
		page.NextCursor = nil
	}
	if page.PreviousCursor == nil {
		page.HasPrevious = false
	}
	if !page.HasPrevious {
		page.PreviousCursor = nil
	}
	return page, nil
}
