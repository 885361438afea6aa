// Package pager drains paginated list endpoints into a single slice.
package pager

import "context"

// FetchFunc returns one page of items plus the token for the next page.
// An empty returned token means the listing is exhausted.
type FetchFunc[T any] func(ctx context.Context, pageToken string) ([]T, string, error)

// Drain accumulates every page in order. A failure on the first page is
// returned as-is (no items). A failure while advancing to a later page
// truncates the traversal: the items gathered so far are returned with a
// nil error, since a partial listing is usable and not fatal.
func Drain[T any](ctx context.Context, fetch FetchFunc[T]) ([]T, error) {
	items, token, err := fetch(ctx, "")
	if err != nil {
		return nil, err
	}
	out := append([]T(nil), items...)
	for token != "" {
		items, token, err = fetch(ctx, token)
		if err != nil {
			return out, nil
		}
		out = append(out, items...)
	}
	return out, nil
}
