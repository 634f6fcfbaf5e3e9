package api

import (
	"context"
	"encoding/json"
	"iter"
	"net/url"

	"sensei/pkg/models"
)

// Iterate lazily yields every record of the paginated collection at
// relativeURL. A page is fetched only once the previous page's records have
// been consumed, and next links are followed until a page has none. On failure
// the sequence yields the error once and ends. Each call starts a fresh
// sequence from the first page.
func Iterate[T any](ctx context.Context, c *Client, relativeURL string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		next := relativeURL

		for next != "" {
			var page models.Page[T]
			if err := c.Request(ctx, next, &page); err != nil {
				var zero T

				yield(zero, err)

				return
			}

			for _, record := range page.Results {
				if !yield(record, nil) {
					return
				}
			}

			next = page.Next
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var records []T

	for record, err := range seq {
		if err != nil {
			return records, err
		}

		records = append(records, record)
	}

	return records, nil
}

// IterateResults yields the undecoded records of any paginated collection.
func (c *Client) IterateResults(ctx context.Context, relativeURL string) iter.Seq2[json.RawMessage, error] {
	return Iterate[json.RawMessage](ctx, c, relativeURL)
}

// IterateFiles yields the files directly under path ("/" when empty).
func (c *Client) IterateFiles(ctx context.Context, path string) iter.Seq2[models.File, error] {
	return Iterate[models.File](ctx, c, listURL("files/", path))
}

// IterateDirectories yields the directories directly under path ("/" when empty).
func (c *Client) IterateDirectories(ctx context.Context, path string) iter.Seq2[models.Directory, error] {
	return Iterate[models.Directory](ctx, c, listURL("paths/", path))
}

func listURL(endpoint, parent string) string {
	if parent == "" {
		parent = "/"
	}

	query := url.Values{}
	query.Set("parent", parent)

	return endpoint + "?" + query.Encode()
}
