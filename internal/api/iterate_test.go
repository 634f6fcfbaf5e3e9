package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sensei/internal/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterateFiles_FollowsAllPages(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		total    int
		relative bool
	}{
		{"empty collection", 3, 0, false},
		{"single partial page", 3, 2, false},
		{"exact pages", 3, 9, false},
		{"full pages plus partial", 3, 10, false},
		{"relative next links", 4, 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer()
			defer srv.Close()

			srv.PageSize = tt.pageSize
			srv.RelativeNext = tt.relative

			for i := range tt.total {
				srv.AddFile("/data", fmt.Sprintf("f%03d.bin", i), []byte{byte(i)})
			}

			srv.AddFile("/elsewhere", "ignored.bin", nil)

			c := newTestClient(t, srv, "key")

			files, err := Collect(c.IterateFiles(context.Background(), "/data"))
			require.NoError(t, err)
			require.Len(t, files, tt.total)

			seen := make(map[string]bool, len(files))
			for i, f := range files {
				assert.Equal(t, fmt.Sprintf("f%03d.bin", i), f.Filename, "records must keep page order")
				assert.False(t, seen[f.Filename], "duplicate record %s", f.Filename)
				seen[f.Filename] = true
			}
		})
	}
}

func TestIterate_IsLazy(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.PageSize = 2

	for i := range 6 {
		srv.AddFile("/", fmt.Sprintf("%d", i), nil)
	}

	c := newTestClient(t, srv, "key")

	for f, err := range c.IterateFiles(context.Background(), "/") {
		require.NoError(t, err)
		assert.Equal(t, "0", f.Filename)

		break
	}

	assert.Len(t, srv.Requests(), 1, "only the first page should be fetched")

	count := 0

	for _, err := range c.IterateFiles(context.Background(), "/") {
		require.NoError(t, err)

		count++
		if count == 3 {
			break
		}
	}

	assert.Len(t, srv.Requests(), 3, "a fresh sequence restarts from page one and stops at page two")
}

func TestIterateDirectories_DefaultsToRoot(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.AddDir("/a")
	srv.AddDir("/b")
	srv.AddDir("/a/nested")

	c := newTestClient(t, srv, "key")

	dirs, err := Collect(c.IterateDirectories(context.Background(), ""))
	require.NoError(t, err)
	require.Len(t, dirs, 2)
	assert.Equal(t, "/a", dirs[0].Path)
	assert.Equal(t, "/b", dirs[1].Path)

	requests := srv.Requests()
	require.NotEmpty(t, requests)
	assert.Equal(t, "/", apitest.ParseParent(requests[0]))
}

func TestIterateResults_Raw(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.AddDir("/x")

	c := newTestClient(t, srv, "key")

	records, err := Collect(c.IterateResults(context.Background(), "paths/?parent=/"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"path":"/x","name":"x"}`, string(records[0]))
}

func TestIterate_ForbiddenHaltsWithoutResults(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.APIKey = "right"
	srv.AddFile("/", "a.txt", nil)

	c := newTestClient(t, srv, "wrong")

	files, err := Collect(c.IterateFiles(context.Background(), "/"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthentication))
	assert.Empty(t, files)
}

func TestIterate_ErrorOnLaterPage(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.PageSize = 1
	srv.AddFile("/", "a", nil)
	srv.AddFile("/", "b", nil)

	c := newTestClient(t, srv, "key")

	var (
		got     []string
		lastErr error
	)

	for f, err := range c.IterateFiles(context.Background(), "/") {
		if err != nil {
			lastErr = err

			break
		}

		got = append(got, f.Filename)
		srv.SetAPIKey("revoked")
	}

	assert.Equal(t, []string{"a"}, got)
	assert.True(t, errors.Is(lastErr, ErrAuthentication))
}
