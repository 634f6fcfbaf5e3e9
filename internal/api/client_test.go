package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sensei/internal/apitest"
	"sensei/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *apitest.Server, key string) *Client {
	t.Helper()

	httpClient, err := auth.NewClient(key, 5*time.Second)
	require.NoError(t, err)

	return NewClient(httpClient, srv.Root())
}

func TestNewClient_DefaultRoot(t *testing.T) {
	c := NewClient(nil, "")
	assert.Equal(t, DefaultRoot, c.Root())
}

func TestRequest_DecodesJSON(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.AddFile("/", "a.txt", []byte("a"))

	c := newTestClient(t, srv, "key")

	var page struct {
		Count   int              `json:"count"`
		Results []map[string]any `json:"results"`
	}

	require.NoError(t, c.Request(context.Background(), "files/?parent=/", &page))
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "a.txt", page.Results[0]["filename"])
}

func TestRequest_ForbiddenIsAuthenticationError(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.APIKey = "right"

	c := newTestClient(t, srv, "wrong")

	var out map[string]any
	err := c.Request(context.Background(), "files/?parent=/", &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthentication))
}

func TestRequest_NonSuccessStatusFailsFast(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.ListStatus = http.StatusInternalServerError

	c := newTestClient(t, srv, "key")

	var out map[string]any
	err := c.Request(context.Background(), "paths/?parent=/", &out)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.URL, "/datasets/paths/")
	assert.Contains(t, statusErr.Body, "listing unavailable")
	assert.False(t, errors.Is(err, ErrAuthentication))
}

func TestRequest_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL+"/")

	var out map[string]any
	err := c.Request(context.Background(), "files/", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestFindFiles_FiltersByParentAndFilename(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.AddFile("/a", "x.txt", []byte("x"))
	srv.AddFile("/a", "y.txt", []byte("y"))
	srv.AddFile("/b", "x.txt", []byte("other"))

	c := newTestClient(t, srv, "key")

	page, err := c.FindFiles(context.Background(), "/a", "x.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "/a", page.Results[0].Path)
	assert.Equal(t, "x.txt", page.Results[0].Filename)
}

func TestFile_KeepsUnknownFields(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.AddFile("/", "data.bin", []byte("1234"))

	c := newTestClient(t, srv, "key")

	files, err := Collect(c.IterateFiles(context.Background(), "/"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(files[0].Raw, &raw))
	assert.EqualValues(t, 4, raw["size"])
	assert.EqualValues(t, 1, raw["id"])
}

func TestOpen_StreamsContent(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.AddFile("/", "a.txt", []byte("hello world"))

	c := newTestClient(t, srv, "key")

	files, err := Collect(c.IterateFiles(context.Background(), "/"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	content, err := c.Open(context.Background(), files[0].URL)
	require.NoError(t, err)

	defer content.Body.Close()

	data, err := io.ReadAll(content.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
	assert.EqualValues(t, 11, content.Length)
}

func TestOpen_UnknownLength(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.OmitContentLength = true
	srv.AddFile("/", "a.txt", []byte("streamed"))

	c := newTestClient(t, srv, "key")

	files, err := Collect(c.IterateFiles(context.Background(), "/"))
	require.NoError(t, err)

	content, err := c.Open(context.Background(), files[0].URL)
	require.NoError(t, err)

	defer content.Body.Close()

	assert.EqualValues(t, -1, content.Length)
}

func TestOpen_Errors(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	c := newTestClient(t, srv, "key")

	_, err := c.Open(context.Background(), srv.URL+"/content/99")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	srv.SetAPIKey("other")

	_, err = c.Open(context.Background(), srv.URL+"/content/0")
	assert.True(t, errors.Is(err, ErrAuthentication))
}
