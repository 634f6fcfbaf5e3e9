// Package apitest provides an in-memory implementation of the paginated
// storage API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Server is a fake storage API backed by httptest.
type Server struct {
	*httptest.Server

	// PageSize is the number of records per page (default 2).
	PageSize int
	// APIKey, when set, makes requests without "ApiKey <APIKey>" fail with 403.
	APIKey string
	// RelativeNext emits next links relative to the API root instead of absolute URLs.
	RelativeNext bool
	// OmitContentLength streams file content without a Content-Length header.
	OmitContentLength bool
	// ListStatus, when non-zero, is returned by every listing endpoint.
	ListStatus int
	// FailWith, when set, is asked for every authenticated request; a
	// non-zero status is returned instead of the normal response.
	FailWith func(r *http.Request) int

	mu       sync.Mutex
	files    []fileEntry
	dirs     []string
	requests []string

	contentRequests atomic.Int64
}

type fileEntry struct {
	dir     string
	name    string
	content []byte
}

// NewServer starts a fake API. Callers must Close it.
func NewServer() *Server {
	s := &Server{PageSize: 2}

	mux := http.NewServeMux()
	mux.HandleFunc("/datasets/files/", s.handleFiles)
	mux.HandleFunc("/datasets/paths/", s.handlePaths)
	mux.HandleFunc("/content/", s.handleContent)

	s.Server = httptest.NewServer(s.authenticate(mux))

	return s
}

// Root is the API root clients should be configured with.
func (s *Server) Root() string {
	return s.URL + "/datasets/"
}

// AddDir registers a directory; its parent is path.Dir(dir).
func (s *Server) AddDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirs = append(s.dirs, dir)
}

// AddFile registers a file under dir. Adding the same name twice creates a
// duplicate record.
func (s *Server) AddFile(dir, name string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = append(s.files, fileEntry{dir: dir, name: name, content: content})
}

// SetAPIKey changes the accepted key while the server is running.
func (s *Server) SetAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.APIKey = key
}

// ContentRequests returns how many file content downloads were served.
func (s *Server) ContentRequests() int64 {
	return s.contentRequests.Load()
}

// Requests returns the request URIs served so far, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.requests...)
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.RequestURI())
		key := s.APIKey
		s.mu.Unlock()

		if key != "" && r.Header.Get("Authorization") != "ApiKey "+key {
			http.Error(w, `{"detail":"Invalid API key"}`, http.StatusForbidden)

			return
		}

		if s.FailWith != nil {
			if status := s.FailWith(r); status != 0 {
				http.Error(w, `{"detail":"injected failure"}`, status)

				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	parent := query.Get("parent")
	filename := query.Get("filename")

	s.mu.Lock()

	var records []any

	for i, f := range s.files {
		if f.dir != parent || (filename != "" && f.name != filename) {
			continue
		}

		records = append(records, map[string]any{
			"id":       i + 1,
			"path":     f.dir,
			"filename": f.name,
			"url":      fmt.Sprintf("%s/content/%d", s.URL, i),
			"size":     len(f.content),
		})
	}
	s.mu.Unlock()

	s.writePage(w, r, "files/", records)
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	parent := r.URL.Query().Get("parent")

	s.mu.Lock()

	var records []any

	for _, d := range s.dirs {
		if d != "/" && path.Dir(d) == parent {
			records = append(records, map[string]any{"path": d, "name": path.Base(d)})
		}
	}
	s.mu.Unlock()

	s.writePage(w, r, "paths/", records)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, endpoint string, records []any) {
	if s.ListStatus != 0 {
		http.Error(w, `{"detail":"listing unavailable"}`, s.ListStatus)

		return
	}

	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = 2
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	start := min((page-1)*pageSize, len(records))
	end := min(start+pageSize, len(records))

	var next any
	if end < len(records) {
		query := r.URL.Query()
		query.Set("page", strconv.Itoa(page+1))

		if s.RelativeNext {
			next = endpoint + "?" + query.Encode()
		} else {
			next = s.Root() + endpoint + "?" + query.Encode()
		}
	}

	results := records[start:end]
	if results == nil {
		results = []any{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"count":    len(records),
		"next":     next,
		"previous": nil,
		"results":  results,
	})
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/content/"))

	s.mu.Lock()
	if err != nil || idx < 0 || idx >= len(s.files) {
		s.mu.Unlock()
		http.NotFound(w, r)

		return
	}

	content := s.files[idx].content
	s.mu.Unlock()

	s.contentRequests.Add(1)

	w.Header().Set("Content-Type", "application/octet-stream")

	if !s.OmitContentLength {
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	} else if flusher, ok := w.(http.Flusher); ok {
		// Flushing before the body forces chunked encoding.
		flusher.Flush()
	}

	_, _ = w.Write(content)
}

// ParseParent extracts the parent filter from a recorded request URI.
func ParseParent(requestURI string) string {
	u, err := url.Parse(requestURI)
	if err != nil {
		return ""
	}

	return u.Query().Get("parent")
}
