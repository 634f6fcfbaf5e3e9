package models

import (
	"encoding/json"
	"io"
)

// File is a file record returned by the storage API. Only the attributes the
// client acts on are decoded; the complete server payload is kept in Raw.
type File struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	URL      string `json:"url"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known attributes and retains the original payload.
func (f *File) UnmarshalJSON(data []byte) error {
	type plain File

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*f = File(p)
	f.Raw = append(json.RawMessage(nil), data...)

	return nil
}

// MarshalJSON writes back the original payload when one was decoded.
func (f File) MarshalJSON() ([]byte, error) {
	if len(f.Raw) > 0 {
		return f.Raw, nil
	}

	type plain File

	return json.Marshal(plain(f))
}

// Directory is a directory record returned by the storage API.
type Directory struct {
	Path string `json:"path"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the path and retains the original payload.
func (d *Directory) UnmarshalJSON(data []byte) error {
	type plain Directory

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*d = Directory(p)
	d.Raw = append(json.RawMessage(nil), data...)

	return nil
}

// MarshalJSON writes back the original payload when one was decoded.
func (d Directory) MarshalJSON() ([]byte, error) {
	if len(d.Raw) > 0 {
		return d.Raw, nil
	}

	type plain Directory

	return json.Marshal(plain(d))
}

// Page is one page of a paginated listing. Next is empty on the last page.
type Page[T any] struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []T    `json:"results"`
}

// Content is an open stream of a file's bytes. Length is -1 when the server
// did not declare a usable Content-Length.
type Content struct {
	Body   io.ReadCloser
	Length int64
}
