// Package model defines the medical-document types exchanged with the analysis backend.
package model

import (
	"strings"
	"time"
)

// Document is an uploaded document as stored by the backend.
type Document struct {
	CreatedAt        string `json:"created_at"`
	OriginalFilename string `json:"original_filename"`
	LocalPath        string `json:"local_path,omitempty"`
	ID               int    `json:"id"`
}

// createdAtLayouts covers timezone-aware and naive ISO-8601 timestamps.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// CreatedTime parses CreatedAt. Naive timestamps are read as UTC.
func (d Document) CreatedTime() (time.Time, bool) {
	value := strings.TrimSpace(d.CreatedAt)
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DocumentWithResults is a document plus its pipeline output, if any.
// Nil Results means the document has not been processed yet.
type DocumentWithResults struct {
	Results *PipelineResult `json:"results,omitempty"`
	Document
}

// IsProcessed reports whether pipeline output is attached.
func (d DocumentWithResults) IsProcessed() bool {
	return d.Results != nil
}

// UploadResponse is returned by the upload endpoint.
type UploadResponse struct {
	Results    *PipelineResult `json:"results,omitempty"`
	DocumentID int             `json:"document_id"`
	Processed  bool            `json:"processed"`
}

// Consistent reports whether the processed flag agrees with the presence of results.
func (u UploadResponse) Consistent() bool {
	return u.Processed == (u.Results != nil)
}
