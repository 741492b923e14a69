package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// DocumentStatus is the client-visible stage of server-side processing.
type DocumentStatus string

const (
	StatusUploading  DocumentStatus = "uploading"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusError      DocumentStatus = "error"
)

// ParseStatus maps a server status onto the client-visible subset.
// Intermediate pipeline stages collapse to processing.
func ParseStatus(raw string) DocumentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "uploading":
		return StatusUploading
	case "ready", "done", "completed":
		return StatusReady
	case "error", "failed":
		return StatusError
	default:
		return StatusProcessing
	}
}

// Terminal reports whether no further server-side transition is expected.
func (s DocumentStatus) Terminal() bool {
	return s == StatusReady || s == StatusError
}

func (s *DocumentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseStatus(raw)
	return nil
}

// Document is an uploaded coursebook tracked through processing.
type Document struct {
	ID           string         `json:"_id"`
	FileName     string         `json:"fileName"`
	FileSize     int64          `json:"fileSize"`
	TotalPages   int            `json:"totalPages"`
	Status       DocumentStatus `json:"status"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	FilePath     string         `json:"filePath"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Normalize enforces the status invariants: page count only when ready,
// error message only when errored. A missing status counts as processing.
func (d Document) Normalize() Document {
	if d.Status == "" {
		d.Status = StatusProcessing
	}
	if d.Status != StatusReady {
		d.TotalPages = 0
	}
	if d.Status != StatusError {
		d.ErrorMessage = ""
	}
	return d
}

// Ready reports whether quiz generation, chat scoping and recommendations may use it.
func (d Document) Ready() bool {
	return d.Status == StatusReady
}

// DocumentRef is a back-reference to a document held by threads and attempts.
// The server sends either a bare id or a populated object.
type DocumentRef struct {
	ID       string `json:"_id,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

func (r *DocumentRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = DocumentRef{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = DocumentRef{ID: id}
		return nil
	}
	type plain DocumentRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = DocumentRef(p)
	return nil
}

// Upload is a local file about to be submitted.
type Upload struct {
	FileName string
	Content  []byte
}
