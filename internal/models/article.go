// Package models defines the domain types for emphasize.
package models

import "time"

// Status is the resolved publication state of an article. It is always
// recomputed from the source draft flag and the process-wide publication
// mode, never treated as source of truth.
type Status string

// Resolved publication states.
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Article is a resolved content file. Slug is the stable identifier derived
// from the file path; Checksum references the raw content bytes.
type Article struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	Date      string    `json:"date,omitempty"`
	Tags      []string  `json:"tags"`
	Content   string    `json:"content"`
	Template  string    `json:"template,omitempty"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SourceFile is a lightweight view of a content file on disk, returned by
// source listing.
type SourceFile struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
