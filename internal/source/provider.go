// Package source reads raw article files from the content directory.
package source

import "emphasize/internal/models"

// Provider is the read-only interface for article sources. The serving path
// never mutates content, so there is no write surface here.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to the
	// content root).
	List(dir string) ([]models.SourceFile, error)
	// Read returns the raw bytes of the file at path (relative to the
	// content root).
	Read(path string) ([]byte, error)
}
