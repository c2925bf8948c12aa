// Package storage abstracts where uploaded image bytes live. The rest of
// the application only sees stored names, never paths.
package storage

import "io"

// Storage persists uploaded file bytes under generated names
type Storage interface {
	// Save writes the content and returns the stored name and byte count
	Save(originalName string, r io.Reader) (storedName string, size int64, err error)
	// Open returns a reader over a stored file
	Open(storedName string) (io.ReadCloser, error)
	// Remove deletes a stored file
	Remove(storedName string) error
}
