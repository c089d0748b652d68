package storage

import (
	"context"
	"errors"
	"io"
)

var ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")

// FileStore persists uploaded application documents. Keys are relative,
// slash-separated paths produced by NewKey.
type FileStore interface {
	// Save writes the content under key and returns the number of bytes
	// written. Content longer than maxBytes is discarded with ErrFileTooLarge.
	Save(ctx context.Context, key string, reader io.Reader, maxBytes int64) (int64, error)

	// Open returns a reader for the stored content.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether key is stored and its size.
	Exists(ctx context.Context, key string) (bool, int64, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
