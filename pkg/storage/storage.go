package storage

import "context"

// FileStorage persists raw file payloads. WriteFile creates or overwrites the
// file at path and returns its location.
type FileStorage interface {
	WriteFile(ctx context.Context, path string, data []byte) (string, error)
}
