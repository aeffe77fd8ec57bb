package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a stored object doesn't exist
var ErrNotFound = errors.New("blob not found")

// Store persists uploaded attachments. Keys are opaque, slash-separated
// paths assigned by the caller.
type Store interface {
	// Put writes an object, replacing any previous content under the key
	Put(ctx context.Context, key string, r io.Reader) error

	// Open returns a reader over a stored object
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}
