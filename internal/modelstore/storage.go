// Package modelstore persists trained model blobs.
package modelstore

import (
	"context"
	"errors"
)

// Blob names used by the registry.
const (
	ClassifierBlob = "classifier"
	ClustererBlob  = "clusterer"
)

// ErrNotFound is returned by Get when no blob exists under a name.
var ErrNotFound = errors.New("model blob not found")

// Blob is a named, encoded model.
type Blob struct {
	Name string
	Data []byte
}

// Storage persists model blobs. A failed Put leaves the stored blobs as
// they were; a concurrent Get may still observe a partly applied Put.
type Storage interface {
	Init(ctx context.Context) error
	Put(ctx context.Context, blobs ...Blob) error
	Get(ctx context.Context, name string) ([]byte, error)
	Clear(ctx context.Context) error
	Close() error
}
