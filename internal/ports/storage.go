package ports

import (
	"context"
	"io"
)

type PutObjectInput struct {
	ObjectKey   string
	ContentType string
	Reader      io.Reader
	Size        int64
}

type PutObjectOutput struct {
	// ObjectKey is the provider's durable handle for the object. In localfs
	// it equals the input key; in gdrive it is the Drive fileId.
	ObjectKey string
	// PublicURL is a publicly resolvable reference to the object.
	PublicURL string
	Size      int64
}

// StorageProvider is the publisher's storage collaborator. Implementations
// (localfs, gdrive) transfer an artifact to durable storage and return a
// public reference; they fail if unconfigured or on transfer error.
type StorageProvider interface {
	Provider() string

	PutObject(ctx context.Context, in PutObjectInput) (PutObjectOutput, error)
}
