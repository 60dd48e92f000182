package port

import (
	"context"
	"io"
	"time"
)

// DocumentUpload carries one uploaded invoice document destined for storage.
type DocumentUpload struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// ObjectStorage stores uploaded invoice documents. Implementations are bound
// to a single bucket at construction; callers address documents by key only.
type ObjectStorage interface {
	// Upload stores the document and returns its storage location.
	Upload(ctx context.Context, upload DocumentUpload) (string, error)
	// Download returns the full document bytes for extraction.
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// PresignGetURL returns a time-limited GET URL for document preview.
	PresignGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
