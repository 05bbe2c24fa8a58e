// Package storage abstracts the object store holding uploaded
// certificate documents.
package storage

import "context"

// Service stores and removes certificate documents. Upload returns a
// stable file ID that callers persist on the certificate record.
type Service interface {
	Upload(ctx context.Context, data []byte, filename, folderPath, mimeType string) (string, error)
	Delete(ctx context.Context, fileID string) error
}
