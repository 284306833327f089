package storage

import (
	"context"
	"io"
)

// StoredObject references a document held by the object store.
type StoredObject struct {
	ID           string `json:"id"`
	ViewLink     string `json:"view_link"`
	DownloadLink string `json:"download_link"`
}

// ObjectStore is the contract the core consumes from the document service.
// Every call is attempted once per user action; failures abort the action
// without retry.
type ObjectStore interface {
	// Store persists the bytes under name and returns the object reference.
	Store(ctx context.Context, name, mimeType string, data []byte) (*StoredObject, error)
	// ExportPDF renders a stored spreadsheet as PDF bytes.
	ExportPDF(ctx context.Context, id string) ([]byte, error)
	// OpenRead streams back the stored bytes.
	OpenRead(ctx context.Context, id string) (io.ReadCloser, error)
}
