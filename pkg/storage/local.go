package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// LocalObjectStore keeps documents on disk. It backs development and
// tests; production uses the Drive client. Object ids are generated file
// names so the id alone resolves the stored path.
type LocalObjectStore struct {
	baseDir string
}

// NewLocalObjectStore ensures the base directory exists and returns a handle.
func NewLocalObjectStore(baseDir string) (*LocalObjectStore, error) {
	if baseDir == "" {
		baseDir = "./documents"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create documents directory: %w", err)
	}
	return &LocalObjectStore{baseDir: baseDir}, nil
}

// Store writes the bytes under a generated id-prefixed name.
func (s *LocalObjectStore) Store(ctx context.Context, name, mimeType string, data []byte) (*StoredObject, error) {
	id := uuid.NewString() + filepath.Ext(name)
	path := filepath.Join(s.baseDir, id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	metaPath := path + ".name"
	if err := os.WriteFile(metaPath, []byte(name), 0o644); err != nil {
		return nil, fmt.Errorf("write document name: %w", err)
	}
	return &StoredObject{
		ID:           id,
		ViewLink:     "/documents/" + id,
		DownloadLink: "/documents/" + id + "?download=1",
	}, nil
}

// ExportPDF produces a cover-sheet PDF describing the stored document.
// Real spreadsheet-to-PDF conversion is the remote backend's job; the
// local store only needs to satisfy the contract for development.
func (s *LocalObjectStore) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	path := filepath.Join(s.baseDir, filepath.Base(id))
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	name := id
	if raw, err := os.ReadFile(path + ".name"); err == nil {
		name = strings.TrimSpace(string(raw))
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, name, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Object ID: %s", id), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Size: %d bytes", info.Size()), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Stored: %s", info.ModTime().UTC().Format("2006-01-02 15:04:05 MST")), "", 1, "", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render local pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// OpenRead returns a read stream for the stored document.
func (s *LocalObjectStore) OpenRead(ctx context.Context, id string) (io.ReadCloser, error) {
	path := filepath.Join(s.baseDir, filepath.Base(id))
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return file, nil
}
