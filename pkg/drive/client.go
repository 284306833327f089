// Package drive implements the document object store against the Google
// Drive v3 REST API. Uploads convert spreadsheets to the native Sheets
// format so the export endpoint can later render them as PDF.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/noah-isme/hei-portal-api/pkg/storage"
)

const (
	defaultBaseURL   = "https://www.googleapis.com/drive/v3"
	defaultUploadURL = "https://www.googleapis.com/upload/drive/v3"

	driveScope      = "https://www.googleapis.com/auth/drive"
	spreadsheetMIME = "application/vnd.google-apps.spreadsheet"
)

// Config holds Drive client settings. BaseURL/UploadURL overrides exist
// for tests; TokenSource overrides the service-account credentials file.
type Config struct {
	CredentialsFile string
	FolderID        string
	BaseURL         string
	UploadURL       string
	TokenSource     oauth2.TokenSource
}

// Client talks to the Drive REST API.
type Client struct {
	http      *http.Client
	baseURL   string
	uploadURL string
	folderID  string
}

// NewClient builds a Drive client authenticated via a service account.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	ts := cfg.TokenSource
	if ts == nil {
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read drive credentials: %w", err)
		}
		jwtCfg, err := google.JWTConfigFromJSON(raw, driveScope)
		if err != nil {
			return nil, fmt.Errorf("parse drive credentials: %w", err)
		}
		ts = jwtCfg.TokenSource(ctx)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	uploadURL := cfg.UploadURL
	if uploadURL == "" {
		uploadURL = defaultUploadURL
	}

	return &Client{
		http:      oauth2.NewClient(ctx, ts),
		baseURL:   baseURL,
		uploadURL: uploadURL,
		folderID:  cfg.FolderID,
	}, nil
}

type fileMetadata struct {
	Name     string   `json:"name"`
	MimeType string   `json:"mimeType,omitempty"`
	Parents  []string `json:"parents,omitempty"`
}

type fileResource struct {
	ID             string `json:"id"`
	WebViewLink    string `json:"webViewLink"`
	WebContentLink string `json:"webContentLink"`
}

// Store uploads the bytes as a multipart/related request, converting
// spreadsheet uploads to the Sheets format.
func (c *Client) Store(ctx context.Context, name, mimeType string, data []byte) (*storage.StoredObject, error) {
	meta := fileMetadata{Name: name}
	if c.folderID != "" {
		meta.Parents = []string{c.folderID}
	}
	if mimeType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		meta.MimeType = spreadsheetMIME
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, fmt.Errorf("create metadata part: %w", err)
	}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mimeType)
	mediaPart, err := writer.CreatePart(mediaHeader)
	if err != nil {
		return nil, fmt.Errorf("create media part: %w", err)
	}
	if _, err := mediaPart.Write(data); err != nil {
		return nil, fmt.Errorf("write media: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/files?uploadType=multipart&fields=id,webViewLink,webContentLink", c.uploadURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive upload: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, driveError("upload", resp)
	}

	var file fileResource
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	return &storage.StoredObject{
		ID:           file.ID,
		ViewLink:     file.WebViewLink,
		DownloadLink: file.WebContentLink,
	}, nil
}

// ExportPDF renders a stored spreadsheet as PDF bytes.
func (c *Client) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/files/%s/export?mimeType=%s", c.baseURL, url.PathEscape(id), url.QueryEscape("application/pdf"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive export: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, driveError("export", resp)
	}
	return io.ReadAll(resp.Body)
}

// OpenRead streams back the stored bytes. The caller owns the reader.
func (c *Client) OpenRead(ctx context.Context, id string) (io.ReadCloser, error) {
	endpoint := fmt.Sprintf("%s/files/%s?alt=media", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close() //nolint:errcheck
		return nil, driveError("download", resp)
	}
	return resp.Body, nil
}

func driveError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("drive %s: status %d: %s", op, resp.StatusCode, bytes.TrimSpace(snippet))
}
