package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/dmitrijs2005/kbconsole/internal/netx"
)

// Upload is one file of a multipart upload.
type Upload struct {
	Name   string
	Reader io.Reader
}

func filePath(id models.ID) string {
	return "/api/v2/files/" + url.PathEscape(id.String())
}

func (c *HTTPClient) ListFilesByKnowledgeBase(ctx context.Context, kbID models.ID) ([]models.File, error) {
	var files []models.File
	path := "/api/v2/files/files/by-knowledge-base/" + url.PathEscape(kbID.String())
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// GetFile returns the file record including its download URL in Path.
func (c *HTTPClient) GetFile(ctx context.Context, id models.ID) (models.File, error) {
	var f models.File
	if err := c.do(ctx, http.MethodGet, filePath(id), nil, nil, &f); err != nil {
		return models.File{}, err
	}
	return f, nil
}

func (c *HTTPClient) RenameFile(ctx context.Context, id models.ID, name string) error {
	return c.do(ctx, http.MethodPut, filePath(id), nil, models.FileRename{Name: name}, nil)
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, filePath(id), nil, nil, nil)
}

// UploadFiles sends uploads to the indexer as repeated "files" parts.
func (c *HTTPClient) UploadFiles(ctx context.Context, kbID models.ID, uploads []Upload) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, u := range uploads {
		part, err := mw.CreateFormFile("files", u.Name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", u.Name, err)
		}
		if _, err := io.Copy(part, u.Reader); err != nil {
			return fmt.Errorf("read %s: %w", u.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	q := url.Values{"knowledge_base_id": {kbID.String()}}
	return c.send(ctx, c.http, http.MethodPost, c.endpoint("/Index/api/index", q), mw.FormDataContentType(), &buf, nil)
}

// Download saves fileURL into dst. Relative URLs and URLs on the API host go
// through the authenticated client; anything else is fetched without a token.
func (c *HTTPClient) Download(ctx context.Context, fileURL, dst string) (int64, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return 0, fmt.Errorf("invalid file url %q: %w", fileURL, err)
	}

	hc := c.rawDownload
	if !u.IsAbs() {
		u = c.base.ResolveReference(u)
		hc = c.download
	} else if u.Host == c.base.Host {
		hc = c.download
	}

	n, err := netx.DownloadTo(ctx, hc, u.String(), dst)
	var ue *url.Error
	if errors.As(err, &ue) {
		return 0, c.transportError(ctx, err)
	}
	return n, err
}
