package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/dmitrijs2005/kbconsole/internal/client/forms"
	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/dmitrijs2005/kbconsole/internal/common"
	"github.com/dmitrijs2005/kbconsole/internal/filex"
	"github.com/dmitrijs2005/kbconsole/internal/logging"
)

// PageSize is the number of rows shown per page in file and user listings.
const PageSize = 5

// Page is one page of a listing. Number is 1-based.
type Page[T any] struct {
	Items  []T
	Number int
	Total  int
}

// Pages returns the number of pages needed for Total rows.
func (p Page[T]) Pages() int {
	if p.Total == 0 {
		return 1
	}
	return (p.Total + PageSize - 1) / PageSize
}

type FileService interface {
	List(ctx context.Context, kb models.ID, nameFilter string, page int) (Page[models.File], error)
	Upload(ctx context.Context, kb models.ID, paths []string) error
	Rename(ctx context.Context, id models.ID, name string) error
	Trash(ctx context.Context, ids ...models.ID) (int, error)
	Download(ctx context.Context, id models.ID, dir string) (string, int64, error)
}

type fileService struct {
	client client.FileAPI
	log    logging.Logger
}

func NewFileService(c client.FileAPI, log logging.Logger) FileService {
	return &fileService{client: c, log: log.With("service", "files")}
}

// List fetches every file of kb and pages the ones whose name contains
// nameFilter (case-insensitive) locally.
func (s *fileService) List(ctx context.Context, kb models.ID, nameFilter string, page int) (Page[models.File], error) {
	if kb == "" {
		return Page[models.File]{}, fmt.Errorf("knowledge base is required")
	}
	files, err := s.client.ListFilesByKnowledgeBase(ctx, kb)
	if err != nil {
		return Page[models.File]{}, err
	}

	q := strings.ToLower(strings.TrimSpace(nameFilter))
	filtered := files[:0:0]
	for _, f := range files {
		if q == "" || strings.Contains(strings.ToLower(f.Name), q) {
			filtered = append(filtered, f)
		}
	}
	return paginate(filtered, page), nil
}

func paginate[T any](items []T, page int) Page[T] {
	if page < 1 {
		page = 1
	}
	start := min((page-1)*PageSize, len(items))
	end := min(start+PageSize, len(items))
	return Page[T]{Items: items[start:end], Number: page, Total: len(items)}
}

// Upload sends the files at paths to kb in one request.
func (s *fileService) Upload(ctx context.Context, kb models.ID, paths []string) error {
	if kb == "" {
		return fmt.Errorf("knowledge base is required")
	}
	if len(paths) == 0 {
		return fmt.Errorf("select at least one file")
	}

	uploads := make([]client.Upload, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("open %s: %w", p, err)
		}
		defer f.Close()
		uploads = append(uploads, client.Upload{Name: filepath.Base(p), Reader: f})
	}

	if err := s.client.UploadFiles(ctx, kb, uploads); err != nil {
		return err
	}
	s.log.Info(ctx, "files uploaded", "knowledge_base", kb, "count", len(uploads))
	return nil
}

func (s *fileService) Rename(ctx context.Context, id models.ID, name string) error {
	name = strings.TrimSpace(name)
	if err := forms.Validate(forms.FileRename{Name: name}); err != nil {
		return err
	}
	return s.client.RenameFile(ctx, id, name)
}

// Trash deletes ids in order and stops at the first failure. It returns how
// many were deleted.
func (s *fileService) Trash(ctx context.Context, ids ...models.ID) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("select at least one file")
	}
	for i, id := range ids {
		if err := s.client.DeleteFile(ctx, id); err != nil {
			return i, fmt.Errorf("delete file %s: %w", id, err)
		}
	}
	s.log.Info(ctx, "files moved to trash", "count", len(ids))
	return len(ids), nil
}

// Download resolves the file's URL and saves it under dir (the working
// directory when empty). It returns the written path and size.
func (s *fileService) Download(ctx context.Context, id models.ID, dir string) (string, int64, error) {
	f, err := s.client.GetFile(ctx, id)
	if err != nil {
		return "", 0, err
	}
	if f.Path == "" {
		return "", 0, fmt.Errorf("file %s: %w", id, common.ErrorNotFound)
	}

	target, err := filex.EnsureDir(dir, "")
	if err != nil {
		return "", 0, err
	}
	dst := filepath.Join(target, filex.SafeName(f.Name))

	n, err := s.client.Download(ctx, f.Path, dst)
	if err != nil {
		return "", 0, err
	}
	return dst, n, nil
}
