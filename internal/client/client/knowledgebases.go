package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
)

func (c *HTTPClient) ListKnowledgeBases(ctx context.Context) ([]models.KnowledgeBase, error) {
	var kbs []models.KnowledgeBase
	if err := c.do(ctx, http.MethodGet, "/knowledge_bases/list", nil, nil, &kbs); err != nil {
		return nil, err
	}
	return kbs, nil
}

// CreateKnowledgeBase returns the created entry. Backends that answer
// without a body yield an entry carrying only the name.
func (c *HTTPClient) CreateKnowledgeBase(ctx context.Context, name string) (models.KnowledgeBase, error) {
	kb := models.KnowledgeBase{Title: name}
	if err := c.do(ctx, http.MethodPost, "/knowledge_bases/create", nil, map[string]string{"name": name}, &kb); err != nil {
		return models.KnowledgeBase{}, err
	}
	return kb, nil
}

func (c *HTTPClient) RenameKnowledgeBase(ctx context.Context, id models.ID, name string) error {
	return c.do(ctx, http.MethodPut, "/knowledge_bases/"+url.PathEscape(id.String()), nil, map[string]string{"name": name}, nil)
}

func (c *HTTPClient) DeleteKnowledgeBase(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, "/knowledge_bases/"+url.PathEscape(id.String()), nil, nil, nil)
}
