package services

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/dmitrijs2005/kbconsole/internal/client/forms"
	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/dmitrijs2005/kbconsole/internal/common"
	"github.com/dmitrijs2005/kbconsole/internal/logging"
)

// KnowledgeBaseService keeps the displayed list of knowledge bases in sync
// with the server.
type KnowledgeBaseService interface {
	Load(ctx context.Context) ([]models.KnowledgeBase, error)
	List() []models.KnowledgeBase
	Filter(query string) []models.KnowledgeBase
	Get(id models.ID) (models.KnowledgeBase, error)
	Create(ctx context.Context, name string) (models.KnowledgeBase, error)
	Rename(ctx context.Context, id models.ID, name string) error
	Delete(ctx context.Context, id models.ID) error
}

type knowledgeBaseService struct {
	client client.KnowledgeBaseAPI
	log    logging.Logger
	now    func() time.Time

	mu    sync.RWMutex
	items []models.KnowledgeBase
}

func NewKnowledgeBaseService(c client.KnowledgeBaseAPI, log logging.Logger) KnowledgeBaseService {
	return &knowledgeBaseService{client: c, log: log.With("service", "knowledge_bases"), now: time.Now}
}

// Load replaces the local list with the server's.
func (s *knowledgeBaseService) Load(ctx context.Context) ([]models.KnowledgeBase, error) {
	items, err := s.client.ListKnowledgeBases(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return s.List(), nil
}

func (s *knowledgeBaseService) List() []models.KnowledgeBase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Filter returns the entries whose title contains query, ignoring case.
// A blank query returns everything.
func (s *knowledgeBaseService) Filter(query string) []models.KnowledgeBase {
	q := strings.ToLower(strings.TrimSpace(query))
	items := s.List()
	if q == "" {
		return items
	}
	return slices.DeleteFunc(items, func(kb models.KnowledgeBase) bool {
		return !strings.Contains(strings.ToLower(kb.Title), q)
	})
}

func (s *knowledgeBaseService) Get(id models.ID) (models.KnowledgeBase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, kb := range s.items {
		if kb.ID == id {
			return kb, nil
		}
	}
	return models.KnowledgeBase{}, common.ErrorNotFound
}

// Create adds exactly one entry to the list, with no documents and the
// current time as its update time.
func (s *knowledgeBaseService) Create(ctx context.Context, name string) (models.KnowledgeBase, error) {
	name = strings.TrimSpace(name)
	if err := forms.Validate(forms.KnowledgeBase{Name: name}); err != nil {
		return models.KnowledgeBase{}, err
	}

	created, err := s.client.CreateKnowledgeBase(ctx, name)
	if err != nil {
		return models.KnowledgeBase{}, err
	}

	kb := models.KnowledgeBase{
		ID:        created.ID,
		Title:     name,
		Docs:      0,
		UpdatedAt: s.now(),
	}
	s.mu.Lock()
	s.items = append(s.items, kb)
	s.mu.Unlock()

	s.log.Info(ctx, "knowledge base created", "id", kb.ID, "name", kb.Title)
	return kb, nil
}

func (s *knowledgeBaseService) Rename(ctx context.Context, id models.ID, name string) error {
	name = strings.TrimSpace(name)
	if err := forms.Validate(forms.KnowledgeBase{Name: name}); err != nil {
		return err
	}
	if err := s.client.RenameKnowledgeBase(ctx, id, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Title = name
			s.items[i].UpdatedAt = s.now()
		}
	}
	return nil
}

// Delete removes the entry with id and leaves every other entry in place.
func (s *knowledgeBaseService) Delete(ctx context.Context, id models.ID) error {
	if err := s.client.DeleteKnowledgeBase(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.items = slices.DeleteFunc(s.items, func(kb models.KnowledgeBase) bool { return kb.ID == id })
	s.mu.Unlock()

	s.log.Info(ctx, "knowledge base deleted", "id", id)
	return nil
}
