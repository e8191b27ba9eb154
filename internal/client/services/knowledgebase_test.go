package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/dmitrijs2005/kbconsole/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKBService(e *env) *knowledgeBaseService {
	svc := NewKnowledgeBaseService(e.c, e.log).(*knowledgeBaseService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestKnowledgeBaseService_CreateAppendsOneEntry(t *testing.T) {
	e := signedIn(t)
	e.api.AddKnowledgeBase("KB1", 1)
	svc := newKBService(e)
	ctx := context.Background()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	kb, err := svc.Create(ctx, "  Manuals ")
	require.NoError(t, err)
	assert.Equal(t, "Manuals", kb.Title)
	assert.Equal(t, 0, kb.Docs)
	assert.Equal(t, testNow, kb.UpdatedAt)
	assert.NotEmpty(t, kb.ID)

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, "KB1", list[0].Title)
	assert.Equal(t, kb, list[1])
}

func TestKnowledgeBaseService_CreateBlankName(t *testing.T) {
	e := signedIn(t)
	svc := newKBService(e)

	_, err := svc.Create(context.Background(), "   ")
	var ve *client.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Name is required", ve.Fields["name"])
	assert.Empty(t, svc.List())
}

func TestKnowledgeBaseService_DeleteRemovesOnlyMatch(t *testing.T) {
	e := signedIn(t)
	a := e.api.AddKnowledgeBase("A", 1)
	b := e.api.AddKnowledgeBase("B", 2)
	c := e.api.AddKnowledgeBase("C", 3)
	svc := newKBService(e)
	ctx := context.Background()

	_, err := svc.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, b.ID))

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, c.ID, list[1].ID)

	_, err = svc.Get(b.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestKnowledgeBaseService_DeleteFailureKeepsList(t *testing.T) {
	e := signedIn(t)
	e.api.AddKnowledgeBase("A", 1)
	svc := newKBService(e)
	ctx := context.Background()
	_, err := svc.Load(ctx)
	require.NoError(t, err)

	err = svc.Delete(ctx, "missing")
	require.Error(t, err)
	assert.Len(t, svc.List(), 1)
}

func TestKnowledgeBaseService_RenameAndFilter(t *testing.T) {
	e := signedIn(t)
	a := e.api.AddKnowledgeBase("Product Manuals", 1)
	e.api.AddKnowledgeBase("HR policies", 2)
	svc := newKBService(e)
	ctx := context.Background()
	_, err := svc.Load(ctx)
	require.NoError(t, err)

	got := svc.Filter("MANUAL")
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Len(t, svc.Filter("  "), 2)
	assert.Empty(t, svc.Filter("finance"))

	require.NoError(t, svc.Rename(ctx, a.ID, "Guides"))
	kb, err := svc.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Guides", kb.Title)
	assert.Equal(t, testNow, kb.UpdatedAt)
}
