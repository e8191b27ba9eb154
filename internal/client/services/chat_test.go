package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAssistant(t *testing.T) {
	a := DefaultAssistant()
	assert.Equal(t, "Hi! I'm your assistant, what can I do for you?", a.OpeningGreeting)
	assert.Equal(t, "deepseek-v3@giteeai", a.Model)
	assert.Equal(t, "precise", a.Creativity)
	assert.Equal(t, 0.2, a.Temperature)
	assert.Contains(t, a.SystemPrompt, "The answer you are looking for is not found in the knowledge base!")
	assert.Len(t, ModelOptions, 5)
}

func TestChatService_CreateAssistantFillsDefaults(t *testing.T) {
	e := signedIn(t)
	svc := NewChatService(e.c, e.log)

	a, err := svc.CreateAssistant(context.Background(), models.Assistant{Name: " Helper ", Temperature: 0.5})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Helper", a.Name)
	assert.Equal(t, DefaultGreeting, a.OpeningGreeting)
	assert.Equal(t, DefaultSystemPrompt, a.SystemPrompt)
	assert.Equal(t, "deepseek-v3@giteeai", a.Model)
	assert.Equal(t, 0.5, a.Temperature)

	list, err := svc.ListAssistants(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestChatService_CreateAssistantValidation(t *testing.T) {
	e := signedIn(t)
	svc := NewChatService(e.c, e.log)

	_, err := svc.CreateAssistant(context.Background(), models.Assistant{Name: "", Temperature: 2})
	var ve *client.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "temperature")
	assert.Empty(t, e.api.RequestsTo("/chat-model/create"))
}

func TestChatService_Conversation(t *testing.T) {
	e := signedIn(t)
	svc := NewChatService(e.c, e.log)
	ctx := context.Background()

	a, err := svc.CreateAssistant(ctx, models.Assistant{Name: "Helper"})
	require.NoError(t, err)

	conv, err := svc.NewChat(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "New chat", conv.Name)

	_, err = svc.Send(ctx, conv.ID, "   ")
	require.Error(t, err)

	reply, err := svc.Send(ctx, conv.ID, "  hello ")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", reply.Content)

	msgs, err := svc.History(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)

	chats, err := svc.Chats(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, chats, 1)

	require.NoError(t, svc.DeleteAssistant(ctx, a.ID))
}
