package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
)

func (c *HTTPClient) ListAssistants(ctx context.Context) ([]models.Assistant, error) {
	var as []models.Assistant
	if err := c.do(ctx, http.MethodGet, "/chat-model/list", nil, nil, &as); err != nil {
		return nil, err
	}
	return as, nil
}

func (c *HTTPClient) CreateAssistant(ctx context.Context, a models.Assistant) (models.Assistant, error) {
	created := a
	if err := c.do(ctx, http.MethodPost, "/chat-model/create", nil, a, &created); err != nil {
		return models.Assistant{}, err
	}
	return created, nil
}

func (c *HTTPClient) DeleteAssistant(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, "/chat-model/"+url.PathEscape(id.String()), nil, nil, nil)
}

func conversationPath(id models.ID) string {
	return "/api/v2/history/conversation/" + url.PathEscape(id.String())
}

func (c *HTTPClient) ListConversations(ctx context.Context, assistantID models.ID) ([]models.Conversation, error) {
	var q url.Values
	if assistantID != "" {
		q = url.Values{"assistant_id": {assistantID.String()}}
	}
	var cs []models.Conversation
	if err := c.do(ctx, http.MethodGet, "/api/v2/history/conversation/list", q, nil, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (c *HTTPClient) CreateConversation(ctx context.Context, req models.NewConversation) (models.Conversation, error) {
	conv := models.Conversation{Name: req.Name, AssistantID: req.AssistantID}
	if err := c.do(ctx, http.MethodPost, "/api/v2/history/conversation/create", nil, req, &conv); err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}

func (c *HTTPClient) GetConversation(ctx context.Context, id models.ID) (models.Conversation, error) {
	var conv models.Conversation
	if err := c.do(ctx, http.MethodGet, conversationPath(id), nil, nil, &conv); err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}

// SendMessage posts a user turn and returns the assistant's reply.
func (c *HTTPClient) SendMessage(ctx context.Context, conversationID models.ID, content string) (models.Message, error) {
	body := models.Message{Role: "user", Content: content}
	var reply models.Message
	if err := c.do(ctx, http.MethodPost, conversationPath(conversationID)+"/messages", nil, body, &reply); err != nil {
		return models.Message{}, err
	}
	return reply, nil
}
