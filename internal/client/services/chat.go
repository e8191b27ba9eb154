package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/dmitrijs2005/kbconsole/internal/client/forms"
	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/dmitrijs2005/kbconsole/internal/logging"
)

const (
	DefaultGreeting = "Hi! I'm your assistant, what can I do for you?"

	DefaultSystemPrompt = `You are an intelligent assistant. Please summarize the content of the knowledge base to answer the question. Please list the data in the knowledge base and answer in detail. When all knowledge base content is irrelevant to the question, your answer must include the sentence "The answer you are looking for is not found in the knowledge base!" Answers need to consider chat history.`

	DefaultTemperature = 0.2

	NewChatName = "New chat"
)

// Option is a selectable value with its display label.
type Option struct {
	Value string
	Label string
}

// ModelOptions lists the models an assistant can run on; the first is the default.
var ModelOptions = []Option{
	{Value: "deepseek-v3@giteeai", Label: "DeepSeek-V3@GiteeAI"},
	{Value: "gpt-4", Label: "GPT-4"},
	{Value: "gpt-3.5-turbo", Label: "GPT-3.5 Turbo"},
	{Value: "claude-3", Label: "Claude-3"},
	{Value: "gemini-pro", Label: "Gemini Pro"},
}

// CreativityOptions lists the creativity presets; the first is the default.
var CreativityOptions = []Option{
	{Value: "precise", Label: "Precise"},
	{Value: "balanced", Label: "Balanced"},
	{Value: "creative", Label: "Creative"},
}

// DefaultAssistant returns a new assistant form filled with defaults.
func DefaultAssistant() models.Assistant {
	return models.Assistant{
		OpeningGreeting: DefaultGreeting,
		SystemPrompt:    DefaultSystemPrompt,
		Model:           ModelOptions[0].Value,
		Creativity:      CreativityOptions[0].Value,
		Temperature:     DefaultTemperature,
	}
}

type ChatService interface {
	ListAssistants(ctx context.Context) ([]models.Assistant, error)
	CreateAssistant(ctx context.Context, a models.Assistant) (models.Assistant, error)
	DeleteAssistant(ctx context.Context, id models.ID) error
	NewChat(ctx context.Context, assistantID models.ID) (models.Conversation, error)
	Chats(ctx context.Context, assistantID models.ID) ([]models.Conversation, error)
	History(ctx context.Context, conversationID models.ID) ([]models.Message, error)
	Send(ctx context.Context, conversationID models.ID, text string) (models.Message, error)
}

type chatService struct {
	client client.ChatAPI
	log    logging.Logger
}

func NewChatService(c client.ChatAPI, log logging.Logger) ChatService {
	return &chatService{client: c, log: log.With("service", "chat")}
}

func (s *chatService) ListAssistants(ctx context.Context) ([]models.Assistant, error) {
	return s.client.ListAssistants(ctx)
}

// CreateAssistant trims the text fields, fills unset ones from
// DefaultAssistant, validates and saves.
func (s *chatService) CreateAssistant(ctx context.Context, a models.Assistant) (models.Assistant, error) {
	def := DefaultAssistant()
	a.Name = strings.TrimSpace(a.Name)
	a.Description = strings.TrimSpace(a.Description)
	a.SystemPrompt = strings.TrimSpace(a.SystemPrompt)
	if a.OpeningGreeting == "" {
		a.OpeningGreeting = def.OpeningGreeting
	}
	if a.SystemPrompt == "" {
		a.SystemPrompt = def.SystemPrompt
	}
	if a.Model == "" {
		a.Model = def.Model
	}
	if a.Creativity == "" {
		a.Creativity = def.Creativity
	}

	if err := forms.Validate(forms.Assistant{Name: a.Name, Creativity: a.Creativity, Temperature: a.Temperature}); err != nil {
		return models.Assistant{}, err
	}

	created, err := s.client.CreateAssistant(ctx, a)
	if err != nil {
		return models.Assistant{}, err
	}
	s.log.Info(ctx, "assistant created", "id", created.ID, "model", created.Model)
	return created, nil
}

func (s *chatService) DeleteAssistant(ctx context.Context, id models.ID) error {
	return s.client.DeleteAssistant(ctx, id)
}

// NewChat opens an empty conversation named "New chat".
func (s *chatService) NewChat(ctx context.Context, assistantID models.ID) (models.Conversation, error) {
	return s.client.CreateConversation(ctx, models.NewConversation{AssistantID: assistantID, Name: NewChatName})
}

func (s *chatService) Chats(ctx context.Context, assistantID models.ID) ([]models.Conversation, error) {
	return s.client.ListConversations(ctx, assistantID)
}

func (s *chatService) History(ctx context.Context, conversationID models.ID) ([]models.Message, error) {
	conv, err := s.client.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return conv.Messages, nil
}

// Send posts the trimmed text. Blank messages are rejected before any
// request is made.
func (s *chatService) Send(ctx context.Context, conversationID models.ID, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if err := forms.Validate(forms.Message{Content: text}); err != nil {
		return models.Message{}, err
	}
	if conversationID == "" {
		return models.Message{}, fmt.Errorf("no chat selected")
	}
	return s.client.SendMessage(ctx, conversationID, text)
}
