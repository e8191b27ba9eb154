package client

import (
	"context"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
)

// AuthAPI covers the /auth endpoints.
type AuthAPI interface {
	Login(ctx context.Context, req models.PasswordLogin) (models.TokenPair, error)
	LoginWithCode(ctx context.Context, req models.CodeLogin) (models.TokenPair, error)
	Signup(ctx context.Context, req models.Signup) (string, error)
	SendOTP(ctx context.Context, email string) (string, error)
	SendVerificationCode(ctx context.Context, email string) (string, error)
	ValidateOTP(ctx context.Context, email, code string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, newPassword string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	Logout(ctx context.Context) error
}

// KnowledgeBaseAPI covers /knowledge_bases.
type KnowledgeBaseAPI interface {
	ListKnowledgeBases(ctx context.Context) ([]models.KnowledgeBase, error)
	CreateKnowledgeBase(ctx context.Context, name string) (models.KnowledgeBase, error)
	RenameKnowledgeBase(ctx context.Context, id models.ID, name string) error
	DeleteKnowledgeBase(ctx context.Context, id models.ID) error
}

// FileAPI covers /api/v2/files and the indexing upload endpoint.
type FileAPI interface {
	ListFilesByKnowledgeBase(ctx context.Context, kbID models.ID) ([]models.File, error)
	GetFile(ctx context.Context, id models.ID) (models.File, error)
	RenameFile(ctx context.Context, id models.ID, name string) error
	DeleteFile(ctx context.Context, id models.ID) error
	UploadFiles(ctx context.Context, kbID models.ID, uploads []Upload) error
	Download(ctx context.Context, fileURL, dst string) (int64, error)
}

// ChatAPI covers /chat-model and /api/v2/history/conversation.
type ChatAPI interface {
	ListAssistants(ctx context.Context) ([]models.Assistant, error)
	CreateAssistant(ctx context.Context, a models.Assistant) (models.Assistant, error)
	DeleteAssistant(ctx context.Context, id models.ID) error
	ListConversations(ctx context.Context, assistantID models.ID) ([]models.Conversation, error)
	CreateConversation(ctx context.Context, req models.NewConversation) (models.Conversation, error)
	GetConversation(ctx context.Context, id models.ID) (models.Conversation, error)
	SendMessage(ctx context.Context, conversationID models.ID, content string) (models.Message, error)
}

// UserAPI covers /api/v2/users.
type UserAPI interface {
	SearchUsers(ctx context.Context, query string, page, size int) (models.Page[models.User], error)
	GetUser(ctx context.Context, id models.ID) (models.User, error)
	UpdateUser(ctx context.Context, id models.ID, u models.UserUpdate) error
	DeleteUser(ctx context.Context, id models.ID) error
}

// Client is the whole platform API.
type Client interface {
	AuthAPI
	KnowledgeBaseAPI
	FileAPI
	ChatAPI
	UserAPI
}

var _ Client = (*HTTPClient)(nil)
