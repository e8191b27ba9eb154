package models

import "time"

// Assistant is a chat-assistant configuration bound to a knowledge base.
type Assistant struct {
	ID              ID      `json:"id,omitempty"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	OpeningGreeting string  `json:"openingGreeting"`
	KnowledgeBase   string  `json:"knowledgeBase"`
	SystemPrompt    string  `json:"systemPrompt"`
	Model           string  `json:"model"`
	Creativity      string  `json:"creativity"`
	Temperature     float64 `json:"temperature"`
}

// Conversation is a chat thread with an assistant.
type Conversation struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	AssistantID ID        `json:"assistant_id"`
	Messages    []Message `json:"messages"`
}

// Message is one turn of a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewConversation is the body of POST /api/v2/history/conversation/create.
type NewConversation struct {
	AssistantID ID     `json:"assistant_id"`
	Name        string `json:"name"`
}
