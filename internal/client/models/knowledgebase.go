package models

import "time"

// KnowledgeBase is a named collection of documents used to ground assistant answers.
type KnowledgeBase struct {
	ID        ID        `json:"id"`
	Title     string    `json:"name"`
	Docs      int       `json:"docs"`
	UpdatedAt time.Time `json:"updated_at"`
}
