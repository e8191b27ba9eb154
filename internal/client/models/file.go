package models

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// File is a document uploaded into a knowledge base.
type File struct {
	ID              ID        `json:"id"`
	Name            string    `json:"file_name"`
	Size            int64     `json:"size"`
	UploadedAt      time.Time `json:"uploaded_at"`
	Path            string    `json:"file_path,omitempty"`
	KnowledgeBaseID ID        `json:"knowledge_base_id,omitempty"`
}

// UnmarshalJSON accepts "_id" when "id" is absent.
func (f *File) UnmarshalJSON(b []byte) error {
	type plain File
	var raw struct {
		plain
		MongoID ID `json:"_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = File(raw.plain)
	if f.ID == "" {
		f.ID = raw.MongoID
	}
	return nil
}

// Extension returns the lower-case file extension without the dot.
func (f File) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
}

// HumanSize formats the size in kilobytes with two decimals.
func (f File) HumanSize() string {
	if f.Size <= 0 {
		return "0 KB"
	}
	return fmt.Sprintf("%.2f KB", float64(f.Size)/1024)
}

// FileRename is the body of PUT /api/v2/files/{id}.
type FileRename struct {
	Name string `json:"file_name"`
}
