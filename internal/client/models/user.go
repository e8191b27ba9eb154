package models

import (
	"encoding/json"
	"time"
)

// User is a platform account as shown in user management.
type User struct {
	ID        ID        `json:"id"`
	FullName  string    `json:"full_name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnmarshalJSON accepts "_id" when "id" is absent.
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var raw struct {
		plain
		MongoID ID `json:"_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = User(raw.plain)
	if u.ID == "" {
		u.ID = raw.MongoID
	}
	return nil
}

// UserUpdate is the body of PUT /api/v2/users/{id}.
type UserUpdate struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Page is one page of a server-side search.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
}
