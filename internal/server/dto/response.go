// Defines API response types.

package dto

import (
	"time"

	"github.com/invopop/jsonschema"
)

// User is a stored record as returned by the API.
type User struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Age  *float64 `json:"age"`
	City string   `json:"city"`
}

// UserList is the full collection in insertion order.
type UserList []User

// CreateUserResponse is the response after adding a user.
type CreateUserResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Records int    `json:"records"`
}

// Column describes one field of the record.
type Column struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// SchemaResponse describes the record format.
type SchemaResponse struct {
	Schema  *jsonschema.Schema `json:"schema"`
	Columns []Column           `json:"columns"`
}

// Commit is one version of the data document.
type Commit struct {
	Hash        string    `json:"hash"`
	Message     string    `json:"message"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"author_email"`
	Timestamp   time.Time `json:"timestamp"`
}

// HistoryResponse lists versions, newest first.
type HistoryResponse struct {
	History []Commit `json:"history"`
}
