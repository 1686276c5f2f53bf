// Defines API request types with path, query and JSON bindings.

package dto

import (
	"encoding/json"
	"strconv"
)

// ListUsersRequest is a request to list every user.
type ListUsersRequest struct{}

// Validate validates the list users request fields.
func (r *ListUsersRequest) Validate() error {
	return nil
}

// GetUserRequest is a request to fetch one user.
type GetUserRequest struct {
	ID int64 `path:"id"`
}

// Validate validates the get user request fields.
func (r *GetUserRequest) Validate() error {
	return validID(r.ID)
}

// CreateUserRequest is a request to add a user.
//
// Age is kept raw so that numbers, numeric strings, "" and null can all be
// told apart from a malformed value.
type CreateUserRequest struct {
	Name string          `json:"name"`
	Age  json.RawMessage `json:"age,omitempty"`
	City string          `json:"city"`
}

// Validate validates the create user request fields. Missing fields are
// reported by the repository so that create and update share one message.
func (r *CreateUserRequest) Validate() error {
	return nil
}

// UpdateUserRequest is a request to replace a user's attributes.
type UpdateUserRequest struct {
	ID     int64           `path:"id"`
	BodyID *int64          `json:"id,omitempty"`
	Name   string          `json:"name"`
	Age    json.RawMessage `json:"age,omitempty"`
	City   string          `json:"city"`
}

// Validate validates the update user request fields.
func (r *UpdateUserRequest) Validate() error {
	if err := validID(r.ID); err != nil {
		return err
	}
	if r.BodyID != nil && *r.BodyID != r.ID {
		return BadRequest("Body id does not match path id").
			WithDetails(map[string]any{"path_id": r.ID, "body_id": *r.BodyID})
	}
	return nil
}

// DeleteUserRequest is a request to remove a user.
type DeleteUserRequest struct {
	ID int64 `path:"id"`
}

// Validate validates the delete user request fields.
func (r *DeleteUserRequest) Validate() error {
	return validID(r.ID)
}

// HealthRequest is a request to check server health.
type HealthRequest struct{}

// Validate validates the health request fields.
func (r *HealthRequest) Validate() error {
	return nil
}

// SchemaRequest is a request for the record schema.
type SchemaRequest struct{}

// Validate validates the schema request fields.
func (r *SchemaRequest) Validate() error {
	return nil
}

// HistoryRequest is a request to list the versions of the data document.
type HistoryRequest struct {
	Limit int `query:"limit"`
}

// Validate validates the history request fields.
func (r *HistoryRequest) Validate() error {
	if r.Limit < 0 {
		return BadRequest("limit must be non-negative")
	}
	return nil
}

// HistoryVersionRequest is a request for the collection at one commit.
type HistoryVersionRequest struct {
	Hash string `path:"hash"`
}

// Validate validates the history version request fields.
func (r *HistoryVersionRequest) Validate() error {
	if r.Hash == "" {
		return BadRequest("hash is required")
	}
	return nil
}

// validID rejects ids that are not positive integers. Path ids that fail to
// parse arrive here as 0.
func validID(id int64) error {
	if id <= 0 {
		return InvalidFormat("id").WithDetail("id", strconv.FormatInt(id, 10))
	}
	return nil
}
