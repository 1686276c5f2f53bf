package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kishore-freak653/CRUD-Application/internal/server/dto"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

// UserHandler handles user record requests.
type UserHandler struct {
	users *users.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *users.Service) *UserHandler {
	return &UserHandler{users: svc}
}

// ListUsers returns every user in insertion order. The server never filters;
// clients search their local copy.
func (h *UserHandler) ListUsers(ctx context.Context, _ *dto.ListUsersRequest) (*dto.UserList, error) {
	list := usersToDTO(h.users.List())
	return &list, nil
}

// GetUser returns one user.
func (h *UserHandler) GetUser(ctx context.Context, req *dto.GetUserRequest) (*dto.User, error) {
	u, err := h.users.Get(req.ID)
	if err != nil {
		return nil, userError(err)
	}
	out := userToDTO(u)
	return &out, nil
}

// CreateUser adds a user and returns its id.
func (h *UserHandler) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	f, err := toFields(req.Name, req.Age, req.City)
	if err != nil {
		return nil, err
	}
	id, err := h.users.Create(ctx, f)
	if err != nil {
		return nil, userError(err)
	}
	return &dto.CreateUserResponse{Message: "User detail added successfully", ID: id}, nil
}

// UpdateUser replaces the attributes of an existing user.
func (h *UserHandler) UpdateUser(ctx context.Context, req *dto.UpdateUserRequest) (*dto.MessageResponse, error) {
	f, err := toFields(req.Name, req.Age, req.City)
	if err != nil {
		return nil, err
	}
	if err := h.users.Update(ctx, req.ID, f); err != nil {
		return nil, userError(err)
	}
	return &dto.MessageResponse{Message: "User detail updated successfully"}, nil
}

// DeleteUser removes a user and returns the remaining collection. Deleting an
// unknown id succeeds.
func (h *UserHandler) DeleteUser(ctx context.Context, req *dto.DeleteUserRequest) (*dto.UserList, error) {
	remaining, err := h.users.Delete(ctx, req.ID)
	if err != nil {
		return nil, userError(err)
	}
	list := usersToDTO(remaining)
	return &list, nil
}

func toFields(name string, age json.RawMessage, city string) (users.Fields, error) {
	f := users.Fields{Name: name, City: city}
	if len(age) != 0 {
		if err := f.Age.UnmarshalJSON(age); err != nil {
			return f, dto.InvalidFormat("age").Wrap(err)
		}
	}
	return f, nil
}

// userError maps repository errors to API errors.
func userError(err error) error {
	var ve *users.ValidationError
	var de *users.DuplicateError
	var pe *users.PersistenceError
	switch {
	case errors.As(err, &ve):
		return dto.MissingFields(ve.Fields)
	case errors.As(err, &de):
		return dto.Conflict(de.ID)
	case errors.Is(err, users.ErrNotFound):
		return dto.NotFound("User")
	case errors.As(err, &pe):
		return dto.StorageError(pe.Err)
	default:
		return dto.InternalWithError("Failed to access users", err)
	}
}
