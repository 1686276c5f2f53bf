package handlers

import (
	"context"
	"errors"

	"github.com/kishore-freak653/CRUD-Application/internal/jsondb"
	"github.com/kishore-freak653/CRUD-Application/internal/server/dto"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/git"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

// defaultHistoryLimit is used when the request does not set a limit.
const defaultHistoryLimit = 100

// HistoryHandler serves the versions of the data document.
//
// A nil history reports every request as not implemented.
type HistoryHandler struct {
	history *git.History
}

// NewHistoryHandler creates a new history handler. h may be nil.
func NewHistoryHandler(h *git.History) *HistoryHandler {
	return &HistoryHandler{history: h}
}

// ListHistory returns the commits that touched the data document, newest
// first.
func (h *HistoryHandler) ListHistory(ctx context.Context, req *dto.HistoryRequest) (*dto.HistoryResponse, error) {
	if h.history == nil {
		return nil, dto.NotImplemented("History")
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	commits, err := h.history.Log(ctx, limit)
	if err != nil {
		return nil, dto.InternalWithError("Failed to read history", err)
	}
	resp := &dto.HistoryResponse{History: make([]dto.Commit, len(commits))}
	for i, c := range commits {
		resp.History[i] = commitToDTO(c)
	}
	return resp, nil
}

// GetVersion returns the collection as it was at a commit.
func (h *HistoryHandler) GetVersion(ctx context.Context, req *dto.HistoryVersionRequest) (*dto.UserList, error) {
	if h.history == nil {
		return nil, dto.NotImplemented("History")
	}
	data, err := h.history.FileAt(ctx, req.Hash)
	switch {
	case errors.Is(err, git.ErrInvalidHash):
		return nil, dto.InvalidFormat("hash")
	case errors.Is(err, git.ErrNotFound):
		return nil, dto.NotFound("Version")
	case err != nil:
		return nil, dto.InternalWithError("Failed to read version", err)
	}
	rows, err := jsondb.Decode[*users.User](data)
	if err != nil {
		return nil, dto.InternalWithError("Failed to decode version", err)
	}
	list := usersPtrToDTO(rows)
	return &list, nil
}
