package handlers

import (
	"context"

	"github.com/kishore-freak653/CRUD-Application/internal/jsondb"
	"github.com/kishore-freak653/CRUD-Application/internal/server/dto"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

// Schema returns the JSON Schema and columns of a user record.
func Schema(ctx context.Context, _ *dto.SchemaRequest) (*dto.SchemaResponse, error) {
	schema, err := jsondb.Schema[users.User]()
	if err != nil {
		return nil, dto.InternalWithError("Failed to build schema", err)
	}
	cols, err := jsondb.Columns[users.User]()
	if err != nil {
		return nil, dto.InternalWithError("Failed to list columns", err)
	}
	return &dto.SchemaResponse{Schema: schema, Columns: columnsToDTO(cols)}, nil
}
