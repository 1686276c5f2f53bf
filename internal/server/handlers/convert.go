package handlers

import (
	"github.com/kishore-freak653/CRUD-Application/internal/jsondb"
	"github.com/kishore-freak653/CRUD-Application/internal/server/dto"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/git"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

// --- Storage to DTO conversions ---

func userToDTO(u *users.User) dto.User {
	out := dto.User{ID: u.ID, Name: u.Name, City: u.City}
	if u.Age.IsSet() {
		v := u.Age.Float64()
		out.Age = &v
	}
	return out
}

func usersToDTO(list []users.User) dto.UserList {
	out := make(dto.UserList, len(list))
	for i := range list {
		out[i] = userToDTO(&list[i])
	}
	return out
}

func usersPtrToDTO(list []*users.User) dto.UserList {
	out := make(dto.UserList, len(list))
	for i, u := range list {
		out[i] = userToDTO(u)
	}
	return out
}

func columnsToDTO(cols []jsondb.Column) []dto.Column {
	out := make([]dto.Column, len(cols))
	for i, c := range cols {
		out[i] = dto.Column{Name: c.Name, Type: string(c.Type), Required: c.Required, Description: c.Description}
	}
	return out
}

func commitToDTO(c *git.Commit) dto.Commit {
	return dto.Commit{
		Hash:        c.Hash,
		Message:     c.Message,
		Author:      c.Author,
		AuthorEmail: c.AuthorEmail,
		Timestamp:   c.AuthorDate,
	}
}
