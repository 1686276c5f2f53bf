package users

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/kishore-freak653/CRUD-Application/internal/jsondb"
	"github.com/kishore-freak653/CRUD-Application/internal/snapshot"
)

// Options configures a Service.
type Options struct {
	// LenientUpdate logs missing fields on update instead of rejecting the
	// request.
	LenientUpdate bool
}

// Service handles user records.
type Service struct {
	table *jsondb.Table[*User]
	opts  Options
}

// NewService loads the collection from store.
func NewService(ctx context.Context, store snapshot.Store, opts Options) (*Service, error) {
	table, err := jsondb.NewTable[*User](ctx, store)
	if err != nil {
		return nil, err
	}
	return &Service{table: table, opts: opts}, nil
}

// List returns all users in insertion order.
func (s *Service) List() []User {
	rows := s.table.Rows()
	out := make([]User, len(rows))
	for i, u := range rows {
		out[i] = *u
	}
	return out
}

// Len returns the number of users.
func (s *Service) Len() int {
	return s.table.Len()
}

// Get returns the user with the given id.
func (s *Service) Get(id int64) (*User, error) {
	for u := range s.table.All() {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

// FilterByNameOrCity returns the users whose name or city contains substr,
// ignoring case.
func (s *Service) FilterByNameOrCity(substr string) []User {
	return Filter(s.List(), substr)
}

// Create validates f, assigns the next id and persists the new record.
func (s *Service) Create(ctx context.Context, f Fields) (int64, error) {
	if missing := f.missing(); len(missing) != 0 {
		return 0, &ValidationError{Fields: missing}
	}
	var id int64
	err := s.modify(ctx, func(rows []*User) ([]*User, error) {
		var maxID int64
		for _, u := range rows {
			if u.sameContent(&f) {
				return nil, &DuplicateError{ID: u.ID}
			}
			maxID = max(maxID, u.ID)
		}
		id = maxID + 1
		return append(rows, &User{ID: id, Name: f.Name, Age: f.Age, City: f.City}), nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces the attributes of the user with the given id.
func (s *Service) Update(ctx context.Context, id int64, f Fields) error {
	if missing := f.missing(); len(missing) != 0 {
		if !s.opts.LenientUpdate {
			return &ValidationError{Fields: missing}
		}
		slog.WarnContext(ctx, "users: updating with missing fields", "id", id, "missing", missing)
	}
	return s.modify(ctx, func(rows []*User) ([]*User, error) {
		i := slices.IndexFunc(rows, func(u *User) bool { return u.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}
		rows[i] = &User{ID: id, Name: f.Name, Age: f.Age, City: f.City}
		return rows, nil
	})
}

// Delete removes the user with the given id and returns the remaining users.
// An unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id int64) ([]User, error) {
	var remaining []User
	err := s.modify(ctx, func(rows []*User) ([]*User, error) {
		rows = slices.DeleteFunc(rows, func(u *User) bool { return u.ID == id })
		remaining = make([]User, len(rows))
		for i, u := range rows {
			remaining[i] = *u
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return remaining, nil
}

// Reload re-reads the collection from the store.
func (s *Service) Reload(ctx context.Context) error {
	return s.table.Reload(ctx)
}

// modify runs fn through the table and wraps storage failures in
// PersistenceError. Errors returned by fn pass through unchanged.
func (s *Service) modify(ctx context.Context, fn func([]*User) ([]*User, error)) error {
	var fnErr error
	err := s.table.Modify(ctx, func(rows []*User) ([]*User, error) {
		out, err := fn(rows)
		fnErr = err
		return out, err
	})
	if err == nil {
		return nil
	}
	if fnErr != nil && errors.Is(err, fnErr) {
		return err
	}
	slog.ErrorContext(ctx, "users: failed to persist", "err", err)
	return &PersistenceError{Err: err}
}
