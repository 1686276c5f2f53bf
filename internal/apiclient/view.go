package apiclient

import (
	"context"
	"slices"
	"sync"

	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

// View keeps a full local copy of the records and a filtered view of it.
//
// Searching never contacts the server. Add and Edit re-fetch the full list;
// Remove uses the list returned by the server.
type View struct {
	c *Client

	mu       sync.Mutex
	all      []users.User
	query    string
	filtered []users.User
}

// NewView returns an empty View. Call Refresh to load it.
func NewView(c *Client) *View {
	return &View{c: c}
}

// Refresh re-fetches every record and reapplies the current search.
func (v *View) Refresh(ctx context.Context) error {
	list, err := v.c.List(ctx)
	if err != nil {
		return err
	}
	v.set(list)
	return nil
}

// Search filters the local copy by name or city, ignoring case. An empty
// query shows everything.
func (v *View) Search(query string) []users.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
	v.filtered = users.Filter(v.all, query)
	return slices.Clone(v.filtered)
}

// Add creates a record and refreshes the view.
func (v *View) Add(ctx context.Context, in *Input) (int64, error) {
	id, err := v.c.Create(ctx, in)
	if err != nil {
		return 0, err
	}
	return id, v.Refresh(ctx)
}

// Edit updates a record and refreshes the view.
func (v *View) Edit(ctx context.Context, id int64, in *Input) error {
	if err := v.c.Update(ctx, id, in); err != nil {
		return err
	}
	return v.Refresh(ctx)
}

// Remove deletes a record.
func (v *View) Remove(ctx context.Context, id int64) error {
	list, err := v.c.Delete(ctx, id)
	if err != nil {
		return err
	}
	v.set(list)
	return nil
}

// All returns the full local copy.
func (v *View) All() []users.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.all)
}

// Filtered returns the records matching the current search.
func (v *View) Filtered() []users.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.filtered)
}

func (v *View) set(list []users.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.all = list
	v.filtered = users.Filter(list, v.query)
}
