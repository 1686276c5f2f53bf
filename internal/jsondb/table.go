package jsondb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/kishore-freak653/CRUD-Application/internal/snapshot"
)

// Cloner is implemented by types that can clone themselves.
type Cloner[T any] interface {
	Clone() T
}

// Table caches all rows of one document in memory.
type Table[T Cloner[T]] struct {
	store snapshot.Store
	mu    sync.RWMutex

	rows []T
}

// NewTable creates a Table and loads all rows from store.
//
// A missing document is reported as an error wrapping snapshot.ErrNotFound;
// use Init to create it.
func NewTable[T Cloner[T]](ctx context.Context, store snapshot.Store) (*Table[T], error) {
	t := &Table[T]{store: store}
	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Init saves an empty document if store has none. An existing document is
// left untouched.
func Init(ctx context.Context, store snapshot.Store) (bool, error) {
	_, err := store.Load(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, snapshot.ErrNotFound) {
		return false, err
	}
	if err := store.Save(ctx, []byte("[]\n")); err != nil {
		return false, fmt.Errorf("failed to create empty document: %w", err)
	}
	return true, nil
}

// Reload replaces the in-memory rows with the current document. It holds the
// write lock across Load so a concurrent Modify cannot be lost.
func (t *Table[T]) Reload(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load %s document: %w", t.store.Driver(), err)
	}
	rows, err := Decode[T](data)
	if err != nil {
		return err
	}
	t.rows = rows
	return nil
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// All returns an iterator over clones of all rows.
func (t *Table[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		t.mu.RLock()
		defer t.mu.RUnlock()
		for _, row := range t.rows {
			if !yield(row.Clone()) {
				return
			}
		}
	}
}

// Rows returns clones of all rows in order.
func (t *Table[T]) Rows() []T {
	return slices.Collect(t.All())
}

// Modify runs fn on a copy of the rows under the write lock and persists the
// slice fn returns.
//
// The rows passed to fn are clones; fn may mutate and reorder them freely. If
// fn returns an error nothing is saved. If saving fails the in-memory rows are
// unchanged and the error is returned.
func (t *Table[T]) Modify(ctx context.Context, fn func(rows []T) ([]T, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	work := make([]T, len(t.rows))
	for i, row := range t.rows {
		work[i] = row.Clone()
	}
	next, err := fn(work)
	if err != nil {
		return err
	}
	data, err := Encode(next)
	if err != nil {
		return err
	}
	if err := t.store.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to save %s document: %w", t.store.Driver(), err)
	}
	if next == nil {
		next = []T{}
	}
	t.rows = next
	return nil
}

// Encode serializes rows in the document format.
func Encode[T any](rows []T) ([]byte, error) {
	if rows == nil {
		rows = []T{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rows); err != nil {
		return nil, fmt.Errorf("failed to marshal rows: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a document. Surrounding whitespace is ignored; anything other
// than a JSON array of objects is an error.
func Decode[T any](data []byte) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, errors.New("malformed document: expected a JSON array")
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed document: %w", err)
	}
	rows := make([]T, len(raw))
	for i, r := range raw {
		if bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
			return nil, fmt.Errorf("malformed document: row %d is null", i)
		}
		if err := json.Unmarshal(r, &rows[i]); err != nil {
			return nil, fmt.Errorf("malformed document: row %d: %w", i, err)
		}
	}
	return rows, nil
}
