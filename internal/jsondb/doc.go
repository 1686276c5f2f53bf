// Package jsondb provides a generic, concurrent-safe table persisted as one
// JSON document.
//
// # Overview
//
// [Table] keeps every row in memory and persists the whole collection through
// a [snapshot.Store] after each mutation. Reads are served from memory and
// return clones.
//
// # Concurrency: Pessimistic Locking
//
// [Table.Modify] holds the write lock for the entire read-modify-write-persist
// operation, so two mutations never observe the same state and saves never
// interleave. Readers take the read lock.
//
// # Document Format
//
// A single compact JSON array of row objects in insertion order, followed by a
// newline. An empty table is encoded as "[]".
package jsondb
