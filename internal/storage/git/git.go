// Package git records every version of the data document in a local git
// repository using go-git (pure Go, no git binary needed).
package git

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotFound is returned when a commit or the file within it does not exist.
var ErrNotFound = errors.New("revision not found")

// ErrInvalidHash is returned for a revision that is not a full hex SHA-1.
var ErrInvalidHash = errors.New("invalid commit hash")

// maxHistory caps the number of commits returned by Log.
const maxHistory = 1000

// Author identifies who made a change.
type Author struct {
	Name  string
	Email string
}

// Commit represents a commit in the document history.
type Commit struct {
	Hash        string    `json:"hash"`
	Message     string    `json:"message"` // Subject line.
	Body        string    `json:"body,omitempty"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"author_email"`
	AuthorDate  time.Time `json:"author_date"`
}

// History tracks one file inside a repository rooted at its directory.
type History struct {
	dir    string
	file   string
	author Author
	repo   *gogit.Repository
	mu     sync.Mutex
}

// Open opens or initializes the repository at dir. file is the tracked path
// relative to dir.
func Open(dir, file string, author Author) (*History, error) {
	if author.Name == "" {
		author.Name = "userdb"
	}
	if author.Email == "" {
		author.Email = "userdb@localhost"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create repo directory: %w", err)
	}
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		// Not a repo yet; initialize.
		repo, err = gogit.PlainInit(dir, false)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize git repo: %w", err)
		}
		cfg, err := repo.Config()
		if err != nil {
			return nil, fmt.Errorf("failed to read git config: %w", err)
		}
		cfg.User.Name = author.Name
		cfg.User.Email = author.Email
		if err := repo.SetConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to write git config: %w", err)
		}
	}
	return &History{dir: dir, file: file, author: author, repo: repo}, nil
}

// File returns the tracked path relative to the repository root.
func (h *History) File() string {
	return h.file
}

// Commit stages the tracked file and commits it with msg. Nothing is
// committed when the file is unchanged since the last commit.
func (h *History) Commit(_ context.Context, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, err := h.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if _, err := w.Add(h.file); err != nil {
		return fmt.Errorf("failed to stage %s: %w", h.file, err)
	}
	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("failed to get worktree status: %w", err)
	}
	if st, ok := status[h.file]; !ok || st.Staging == gogit.Unmodified {
		return nil
	}
	now := time.Now()
	sig := &object.Signature{Name: h.author.Name, Email: h.author.Email, When: now}
	if _, err := w.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Log returns up to n commits touching the tracked file, newest first.
// n is capped at 1000; n <= 0 means the cap.
func (h *History) Log(_ context.Context, n int) ([]*Commit, error) {
	if n <= 0 || n > maxHistory {
		n = maxHistory
	}
	file := h.file
	iter, err := h.repo.Log(&gogit.LogOptions{FileName: &file})
	if err != nil {
		// No commits yet.
		return []*Commit{}, nil
	}
	defer iter.Close()

	commits := []*Commit{}
	for range n {
		c, err := iter.Next()
		if err != nil {
			break
		}
		subject, body, _ := strings.Cut(c.Message, "\n")
		commits = append(commits, &Commit{
			Hash:        c.Hash.String(),
			Message:     subject,
			Body:        strings.TrimSpace(body),
			Author:      c.Author.Name,
			AuthorEmail: c.Author.Email,
			AuthorDate:  c.Author.When,
		})
	}
	return commits, nil
}

// FileAt returns the tracked file's content at the commit hash. "HEAD" is
// accepted.
func (h *History) FileAt(_ context.Context, hash string) ([]byte, error) {
	var id plumbing.Hash
	if hash == "HEAD" {
		ref, err := h.repo.Head()
		if err != nil {
			return nil, fmt.Errorf("HEAD: %w", ErrNotFound)
		}
		id = ref.Hash()
	} else {
		if !isHash(hash) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHash, hash)
		}
		id = plumbing.NewHash(hash)
	}
	c, err := h.repo.CommitObject(id)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("commit %s: %w", hash, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}
	f, err := c.File(h.file)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%s at %s: %w", h.file, hash, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get file at commit: %w", err)
	}
	reader, err := f.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = reader.Close() }()
	return io.ReadAll(reader)
}

func isHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
