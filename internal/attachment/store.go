// Package attachment persists uploaded photos under generated names.
//
// Writes are two-phase: Stage puts the bytes in a staging area and Commit
// moves them to their public location. Callers commit as the last step of
// their database unit of work and Discard when it fails, so a rolled back
// registration leaves no file behind.
package attachment

import (
	"context"
	"io"
	"siat-api/internal/util"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	Stage(ctx context.Context, r io.Reader, originalName string) (Pending, error)
	// Sweep deletes staged files older than the cutoff. Returns how many were removed.
	Sweep(ctx context.Context, olderThan time.Duration) (int, error)
	Backend() string
}

// Pending is a staged file. Ref is already the final reference.
type Pending interface {
	Ref() string
	Commit(ctx context.Context) error
	// Discard removes the file whether or not it was committed.
	Discard(ctx context.Context) error
}

// Save stages and commits in one step.
func Save(ctx context.Context, s Store, r io.Reader, originalName string) (string, error) {
	p, err := s.Stage(ctx, r, originalName)
	if err != nil {
		return "", err
	}
	if err := p.Commit(ctx); err != nil {
		_ = p.Discard(ctx)
		return "", err
	}
	return p.Ref(), nil
}

// GenerateName returns a random token plus the original extension.
func GenerateName(originalName string) string {
	return uuid.NewString() + util.ExtFromFilename(originalName)
}

// DiscardAll is best effort; the first error is returned.
func DiscardAll(ctx context.Context, pending ...Pending) error {
	var first error
	for _, p := range pending {
		if p == nil {
			continue
		}
		if err := p.Discard(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// CommitAll commits in order and stops at the first failure.
func CommitAll(ctx context.Context, pending ...Pending) error {
	for _, p := range pending {
		if p == nil {
			continue
		}
		if err := p.Commit(ctx); err != nil {
			return err
		}
	}
	return nil
}
