package attachment

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"siat-api/internal/apperr"
	"strings"
	"time"
)

const stagingDirName = ".staging"

// LocalStore keeps files under Dir and exposes them as PublicPrefix/<name>.
type LocalStore struct {
	Dir          string
	PublicPrefix string
}

func NewLocalStore(dir, publicPrefix string) *LocalStore {
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	return &LocalStore{Dir: dir, PublicPrefix: "/" + strings.Trim(publicPrefix, "/")}
}

func (s *LocalStore) Backend() string { return "local" }

func (s *LocalStore) stagingDir() string {
	return filepath.Join(s.Dir, stagingDirName)
}

func (s *LocalStore) Stage(ctx context.Context, r io.Reader, originalName string) (Pending, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.IO("could not store attachment", err)
	}
	if err := os.MkdirAll(s.stagingDir(), 0o755); err != nil {
		return nil, apperr.IO("could not create upload directory", err)
	}

	name := GenerateName(originalName)
	staged := filepath.Join(s.stagingDir(), name)

	f, err := os.OpenFile(staged, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, apperr.IO("could not store attachment", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(staged)
		return nil, apperr.IO("could not store attachment", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(staged)
		return nil, apperr.IO("could not store attachment", err)
	}

	return &localPending{
		staged: staged,
		final:  filepath.Join(s.Dir, name),
		ref:    path.Join(s.PublicPrefix, name),
	}, nil
}

// Path resolves a reference produced by this store to its file on disk.
func (s *LocalStore) Path(ref string) (string, bool) {
	prefix := s.PublicPrefix + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(ref, prefix)
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return filepath.Join(s.Dir, name), true
}

func (s *LocalStore) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.stagingDir())
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.IO("could not list staged attachments", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.stagingDir(), e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

type localPending struct {
	staged string
	final  string
	ref    string
}

func (p *localPending) Ref() string { return p.ref }

func (p *localPending) Commit(_ context.Context) error {
	if err := os.Rename(p.staged, p.final); err != nil {
		return apperr.IO("could not commit attachment", err)
	}
	return nil
}

func (p *localPending) Discard(_ context.Context) error {
	for _, f := range []string{p.staged, p.final} {
		if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return apperr.IO("could not discard attachment", err)
		}
	}
	return nil
}
