package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"siat-api/internal/apperr"
	"siat-api/internal/util"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

const gcsStagingPrefix = "staging"

// GCSStore keeps files in a bucket. Committed objects live under Prefix.
type GCSStore struct {
	Client *storage.Client
	Bucket string
	Prefix string
}

func NewGCSStore(ctx context.Context, bucket, prefix string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSStore{Client: client, Bucket: bucket, Prefix: util.SanitizePart(prefix)}, nil
}

func (s *GCSStore) Backend() string { return "gcs" }

func (s *GCSStore) objectPath(name string) string {
	if s.Prefix == "" {
		return name
	}
	return s.Prefix + "/" + name
}

func (s *GCSStore) Stage(ctx context.Context, r io.Reader, originalName string) (Pending, error) {
	name := GenerateName(originalName)
	staged := gcsStagingPrefix + "/" + name
	bkt := s.Client.Bucket(s.Bucket)

	w := bkt.Object(staged).NewWriter(ctx)
	if ct := mime.TypeByExtension(util.ExtFromFilename(originalName)); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return nil, apperr.IO("could not upload attachment", err)
	}
	if err := w.Close(); err != nil {
		return nil, apperr.IO("could not upload attachment", err)
	}

	final := s.objectPath(name)
	return &gcsPending{
		bkt:    bkt,
		staged: staged,
		final:  final,
		ref:    PublicGCSURL(s.Bucket, final),
	}, nil
}

func (s *GCSStore) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	bkt := s.Client.Bucket(s.Bucket)
	cutoff := time.Now().Add(-olderThan)
	removed := 0

	it := bkt.Objects(ctx, &storage.Query{Prefix: gcsStagingPrefix + "/"})
	for {
		obj, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return removed, apperr.IO("could not list staged attachments", err)
		}
		if obj.Created.After(cutoff) {
			continue
		}
		if err := bkt.Object(obj.Name).Delete(ctx); err == nil {
			removed++
		}
	}
	return removed, nil
}

type gcsPending struct {
	bkt    *storage.BucketHandle
	staged string
	final  string
	ref    string
}

func (p *gcsPending) Ref() string { return p.ref }

func (p *gcsPending) Commit(ctx context.Context) error {
	if _, err := p.bkt.Object(p.final).CopierFrom(p.bkt.Object(p.staged)).Run(ctx); err != nil {
		return apperr.IO("could not commit attachment", err)
	}
	if err := p.bkt.Object(p.staged).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return apperr.IO("could not commit attachment", err)
	}
	return nil
}

func (p *gcsPending) Discard(ctx context.Context) error {
	for _, name := range []string{p.staged, p.final} {
		if err := p.bkt.Object(name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return apperr.IO("could not discard attachment", err)
		}
	}
	return nil
}

func PublicGCSURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
