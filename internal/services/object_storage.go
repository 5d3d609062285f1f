package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// ErrImageRejected is returned when SafeSearch flags an uploaded image.
var ErrImageRejected = errors.New("image rejected by content moderation")

// ObjectStorage writes uploads to the Firebase Storage bucket and hands back
// tokenized download URLs.
type ObjectStorage struct {
	gcs       *storage.Client
	bucket    string
	moderator ImageModerator
}

// NewObjectStorage opens a storage client. moderator may be nil to skip
// moderation.
func NewObjectStorage(ctx context.Context, bucket string, moderator ImageModerator, opts ...option.ClientOption) (*ObjectStorage, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("object storage: storage client: %w", err)
	}
	return &ObjectStorage{gcs: client, bucket: bucket, moderator: moderator}, nil
}

// ObjectName is the stored path for a file uploaded for an entity field.
func ObjectName(field, filename string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r == ' ' || r == '?' || r == '#' {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf("projects/%s_%d_%s", field, at.UnixMilli(), name)
}

// Upload stores the object, moderates it when enabled and returns its
// download URL.
func (o *ObjectStorage) Upload(ctx context.Context, field, filename, contentType string, r io.Reader) (string, error) {
	name := ObjectName(field, filename, time.Now())
	token := uuid.NewString()

	w := o.gcs.Bucket(o.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("object storage: write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("object storage: close %s: %w", name, err)
	}

	if o.moderator != nil {
		gcsURI := fmt.Sprintf("gs://%s/%s", o.bucket, name)
		ss, err := o.moderator.Detect(ctx, gcsURI)
		if err != nil {
			o.deleteObject(ctx, name)
			return "", fmt.Errorf("object storage: safesearch: %w", err)
		}
		log.Printf("[ObjectStorage] SafeSearch %s adult=%s violence=%s racy=%s", name, ss.Adult, ss.Violence, ss.Racy)
		if ss.IsUnsafe() {
			o.deleteObject(ctx, name)
			return "", ErrImageRejected
		}
	}

	return firebaseDownloadURL(o.bucket, name, token), nil
}

func (o *ObjectStorage) deleteObject(ctx context.Context, name string) {
	if err := o.gcs.Bucket(o.bucket).Object(name).Delete(ctx); err != nil {
		log.Printf("[ObjectStorage] delete failed path=%s err=%v", name, err)
	}
}

func (o *ObjectStorage) Close() error {
	return o.gcs.Close()
}

func firebaseDownloadURL(bucket, objectName, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket,
		url.PathEscape(objectName),
		url.QueryEscape(token),
	)
}
