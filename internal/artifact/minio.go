// Package artifact publishes exported study files to S3-compatible object
// storage so they can be linked instead of attached.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"exegesis/internal/logging"
	"exegesis/internal/passage"
)

// Object is one stored file.
type Object struct {
	Key         string
	Size        int64
	ContentType string
	URL         string
}

// Publisher stores and retrieves exported files.
type Publisher interface {
	Publish(ctx context.Context, key string, data []byte, contentType string) (Object, error)
	Fetch(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// Options configures a MinioStore.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// LinkExpiry is how long presigned links stay valid. Zero disables
	// presigning and Object.URL is left empty.
	LinkExpiry time.Duration
}

// MinioStore wraps a MinIO client for file storage.
type MinioStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMinioStore connects and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, o Options) (*MinioStore, error) {
	client, err := minio.New(o.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, o.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, o.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
		logging.Get(logging.CategoryArtifact).Info("created bucket %s", o.Bucket)
	}

	return &MinioStore{client: client, bucket: o.Bucket, expiry: o.LinkExpiry}, nil
}

// Publish stores data under key and, when link expiry is set, returns a
// presigned download URL.
func (s *MinioStore) Publish(ctx context.Context, key string, data []byte, contentType string) (Object, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Object{}, fmt.Errorf("minio put %s: %w", key, err)
	}
	obj := Object{Key: key, Size: info.Size, ContentType: contentType}

	if s.expiry > 0 {
		params := url.Values{}
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
		u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, params)
		if err != nil {
			return obj, fmt.Errorf("minio presign %s: %w", key, err)
		}
		obj.URL = u.String()
	}
	logging.Get(logging.CategoryArtifact).Info("published %s (%d bytes)", key, obj.Size)
	return obj, nil
}

// Fetch retrieves the object bytes and content type.
func (s *MinioStore) Fetch(ctx context.Context, key string) ([]byte, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", err
	}
	return data, info.ContentType, nil
}

// Remove deletes an object.
func (s *MinioStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// Key builds "studies/<slug>/<file>", where slug is the path-safe form of a
// valid reference ("João 3:16" -> "joão-3-16"), so every study of a passage
// shares one prefix. References that do not parse keep their text with
// slashes flattened.
func Key(reference, fileName string) string {
	ref := strings.TrimSpace(reference)
	if p, err := passage.Validate(ref); err == nil {
		ref = p.Slug()
	} else {
		ref = strings.Map(func(r rune) rune {
			if r == '/' || r == '\\' {
				return '-'
			}
			return r
		}, ref)
	}
	return path.Join("studies", ref, path.Base(fileName))
}

var _ Publisher = (*MinioStore)(nil)
