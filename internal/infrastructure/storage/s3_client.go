package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"sociogram/pkg/errors"
	"sociogram/pkg/logger"
)

// S3Client stores user assets in an S3-compatible bucket. Object keys are
// namespaced per user under a random assets folder so a whole post or
// profile can be removed by prefix.
type S3Client struct {
	client *minio.Client
	bucket string
}

func NewS3Client(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*S3Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect s3: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
	}

	return &S3Client{client: client, bucket: bucket}, nil
}

func (s *S3Client) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Internal("Failed to upload file", err)
	}
	return key, nil
}

// PresignedUpload returns a URL the client can PUT the object to directly,
// together with the key it will live under.
func (s *S3Client) PresignedUpload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, expiry)
	if err != nil {
		return "", errors.Internal("Failed to presign upload", err)
	}
	return u.String(), nil
}

// Get opens an object for streaming. Callers must close the returned
// reader.
func (s *S3Client) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", errors.Internal("Failed to fetch file", err)
	}
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, "", errors.NotFound("File", err)
		}
		return nil, "", errors.Internal("Failed to fetch file", err)
	}
	return obj, stat.ContentType, nil
}

func (s *S3Client) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Internal("Failed to delete file", err)
	}
	return nil
}

// DeletePrefix removes every object under a folder. Individual failures
// are logged and the first one is returned after the sweep completes.
func (s *S3Client) DeletePrefix(ctx context.Context, prefix string) error {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var firstErr error
	for result := range s.client.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
		if result.Err != nil {
			logger.Error("failed to remove object %s: %v", result.ObjectName, result.Err)
			if firstErr == nil {
				firstErr = result.Err
			}
		}
	}
	if firstErr != nil {
		return errors.Internal("Failed to delete files", firstErr)
	}
	return nil
}
