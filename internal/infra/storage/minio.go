package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/resumelens/resumelens/internal/domain/analyses"
)

// uploadTimeout bounds how long a single artifact upload may take.
const uploadTimeout = 30 * time.Second

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
	timeout    time.Duration
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region, timeout: uploadTimeout}, nil
}

// Store implementasi ArtifactStore. The upload races a timer; whichever
// settles first wins and the loser's result is discarded.
func (s *Store) Store(ctx context.Context, userID, fileName string, data []byte) (string, error) {
	key := ObjectKey(userID, fileName, time.Now())

	done := make(chan error, 1)
	go func() {
		_, err := s.client.PutObject(ctx, s.bucketName, key,
			bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentTypeFor(fileName)})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", classify(err)
		}
	case <-time.After(s.timeout):
		return "", &domain.StorageError{
			Kind: domain.StorageTimeout,
			Err:  fmt.Errorf("upload of %s did not finish within %s", key, s.timeout),
		}
	}

	// URL publik (jika bucket public), kalau private harus generate presigned URL
	url := fmt.Sprintf("http://%s/%s/%s", s.client.EndpointURL().Host, s.bucketName, key)
	return url, nil
}

// classify maps store error codes to the user-facing categories.
func classify(err error) *domain.StorageError {
	if errors.Is(err, context.Canceled) {
		return &domain.StorageError{Kind: domain.StorageCanceled, Err: err}
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return &domain.StorageError{Kind: domain.StorageUnauthorized, Err: err}
	case "QuotaExceeded", "XMinioAdminBucketQuotaExceeded":
		return &domain.StorageError{Kind: domain.StorageQuotaExceeded, Err: err}
	case "SlowDown", "TooManyRequests":
		return &domain.StorageError{Kind: domain.StorageRetryLimit, Err: err}
	default:
		return &domain.StorageError{Kind: domain.StorageOther, Err: err}
	}
}

// mimeType sederhana
func contentTypeFor(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
