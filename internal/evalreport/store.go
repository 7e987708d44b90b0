package evalreport

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Veraticus/meddoc/internal/common"
	"github.com/Veraticus/meddoc/internal/config"
)

// maxReportSize bounds how much of a report object is read.
const maxReportSize = 16 << 20

// ObjectStore reads whole objects from a bucket.
type ObjectStore interface {
	ReadObject(ctx context.Context, bucket, object string) ([]byte, error)
}

// MinioStore reads report objects from S3-compatible storage.
type MinioStore struct {
	client *minio.Client
}

// NewMinioStore connects to the endpoint named in cfg. No request is made until a read.
func NewMinioStore(cfg config.StorageConfig) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: eval.storage.endpoint", common.ErrMissingConfig)
	}

	opts := &minio.Options{Secure: cfg.UseSSL}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts.Creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		opts.Creds = credentials.NewStatic("", "", "", credentials.SignatureAnonymous)
	}

	client, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &MinioStore{client: client}, nil
}

// ReadObject returns the object's bytes. A missing bucket or key wraps common.ErrNotFound.
func (s *MinioStore) ReadObject(ctx context.Context, bucket, object string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, storageError(bucket, object, err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(io.LimitReader(obj, maxReportSize))
	if err != nil {
		return nil, storageError(bucket, object, err)
	}
	return data, nil
}

func storageError(bucket, object string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: s3://%s/%s", common.ErrNotFound, bucket, object)
	default:
		return fmt.Errorf("failed to read s3://%s/%s: %w", bucket, object, err)
	}
}
