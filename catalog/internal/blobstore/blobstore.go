package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
)

type Config struct {
	Endpoint  string `yaml:"endpoint" envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `yaml:"accessKey" envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secretKey" envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" envconfig:"MINIO_BUCKET" default:"catalog"`
	UseSSL    bool   `yaml:"useSSL" envconfig:"MINIO_USE_SSL" default:"false"`
}

// Store keeps binary attachments in an S3-compatible bucket and hands back
// dereferenceable URLs. Objects above the client part-size threshold are
// uploaded multipart by the client itself; callers see one contract.
type Store struct {
	client *minio.Client
	cfg    Config
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "minio client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "bucket check")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "make bucket")
		}
	}

	return &Store{client: client, cfg: cfg}, nil
}

// Upload stores data under folder with a generated unique name and returns
// the object URL.
func (s *Store) Upload(ctx context.Context, data []byte, contentType, folder string) (string, error) {
	name := uuid.NewString()
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		name += exts[0]
	}
	key := folder + "/" + name

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrapf(errs.ErrStorageIO, "upload %s: %v", key, err)
	}

	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, key), nil
}

// Delete removes the object a previously returned URL points at. Deleting a
// reference that no longer exists is a no-op.
func (s *Store) Delete(ctx context.Context, ref string) error {
	key, err := s.objectKey(ref)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(errs.ErrStorageIO, "delete %s: %v", key, err)
	}
	return nil
}

func (s *Store) objectKey(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrapf(errs.ErrStorageIO, "bad reference %q", ref)
	}
	prefix := "/" + s.cfg.Bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", errors.Wrapf(errs.ErrStorageIO, "reference %q outside bucket %s", ref, s.cfg.Bucket)
	}
	return strings.TrimPrefix(u.Path, prefix), nil
}
