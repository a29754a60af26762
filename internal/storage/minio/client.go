package minio

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/portfolio-server/internal/model"
)

const imagePrefix = "images/"

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, data []byte, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}

func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}

func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, data []byte, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, bytes.NewReader(data), int64(len(data)), opts)
}

func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

var _ model.ImageUploader = (*ImageStore)(nil)

// Options describes how to reach the object storage.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// ImageStore keeps uploaded images in a MinIO bucket and hands out public URLs.
type ImageStore struct {
	api       minioAPI
	bucket    string
	publicURL string
	newID     func() string
}

// NewImageStore connects to MinIO and makes sure the bucket exists.
func NewImageStore(ctx context.Context, opts Options) (*ImageStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return NewImageStoreWithAPI(ctx, minioClientWrapper{c: client}, opts.Bucket, opts.PublicURL)
}

// NewImageStoreWithAPI allows injecting a mockable API (used in tests).
func NewImageStoreWithAPI(ctx context.Context, api minioAPI, bucket, publicURL string) (*ImageStore, error) {
	s := &ImageStore{
		api:       api,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		newID:     uuid.NewString,
	}

	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return s, nil
}

// ensureBucketExists creates the bucket if it doesn't exist
func (s *ImageStore) ensureBucketExists(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload stores blob under a fresh key. Payloads that are not images are
// rejected before anything is sent.
func (s *ImageStore) Upload(ctx context.Context, blob model.Blob) (model.UploadedImage, error) {
	mime := mimetype.Detect(blob.Data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return model.UploadedImage{}, fmt.Errorf("%w: %s is %s", model.ErrUnsupportedImage, blob.FileName, mime.String())
	}

	contentType := blob.ContentType
	if !strings.HasPrefix(contentType, "image/") {
		contentType = mime.String()
	}

	key := imagePrefix + s.newID() + mime.Extension()
	_, err := s.api.PutObject(ctx, s.bucket, key, blob.Data, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"file-name": blob.FileName},
	})
	if err != nil {
		return model.UploadedImage{}, fmt.Errorf("failed to upload object: %w", err)
	}

	return model.UploadedImage{URL: s.url(key), ID: key}, nil
}

// Delete removes an uploaded image by the id Upload returned.
func (s *ImageStore) Delete(ctx context.Context, id string) error {
	err := s.api.RemoveObject(ctx, s.bucket, id, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *ImageStore) url(key string) string {
	return s.publicURL + "/" + s.bucket + "/" + key
}
