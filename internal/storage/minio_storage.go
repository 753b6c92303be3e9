package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
)

type MinioStorage struct {
	client     minioClient
	multipart  minioMultipart
	bucketName string
}

type Strg struct {
	Client    minioClient
	Multipart minioMultipart
}

// compile-time check: *MinioStorage must satisfy port.Storage
var _ port.Storage = (*MinioStorage)(nil)

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*Strg, error) {
	logger.Infof(context.Background(), "initialising minio client for %q...", endpoint)
	core, err := minio.NewCore(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &Strg{Client: core.Client, Multipart: core}, nil
}

// WithBucket binds the client to a single bucket, creating it when absent.
func (c *Strg) WithBucket(bucket string) (port.Storage, error) {
	ok, err := c.Client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, mapMinioErr(err)
	}
	if !ok {
		logger.Infof(context.Background(), "bucket %q does not exist, creating it...", bucket)
		if err := c.Client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, mapMinioErr(err)
		}
	}
	return &MinioStorage{client: c.Client, multipart: c.Multipart, bucketName: bucket}, nil
}

// GeneratePresignedUploadURL signs the Content-Type header into the URL so the
// client cannot upload under a different declared type than it was granted.
func (s *MinioStorage) GeneratePresignedUploadURL(ctx context.Context, fileKey, contentType string, expiry time.Duration) (string, error) {
	logger.Debugf(ctx, "generating a presigned upload link for file %q in bucket %q...", fileKey, s.bucketName)

	headers := http.Header{}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}
	presignedURL, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucketName, fileKey, expiry, url.Values{}, headers)
	if err != nil {
		return "", mapMinioErr(err)
	}

	return presignedURL.String(), nil
}

func (s *MinioStorage) GeneratePresignedDownloadURL(ctx context.Context, fileKey string, expiry time.Duration) (string, error) {
	logger.Debugf(ctx, "generating a presigned download link for file %q in bucket %q...", fileKey, s.bucketName)

	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucketName, fileKey, expiry, url.Values{})
	if err != nil {
		return "", mapMinioErr(err)
	}

	return presignedURL.String(), nil
}

func (s *MinioStorage) FileExists(ctx context.Context, fileKey string) (bool, error) {
	_, err := s.StatFile(ctx, fileKey)
	if errors.Is(err, port.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MinioStorage) StatFile(ctx context.Context, fileKey string) (port.FileInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucketName, fileKey, minio.StatObjectOptions{})
	if err != nil {
		return port.FileInfo{}, mapMinioErr(err)
	}
	return port.FileInfo{
		SizeBytes:   info.Size,
		ContentType: info.ContentType,
	}, nil
}

func (s *MinioStorage) GetFile(ctx context.Context, fileKey string) (io.ReadSeekCloser, error) {
	logger.Debugf(ctx, "getting file %q from bucket %q...", fileKey, s.bucketName)

	obj, err := s.client.GetObject(ctx, s.bucketName, fileKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return obj, nil
}

func (s *MinioStorage) SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	logger.Debugf(ctx, "saving file %q into bucket %q...", fileKey, s.bucketName)

	putOpts := minio.PutObjectOptions{}
	if ct := opts["Content-Type"]; ct != "" {
		putOpts.ContentType = ct
	}

	_, err := s.client.PutObject(ctx, s.bucketName, fileKey, reader, fileSize, putOpts)
	if err != nil {
		return mapMinioErr(err)
	}
	return nil
}

func (s *MinioStorage) RemoveFile(ctx context.Context, fileKey string) error {
	logger.Debugf(ctx, "removing file %q from bucket %q...", fileKey, s.bucketName)

	err := s.client.RemoveObject(ctx, s.bucketName, fileKey, minio.RemoveObjectOptions{})
	return mapMinioErr(err)
}

func (s *MinioStorage) BeginMultipartUpload(ctx context.Context, fileKey, contentType string) (string, error) {
	logger.Debugf(ctx, "beginning multipart upload for file %q in bucket %q...", fileKey, s.bucketName)

	uploadID, err := s.multipart.NewMultipartUpload(ctx, s.bucketName, fileKey, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", mapMinioErr(err)
	}
	return uploadID, nil
}

func (s *MinioStorage) PresignPartURL(ctx context.Context, fileKey, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	params := url.Values{}
	params.Set("partNumber", strconv.Itoa(partNumber))
	params.Set("uploadId", uploadID)

	presignedURL, err := s.client.Presign(ctx, http.MethodPut, s.bucketName, fileKey, expiry, params)
	if err != nil {
		return "", mapMinioErr(err)
	}
	return presignedURL.String(), nil
}

func (s *MinioStorage) CompleteMultipartUpload(ctx context.Context, fileKey, uploadID string, parts []port.Part) error {
	logger.Debugf(ctx, "completing multipart upload %q for file %q...", uploadID, fileKey)

	completed := make([]minio.CompletePart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, minio.CompletePart{PartNumber: p.Number, ETag: p.ETag})
	}
	_, err := s.multipart.CompleteMultipartUpload(ctx, s.bucketName, fileKey, uploadID, completed, minio.PutObjectOptions{})
	return mapMinioErr(err)
}

func (s *MinioStorage) AbortMultipartUpload(ctx context.Context, fileKey, uploadID string) error {
	logger.Debugf(ctx, "aborting multipart upload %q for file %q...", uploadID, fileKey)

	err := s.multipart.AbortMultipartUpload(ctx, s.bucketName, fileKey, uploadID)
	return mapMinioErr(err)
}
