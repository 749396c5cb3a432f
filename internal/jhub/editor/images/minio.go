package images

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioResolver читает изображение напрямую из бакета, токен является именем объекта.
type MinioResolver struct {
	client     *minio.Client
	bucketName string
	maxBytes   int64
}

func NewMinioResolver(endpoint string, accessKeyID string, secretAccessKey string, useSSL bool, bucketName string, maxBytes int64) (*MinioResolver, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioResolver{client: client, bucketName: bucketName, maxBytes: maxBytes}, nil
}

func (m *MinioResolver) Resolve(ctx context.Context, token string) (string, error) {
	obj, err := m.client.GetObject(ctx, m.bucketName, token, minio.GetObjectOptions{})
	if err != nil {
		return "", err
	}
	defer obj.Close()

	var r io.Reader = obj
	if m.maxBytes > 0 {
		r = io.LimitReader(obj, m.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", ErrNotFound
		}
		return "", err
	}
	if m.maxBytes > 0 && int64(len(data)) > m.maxBytes {
		return "", ErrTooLarge
	}
	return EncodeDataURL(data, token)
}
