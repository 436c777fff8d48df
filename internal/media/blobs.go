package media

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"

	"github.com/go-faster/errors"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Blobs is the byte storage behind the media library. Names are slash
// separated paths relative to the media root.
type Blobs interface {
	Exists(ctx context.Context, name string) (bool, error)
	Write(ctx context.Context, name string, data []byte) error
	Read(ctx context.Context, name string) ([]byte, error)
}

// BillyBlobs stores files on a go-billy filesystem.
type BillyBlobs struct {
	fs billy.Filesystem
}

func NewBillyBlobs(fs billy.Filesystem) *BillyBlobs {
	return &BillyBlobs{fs: fs}
}

func NewLocalBlobs(root string) *BillyBlobs {
	return NewBillyBlobs(osfs.New(root))
}

func NewMemoryBlobs() *BillyBlobs {
	return NewBillyBlobs(memfs.New())
}

func (b *BillyBlobs) Exists(_ context.Context, name string) (bool, error) {
	_, err := b.fs.Stat(name)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, errors.Wrapf(err, "stat %q", name)
	}
}

func (b *BillyBlobs) Write(_ context.Context, name string, data []byte) error {
	if dir := path.Dir(name); dir != "." {
		if err := b.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "mkdir %q", dir)
		}
	}
	if err := util.WriteFile(b.fs, name, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %q", name)
	}
	return nil
}

func (b *BillyBlobs) Read(_ context.Context, name string) ([]byte, error) {
	data, err := util.ReadFile(b.fs, name)
	if err != nil {
		return nil, errors.Wrapf(err, "read %q", name)
	}
	return data, nil
}

// MinioBlobs stores files as objects in a MinIO or S3 bucket.
type MinioBlobs struct {
	client *minio.Client
	bucket string
}

func NewMinioBlobs(ctx context.Context, endpoint, accessKey, secretKey, bucket string, secure bool) (*MinioBlobs, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "check bucket %q", bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrapf(err, "create bucket %q", bucket)
		}
	}

	return &MinioBlobs{client: client, bucket: bucket}, nil
}

func (m *MinioBlobs) Exists(ctx context.Context, name string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, errors.Wrapf(err, "stat object %q", name)
}

func (m *MinioBlobs) Write(ctx context.Context, name string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return errors.Wrapf(err, "put object %q", name)
	}
	return nil
}

func (m *MinioBlobs) Read(ctx context.Context, name string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "get object %q", name)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "read object %q", name)
	}
	return data, nil
}
