package files

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kurin/blazer/b2"
	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core/lms"
)

const b2KeyPrefix = "uploads/"

// B2Storage writes uploads to a Backblaze B2 bucket and returns their public download URL.
type B2Storage struct {
	bucket *b2.Bucket
}

var _ lms.FileStorage = (*B2Storage)(nil) // interface compliance check

func NewB2Storage(ctx context.Context, accountID, appKey, bucketName string) (*B2Storage, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating b2 client")
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, errors.Wrapf(err, "getting bucket %s", bucketName)
	}
	return &B2Storage{bucket: bucket}, nil
}

func (s *B2Storage) urlPrefix() string {
	return fmt.Sprintf("%s/file/%s/", s.bucket.BaseURL(), s.bucket.Name())
}

func (s *B2Storage) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	key := b2KeyPrefix + objectName(name)
	w := s.bucket.Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, "writing object")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "closing object writer")
	}
	return s.urlPrefix() + key, nil
}

func (s *B2Storage) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, s.urlPrefix())
	if key == url {
		return errors.Errorf("%s was not stored here", url)
	}
	return errors.Wrap(s.bucket.Object(key).Delete(ctx), "deleting object")
}
