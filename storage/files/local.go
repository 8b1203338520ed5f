package files

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core/lms"
)

// LocalStorage writes uploads under Dir; they are served under Prefix (e.g. /uploads).
type LocalStorage struct {
	Dir    string
	Prefix string
}

var _ lms.FileStorage = (*LocalStorage)(nil) // interface compliance check

func NewLocalStorage(dir, prefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating upload directory %s", dir)
	}
	return &LocalStorage{Dir: dir, Prefix: "/" + strings.Trim(prefix, "/")}, nil
}

func (s *LocalStorage) Save(_ context.Context, name string, r io.Reader) (string, error) {
	key := objectName(name)
	f, err := os.Create(filepath.Join(s.Dir, key))
	if err != nil {
		return "", errors.Wrap(err, "creating upload file")
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", errors.Wrap(err, "writing upload file")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "closing upload file")
	}
	return path.Join(s.Prefix, key), nil
}

// Delete removes a file previously returned by Save. Unknown paths are ignored.
func (s *LocalStorage) Delete(_ context.Context, p string) error {
	key := strings.TrimPrefix(p, s.Prefix+"/")
	if key == p || strings.Contains(key, "/") {
		return errors.Errorf("%s was not stored here", p)
	}
	err := os.Remove(filepath.Join(s.Dir, key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing upload file")
	}
	return nil
}
