package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"furrylink/internal/domain"
)

type Local struct{ Dir string }

// NewLocal 目录不存在时自动创建
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{Dir: dir}, nil
}

func (l *Local) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	ref := refName(filename)
	f, err := os.OpenFile(filepath.Join(l.Dir, ref), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return ref, nil
}

func (l *Local) Open(_ context.Context, ref string) (io.ReadCloser, string, error) {
	if !validRef(ref) {
		return nil, "", domain.NotFound("File not found.")
	}
	f, err := os.Open(filepath.Join(l.Dir, ref))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", domain.NotFound("File not found.")
	}
	if err != nil {
		return nil, "", err
	}
	return f, contentType(ref), nil
}
