package storage

import (
	"context"
	"errors"
	"io"
	"path"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"furrylink/internal/domain"
)

type GCS struct {
	Client *gcs.Client
	Bucket string
	Prefix string
}

// NewGCSClient credsPath 为空时使用 ADC
func NewGCSClient(ctx context.Context, credsPath string) (*gcs.Client, error) {
	if credsPath == "" {
		return gcs.NewClient(ctx)
	}
	return gcs.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

func (g *GCS) object(ref string) *gcs.ObjectHandle {
	return g.Client.Bucket(g.Bucket).Object(path.Join(g.Prefix, ref))
}

func (g *GCS) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ref := refName(filename)
	wc := g.object(ref).NewWriter(ctx)
	wc.ContentType = contentType(ref)
	wc.ChunkSize = 0 // 小文件不分块
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return ref, nil
}

func (g *GCS) Open(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	if !validRef(ref) {
		return nil, "", domain.NotFound("File not found.")
	}
	rc, err := g.object(ref).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, "", domain.NotFound("File not found.")
	}
	if err != nil {
		return nil, "", err
	}
	ct := rc.Attrs.ContentType
	if ct == "" {
		ct = contentType(ref)
	}
	return rc, ct, nil
}
