package localfs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/josmany3000/Render-videos04/internal/ports"
)

// LocalFS implements ports.StorageProvider using the local filesystem.
// Objects are stored under a configured root directory and served by the
// API's /files/ route, so the public URL is baseURL + /files/ + object key.
type LocalFS struct {
	root    string
	baseURL string
}

func New(root, baseURL string) *LocalFS {
	return &LocalFS{root: root, baseURL: baseURL}
}

func (l *LocalFS) Provider() string { return "localfs" }

func (l *LocalFS) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	if in.ObjectKey == "" {
		return ports.PutObjectOutput{}, fmt.Errorf("object_key is required")
	}

	dst := filepath.Join(l.root, filepath.FromSlash(in.ObjectKey))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ports.PutObjectOutput{}, err
	}

	outF, err := os.Create(dst)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}
	defer outF.Close()

	n, err := io.Copy(outF, in.Reader)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}

	return ports.PutObjectOutput{
		ObjectKey: in.ObjectKey,
		PublicURL: l.publicURL(in.ObjectKey),
		Size:      n,
	}, nil
}

func (l *LocalFS) publicURL(objectKey string) string {
	u, err := url.Parse(l.baseURL)
	if err != nil || l.baseURL == "" {
		return "/files/" + objectKey
	}
	u.Path = path.Join(u.Path, "files", objectKey)
	return u.String()
}
