package gdrive

import (
	"context"
	"fmt"

	"github.com/josmany3000/Render-videos04/internal/ports"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// Client implements ports.StorageProvider backed by Google Drive. Uploaded
// artifacts get an anyone-with-link reader permission so the returned URL
// is publicly resolvable.
type Client struct {
	srv      *drive.Service
	folderID string
}

func NewClient(srv *drive.Service, folderID string) *Client {
	return &Client{srv: srv, folderID: folderID}
}

func (c *Client) Provider() string { return "gdrive" }

func (c *Client) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	if in.ObjectKey == "" {
		return ports.PutObjectOutput{}, fmt.Errorf("object_key is required")
	}

	file := &drive.File{Name: in.ObjectKey}
	if c.folderID != "" {
		file.Parents = []string{c.folderID}
	}

	call := c.srv.Files.Create(file)
	if in.ContentType != "" {
		call = call.Media(in.Reader, googleapi.ContentType(in.ContentType))
	} else {
		call = call.Media(in.Reader)
	}

	created, err := call.Context(ctx).Do()
	if err != nil {
		return ports.PutObjectOutput{}, fmt.Errorf("gdrive upload failed: %w", err)
	}

	perm := &drive.Permission{Type: "anyone", Role: "reader"}
	if _, err := c.srv.Permissions.Create(created.Id, perm).Context(ctx).Do(); err != nil {
		return ports.PutObjectOutput{}, fmt.Errorf("gdrive permission failed: %w", err)
	}

	return ports.PutObjectOutput{
		ObjectKey: created.Id,
		PublicURL: fmt.Sprintf("https://drive.google.com/uc?id=%s", created.Id),
		Size:      in.Size,
	}, nil
}
