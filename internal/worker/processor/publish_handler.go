package processor

import (
	"context"
	"fmt"
	"os"

	"github.com/josmany3000/Render-videos04/internal/pkg/errors"
	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
	"github.com/josmany3000/Render-videos04/internal/ports"
)

// Publisher uploads the final artifact to the configured storage provider
// and yields its public URL.
type Publisher struct {
	sp  ports.StorageProvider
	log *logger.Logger
}

func NewPublisher(sp ports.StorageProvider, log *logger.Logger) *Publisher {
	return &Publisher{sp: sp, log: log.WithStage("publish")}
}

// Publish uploads the rendered video at artifactPath under a key derived
// from the job ID and returns the public URL.
func (p *Publisher) Publish(ctx context.Context, jobID, artifactPath string) (string, error) {
	f, err := os.Open(artifactPath)
	if err != nil {
		return "", errors.PublishFailed(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", errors.PublishFailed(err)
	}

	out, err := p.sp.PutObject(ctx, ports.PutObjectInput{
		ObjectKey:   fmt.Sprintf("renders/%s.mp4", jobID),
		ContentType: "video/mp4",
		Reader:      f,
		Size:        info.Size(),
	})
	if err != nil {
		return "", errors.PublishFailed(err)
	}

	p.log.FromContext(ctx).Info("artifact published",
		"provider", p.sp.Provider(),
		"key", out.ObjectKey,
		"size", out.Size,
	)
	return out.PublicURL, nil
}
