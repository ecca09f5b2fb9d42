package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/josmany3000/Render-videos04/internal/pkg/errors"
	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
	"github.com/josmany3000/Render-videos04/internal/ports"
)

// ClipBuilder turns materialized scene assets into uniform intermediate
// clips through the media engine.
type ClipBuilder struct {
	media ports.MediaEngine
	log   *logger.Logger
}

func NewClipBuilder(media ports.MediaEngine, log *logger.Logger) *ClipBuilder {
	return &ClipBuilder{media: media, log: log.WithStage("clips")}
}

// Build renders one clip per non-skipped scene into workDir/clips, in
// scene order. onScene is invoked after each scene, skipped ones included,
// so progress tracks the full timeline.
func (cb *ClipBuilder) Build(ctx context.Context, workDir string, assets []SceneAssets, onScene func(done, total int)) ([]ports.Clip, error) {
	clipsDir := filepath.Join(workDir, "clips")
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "processor.clips", "failed to create clips directory")
	}

	clips := make([]ports.Clip, 0, len(assets))

	for i, sa := range assets {
		if sa.Skipped {
			if onScene != nil {
				onScene(i+1, len(assets))
			}
			continue
		}

		spec := ports.ClipSpec{
			VisualPath:    sa.VisualPath,
			VisualIsVideo: sa.VisualIsVideo,
			NarrationPath: sa.NarrationPath,
			Duration:      time.Duration(sa.Scene.Duration * float64(time.Second)),
			OutputPath:    filepath.Join(clipsDir, fmt.Sprintf("clip_%d.mp4", i)),
		}

		clip, err := cb.media.BuildClip(ctx, spec)
		if err != nil {
			return nil, errors.BuildFailed(fmt.Sprintf("scene %d", i), err)
		}

		cb.log.FromContext(ctx).Debug("clip built",
			"scene", i,
			"path", clip.Path,
			"duration", clip.Duration,
		)
		clips = append(clips, clip)

		if onScene != nil {
			onScene(i+1, len(assets))
		}
	}

	return clips, nil
}
