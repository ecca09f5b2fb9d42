package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/josmany3000/Render-videos04/internal/pkg/errors"
	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
	"github.com/josmany3000/Render-videos04/internal/plan"
	"github.com/josmany3000/Render-videos04/internal/worker/fetcher"
)

// Default extensions per asset class, used when the source URL has none.
const (
	defaultImageExt = ".jpg"
	defaultVideoExt = ".mp4"
	defaultAudioExt = ".mp3"
)

// SceneAssets is one scene's slice of the local working set.
type SceneAssets struct {
	Scene         plan.Scene
	VisualPath    string
	VisualIsVideo bool
	NarrationPath string // empty when absent or skipped
	Skipped       bool   // degenerate scene: no visual asset reference
}

// FetchHandler materializes remote scene assets into the job's working
// area, streaming each transfer to disk.
type FetchHandler struct {
	fetcher fetcher.Client
	log     *logger.Logger
}

func NewFetchHandler(fc fetcher.Client, log *logger.Logger) *FetchHandler {
	return &FetchHandler{fetcher: fc, log: log.WithStage("fetch")}
}

// Materialize downloads the visual and optional narration asset of every
// scene, in order. A missing visual asset reference marks the scene skipped;
// a failing visual download fails the whole job; a failing narration
// download drops only the narration. onScene is invoked after each scene
// for progress reporting.
func (fh *FetchHandler) Materialize(ctx context.Context, workDir string, scenes []plan.Scene, onScene func(done, total int)) ([]SceneAssets, error) {
	assetsDir := filepath.Join(workDir, "assets")
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "processor.fetch", "failed to create working area")
	}

	out := make([]SceneAssets, 0, len(scenes))

	for i, scene := range scenes {
		sa := SceneAssets{Scene: scene}

		visual, ok := scene.Visual()
		if !ok {
			sa.Skipped = true
			fh.log.FromContext(ctx).Debug("scene has no visual asset, skipping", "scene", i)
			out = append(out, sa)
			if onScene != nil {
				onScene(i+1, len(scenes))
			}
			continue
		}

		isVideo := visual.Type == "video"
		ext := defaultImageExt
		if isVideo {
			ext = defaultVideoExt
		}

		visualPath := filepath.Join(assetsDir, fmt.Sprintf("scene_%d%s", i, ExtFromURL(visual.URL, ext)))
		if err := fh.download(ctx, visual.URL, visualPath); err != nil {
			return nil, errors.FetchFailed(visual.URL, err)
		}
		sa.VisualPath = visualPath
		sa.VisualIsVideo = isVideo

		if scene.HasNarration() {
			narrationPath := filepath.Join(assetsDir, fmt.Sprintf("narration_%d%s", i, ExtFromURL(scene.AudioURL, defaultAudioExt)))
			if err := fh.download(ctx, scene.AudioURL, narrationPath); err != nil {
				// Narration is optional: the scene renders silent.
				fh.log.FromContext(ctx).Warn("narration fetch failed, continuing without audio",
					"scene", i,
					"url", scene.AudioURL,
					"error", err.Error(),
				)
			} else {
				sa.NarrationPath = narrationPath
			}
		}

		out = append(out, sa)
		if onScene != nil {
			onScene(i+1, len(scenes))
		}
	}

	return out, nil
}

func (fh *FetchHandler) download(ctx context.Context, url, dst string) error {
	rc, err := fh.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return err
	}
	return nil
}
