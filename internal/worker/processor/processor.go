package processor

import (
	"context"
	"path/filepath"

	"github.com/josmany3000/Render-videos04/internal/pkg/errors"
	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
	"github.com/josmany3000/Render-videos04/internal/plan"
	"github.com/josmany3000/Render-videos04/internal/ports"
	"github.com/josmany3000/Render-videos04/internal/registry"
	"github.com/josmany3000/Render-videos04/internal/worker/fetcher"
)

// Progress checkpoints across the pipeline. Fetching advances from
// progressStart to progressFetched, clip building up to progressClips,
// then encoding and publishing land on their fixed marks.
const (
	progressStart   = 5
	progressFetched = 35
	progressClips   = 75
	progressEncoded = 95
	progressDone    = 100
)

// maxErrorLen caps the error text stored on a failed job.
const maxErrorLen = 2000

// Deps carries the collaborators a Processor needs.
type Deps struct {
	Registry registry.Store
	Fetcher  fetcher.Client
	Media    ports.MediaEngine
	Storage  ports.StorageProvider
	WorkRoot string
	Log      *logger.Logger
}

// Processor drives a render job through fetch, clip construction,
// concatenation, publication and cleanup, reporting progress to the
// job registry along the way.
type Processor struct {
	registry registry.Store
	workRoot string
	log      *logger.Logger

	fetch   *FetchHandler
	clips   *ClipBuilder
	media   ports.MediaEngine
	publish *Publisher
	cleanup *CleanupHandler
}

func New(d Deps) *Processor {
	log := d.Log.WithComponent("processor")
	return &Processor{
		registry: d.Registry,
		workRoot: d.WorkRoot,
		log:      log,
		fetch:    NewFetchHandler(d.Fetcher, log),
		clips:    NewClipBuilder(d.Media, log),
		media:    d.Media,
		publish:  NewPublisher(d.Storage, log),
		cleanup:  NewCleanupHandler(log),
	}
}

// ProcessJob runs the full pipeline for one job. The job's registry entry
// must already exist; this marks it processing, advances progress through
// the stage checkpoints and leaves it in a terminal state. The working
// area is removed regardless of outcome.
func (p *Processor) ProcessJob(ctx context.Context, jobID string, req plan.Request) {
	log := p.log.FromContext(ctx)
	workDir := filepath.Join(p.workRoot, "jobs", jobID)
	defer p.cleanup.Cleanup(ctx, workDir)

	log.Info("job started", "scenes", len(req.Scenes), "timeline_seconds", plan.TotalDuration(req.Scenes))
	p.registry.Update(ctx, jobID, registry.Update{
		Status:   registry.StatusOf(registry.StatusProcessing),
		Progress: registry.ProgressOf(progressStart),
	})

	assets, err := p.fetch.Materialize(ctx, workDir, req.Scenes, func(done, total int) {
		p.setProgress(ctx, jobID, lerp(progressStart, progressFetched, done, total))
	})
	if err != nil {
		p.failJob(ctx, jobID, err)
		return
	}

	clips, err := p.clips.Build(ctx, workDir, assets, func(done, total int) {
		p.setProgress(ctx, jobID, lerp(progressFetched, progressClips, done, total))
	})
	if err != nil {
		p.failJob(ctx, jobID, err)
		return
	}
	if len(clips) == 0 {
		p.failJob(ctx, jobID, errors.BuildFailed("timeline", errors.New(errors.CodeBuildFailed, "no renderable scenes produced a clip")))
		return
	}

	artifactPath := filepath.Join(workDir, "final.mp4")
	if err := p.media.Concat(ctx, clips, artifactPath); err != nil {
		p.failJob(ctx, jobID, errors.BuildFailed("concat", err))
		return
	}
	p.setProgress(ctx, jobID, progressEncoded)

	videoURL, err := p.publish.Publish(ctx, jobID, artifactPath)
	if err != nil {
		p.failJob(ctx, jobID, err)
		return
	}

	p.registry.Update(ctx, jobID, registry.Update{
		Status:   registry.StatusOf(registry.StatusCompleted),
		Progress: registry.ProgressOf(progressDone),
		VideoURL: registry.StringOf(videoURL),
	})
	log.Info("job completed", "video_url", videoURL)
}

func (p *Processor) setProgress(ctx context.Context, jobID string, progress int) {
	p.registry.Update(ctx, jobID, registry.Update{Progress: registry.ProgressOf(progress)})
}

func (p *Processor) failJob(ctx context.Context, jobID string, err error) {
	p.log.FromContext(ctx).WithError(err).Error("job failed")
	p.registry.Update(ctx, jobID, registry.Update{
		Status: registry.StatusOf(registry.StatusError),
		Error:  registry.StringOf(truncate(err.Error(), maxErrorLen)),
	})
}

// lerp maps done/total onto the [from, to] progress segment.
func lerp(from, to, done, total int) int {
	if total <= 0 {
		return to
	}
	return from + (to-from)*done/total
}
