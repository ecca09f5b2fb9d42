package ports

import (
	"context"
	"time"
)

// ClipSpec describes one timed scene clip to build: a visual asset fixed to
// the scene's nominal duration, with optional narration replacing the audio
// track.
type ClipSpec struct {
	VisualPath    string
	VisualIsVideo bool
	NarrationPath string // empty when the scene has no narration
	Duration      time.Duration
	OutputPath    string
}

// Clip is a built scene clip on disk, recorded alongside its intended
// duration for sequencing.
type Clip struct {
	Path     string
	Duration time.Duration
}

// MediaEngine is the media-processing collaborator: it builds timed
// visual+audio clips from file paths and concatenates an ordered list of
// them into a single artifact with a fixed codec and frame-rate
// configuration. Pixel-level work happens entirely behind this interface.
type MediaEngine interface {
	BuildClip(ctx context.Context, spec ClipSpec) (Clip, error)
	Concat(ctx context.Context, clips []Clip, outputPath string) error
}
