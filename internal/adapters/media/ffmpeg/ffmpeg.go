// Package ffmpeg adapts the ffmpeg binary to ports.MediaEngine. All clips
// are encoded with the same codec pair (H.264/AAC) at a fixed frame rate so
// the final concatenation can join them stream-copy, without resampling or
// letterboxing individual scenes.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/josmany3000/Render-videos04/internal/ports"
)

const (
	defaultBin       = "ffmpeg"
	defaultFrameRate = 24

	// Silent stereo source used when a scene has no narration.
	silentAudioSource = "anullsrc=channel_layout=stereo:sample_rate=44100"
)

type Engine struct {
	bin       string
	frameRate int
}

func New(bin string) *Engine {
	if bin == "" {
		bin = defaultBin
	}
	return &Engine{bin: bin, frameRate: defaultFrameRate}
}

func (e *Engine) BuildClip(ctx context.Context, spec ports.ClipSpec) (ports.Clip, error) {
	if spec.VisualPath == "" {
		return ports.Clip{}, fmt.Errorf("clip spec requires a visual path")
	}
	if spec.Duration <= 0 {
		return ports.Clip{}, fmt.Errorf("clip spec requires a positive duration")
	}

	if err := e.run(ctx, buildClipArgs(spec, e.frameRate)); err != nil {
		return ports.Clip{}, err
	}

	return ports.Clip{Path: spec.OutputPath, Duration: spec.Duration}, nil
}

func (e *Engine) Concat(ctx context.Context, clips []ports.Clip, outputPath string) error {
	if len(clips) == 0 {
		return fmt.Errorf("nothing to concatenate")
	}

	listPath := filepath.Join(filepath.Dir(outputPath), "concat.txt")
	if err := writeConcatList(listPath, clips); err != nil {
		return err
	}
	defer os.Remove(listPath)

	return e.run(ctx, concatArgs(listPath, outputPath))
}

func (e *Engine) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, e.bin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", e.bin, err, tail(stderr.String(), 400))
	}
	return nil
}

// buildClipArgs assembles the encode invocation for one scene clip. A still
// image is looped for the scene duration; narration replaces the default
// silent track rather than mixing with it.
func buildClipArgs(spec ports.ClipSpec, frameRate int) []string {
	seconds := strconv.FormatFloat(spec.Duration.Seconds(), 'f', -1, 64)

	args := []string{"-y"}

	if !spec.VisualIsVideo {
		args = append(args, "-loop", "1")
	}
	args = append(args, "-i", spec.VisualPath)

	if spec.NarrationPath != "" {
		args = append(args, "-i", spec.NarrationPath)
	} else {
		args = append(args, "-f", "lavfi", "-i", silentAudioSource)
	}

	args = append(args,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(frameRate),
		"-c:a", "aac",
		"-ar", "44100",
		"-t", seconds,
		spec.OutputPath,
	)
	return args
}

// concatArgs joins pre-encoded clips stream-copy via the concat demuxer.
func concatArgs(listPath, outputPath string) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outputPath,
	}
}

func writeConcatList(listPath string, clips []ports.Clip) error {
	var b strings.Builder
	for _, c := range clips {
		abs, err := filepath.Abs(c.Path)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	return os.WriteFile(listPath, []byte(b.String()), 0o644)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
