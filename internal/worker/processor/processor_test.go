package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
	"github.com/josmany3000/Render-videos04/internal/plan"
	"github.com/josmany3000/Render-videos04/internal/ports"
	"github.com/josmany3000/Render-videos04/internal/registry"
)

type fakeFetcher struct {
	mu     sync.Mutex
	failOn map[string]error
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (io.ReadCloser, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if err, ok := f.failOn[url]; ok {
		return nil, err
	}
	return io.NopCloser(strings.NewReader("asset-bytes")), nil
}

type fakeMedia struct {
	buildErr  error
	concatErr error
	specs     []ports.ClipSpec
	concats   [][]ports.Clip
}

func (m *fakeMedia) BuildClip(_ context.Context, spec ports.ClipSpec) (ports.Clip, error) {
	m.specs = append(m.specs, spec)
	if m.buildErr != nil {
		return ports.Clip{}, m.buildErr
	}
	if err := os.WriteFile(spec.OutputPath, []byte("clip"), 0o644); err != nil {
		return ports.Clip{}, err
	}
	return ports.Clip{Path: spec.OutputPath, Duration: spec.Duration}, nil
}

func (m *fakeMedia) Concat(_ context.Context, clips []ports.Clip, outputPath string) error {
	m.concats = append(m.concats, clips)
	if m.concatErr != nil {
		return m.concatErr
	}
	return os.WriteFile(outputPath, []byte("final"), 0o644)
}

type fakeStorage struct {
	err     error
	puts    []ports.PutObjectInput
	payload []byte
}

func (s *fakeStorage) Provider() string { return "fake" }

func (s *fakeStorage) PutObject(_ context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	s.puts = append(s.puts, in)
	if s.err != nil {
		return ports.PutObjectOutput{}, s.err
	}
	data, err := io.ReadAll(in.Reader)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}
	s.payload = data
	return ports.PutObjectOutput{
		ObjectKey: in.ObjectKey,
		PublicURL: "https://cdn.example.com/" + in.ObjectKey,
		Size:      int64(len(data)),
	}, nil
}

// recordingStore wraps a registry store and captures every progress value.
type recordingStore struct {
	registry.Store
	mu       sync.Mutex
	progress []int
}

func (r *recordingStore) Update(ctx context.Context, id string, u registry.Update) {
	if u.Progress != nil {
		r.mu.Lock()
		r.progress = append(r.progress, *u.Progress)
		r.mu.Unlock()
	}
	r.Store.Update(ctx, id, u)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

func twoSceneRequest() plan.Request {
	req := plan.Request{
		Scenes: []plan.Scene{
			{
				Script:   "intro",
				Duration: 5,
				Media:    []plan.MediaItem{{URL: "https://assets.test/one.jpg", Type: "image"}},
				AudioURL: "https://assets.test/one.mp3",
			},
			{
				Script:   "outro",
				Duration: 3,
				Media:    []plan.MediaItem{{URL: "https://assets.test/two.mp4", Type: "video"}},
			},
		},
	}
	req.Normalize()
	return req
}

func newTestProcessor(t *testing.T, store registry.Store, fc *fakeFetcher, media *fakeMedia, sp *fakeStorage) *Processor {
	t.Helper()
	return New(Deps{
		Registry: store,
		Fetcher:  fc,
		Media:    media,
		Storage:  sp,
		WorkRoot: t.TempDir(),
		Log:      testLogger(),
	})
}

func createJob(t *testing.T, store registry.Store) string {
	t.Helper()
	id, err := store.Create(context.Background())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return id
}

func TestProcessJobSuccess(t *testing.T) {
	mem := registry.NewMemory()
	store := &recordingStore{Store: mem}
	fc := &fakeFetcher{}
	media := &fakeMedia{}
	sp := &fakeStorage{}
	p := newTestProcessor(t, store, fc, media, sp)

	id := createJob(t, mem)
	p.ProcessJob(context.Background(), id, twoSceneRequest())

	state, ok := mem.Get(context.Background(), id)
	if !ok {
		t.Fatal("job state not found")
	}
	if state.Status != registry.StatusCompleted {
		t.Fatalf("status = %q, want completed (error: %q)", state.Status, state.Error)
	}
	if state.Progress != 100 {
		t.Errorf("progress = %d, want 100", state.Progress)
	}
	wantURL := fmt.Sprintf("https://cdn.example.com/renders/%s.mp4", id)
	if state.VideoURL != wantURL {
		t.Errorf("videoUrl = %q, want %q", state.VideoURL, wantURL)
	}

	// Two visuals plus one narration track.
	if len(fc.calls) != 3 {
		t.Errorf("fetch calls = %d, want 3", len(fc.calls))
	}
	if len(media.specs) != 2 {
		t.Fatalf("clips built = %d, want 2", len(media.specs))
	}
	if media.specs[0].VisualIsVideo {
		t.Error("scene 0 should be an image clip")
	}
	if !media.specs[1].VisualIsVideo {
		t.Error("scene 1 should be a video clip")
	}
	if media.specs[1].NarrationPath != "" {
		t.Error("scene 1 has no narration, got a narration path")
	}
	if len(media.concats) != 1 || len(media.concats[0]) != 2 {
		t.Fatalf("concat calls = %v, want one call with two clips", media.concats)
	}
	if len(sp.puts) != 1 {
		t.Fatalf("uploads = %d, want 1", len(sp.puts))
	}
	if sp.puts[0].ContentType != "video/mp4" {
		t.Errorf("content type = %q", sp.puts[0].ContentType)
	}
	if string(sp.payload) != "final" {
		t.Errorf("uploaded payload = %q, want concatenated artifact", sp.payload)
	}
}

func TestProcessJobProgressMonotone(t *testing.T) {
	mem := registry.NewMemory()
	store := &recordingStore{Store: mem}
	p := newTestProcessor(t, store, &fakeFetcher{}, &fakeMedia{}, &fakeStorage{})

	id := createJob(t, mem)
	p.ProcessJob(context.Background(), id, twoSceneRequest())

	if len(store.progress) == 0 {
		t.Fatal("no progress updates recorded")
	}
	prev := -1
	for _, v := range store.progress {
		if v < prev {
			t.Fatalf("progress went backwards: %v", store.progress)
		}
		prev = v
	}
	if store.progress[0] != 5 {
		t.Errorf("first checkpoint = %d, want 5", store.progress[0])
	}
	if last := store.progress[len(store.progress)-1]; last != 100 {
		t.Errorf("last checkpoint = %d, want 100", last)
	}
}

func TestProcessJobVisualFetchFailure(t *testing.T) {
	mem := registry.NewMemory()
	fc := &fakeFetcher{failOn: map[string]error{
		"https://assets.test/one.jpg": fmt.Errorf("status 404"),
	}}
	media := &fakeMedia{}
	sp := &fakeStorage{}
	p := newTestProcessor(t, mem, fc, media, sp)

	id := createJob(t, mem)
	p.ProcessJob(context.Background(), id, twoSceneRequest())

	state, _ := mem.Get(context.Background(), id)
	if state.Status != registry.StatusError {
		t.Fatalf("status = %q, want error", state.Status)
	}
	if state.Error == "" {
		t.Error("error message not recorded")
	}
	if state.VideoURL != "" {
		t.Error("failed job must not carry a video URL")
	}
	if len(sp.puts) != 0 {
		t.Error("nothing should be published on fetch failure")
	}
}

func TestProcessJobNarrationFailureIsTolerated(t *testing.T) {
	mem := registry.NewMemory()
	fc := &fakeFetcher{failOn: map[string]error{
		"https://assets.test/one.mp3": fmt.Errorf("status 500"),
	}}
	media := &fakeMedia{}
	p := newTestProcessor(t, mem, fc, media, &fakeStorage{})

	id := createJob(t, mem)
	p.ProcessJob(context.Background(), id, twoSceneRequest())

	state, _ := mem.Get(context.Background(), id)
	if state.Status != registry.StatusCompleted {
		t.Fatalf("status = %q, want completed (narration is optional)", state.Status)
	}
	if len(media.specs) != 2 {
		t.Fatalf("clips built = %d, want 2", len(media.specs))
	}
	if media.specs[0].NarrationPath != "" {
		t.Error("failed narration should leave the clip silent")
	}
}

func TestProcessJobPublishFailure(t *testing.T) {
	mem := registry.NewMemory()
	sp := &fakeStorage{err: fmt.Errorf("bucket unavailable")}
	p := newTestProcessor(t, mem, &fakeFetcher{}, &fakeMedia{}, sp)

	id := createJob(t, mem)
	p.ProcessJob(context.Background(), id, twoSceneRequest())

	state, _ := mem.Get(context.Background(), id)
	if state.Status != registry.StatusError {
		t.Fatalf("status = %q, want error", state.Status)
	}
	if state.VideoURL != "" {
		t.Error("failed publish must not record a video URL")
	}
}

func TestProcessJobConcatFailure(t *testing.T) {
	mem := registry.NewMemory()
	media := &fakeMedia{concatErr: fmt.Errorf("demuxer rejected input")}
	p := newTestProcessor(t, mem, &fakeFetcher{}, media, &fakeStorage{})

	id := createJob(t, mem)
	p.ProcessJob(context.Background(), id, twoSceneRequest())

	state, _ := mem.Get(context.Background(), id)
	if state.Status != registry.StatusError {
		t.Fatalf("status = %q, want error", state.Status)
	}
	if !strings.Contains(state.Error, "demuxer rejected input") {
		t.Errorf("error = %q, want the underlying cause preserved", state.Error)
	}
}

func TestProcessJobSkipsScenesWithoutVisual(t *testing.T) {
	mem := registry.NewMemory()
	fc := &fakeFetcher{}
	media := &fakeMedia{}
	p := newTestProcessor(t, mem, fc, media, &fakeStorage{})

	req := plan.Request{
		Scenes: []plan.Scene{
			{Script: "blank", Duration: 2},
			{
				Script:   "visible",
				Duration: 4,
				Media:    []plan.MediaItem{{URL: "https://assets.test/pic.png", Type: "image"}},
			},
		},
	}
	req.Normalize()

	id := createJob(t, mem)
	p.ProcessJob(context.Background(), id, req)

	state, _ := mem.Get(context.Background(), id)
	if state.Status != registry.StatusCompleted {
		t.Fatalf("status = %q, want completed (error: %q)", state.Status, state.Error)
	}
	if len(media.specs) != 1 {
		t.Fatalf("clips built = %d, want 1", len(media.specs))
	}
	if len(fc.calls) != 1 {
		t.Errorf("fetch calls = %d, want 1", len(fc.calls))
	}
}

func TestProcessJobAllScenesSkippedFails(t *testing.T) {
	mem := registry.NewMemory()
	p := newTestProcessor(t, mem, &fakeFetcher{}, &fakeMedia{}, &fakeStorage{})

	req := plan.Request{Scenes: []plan.Scene{{Script: "blank", Duration: 2}}}
	req.Normalize()

	id := createJob(t, mem)
	p.ProcessJob(context.Background(), id, req)

	state, _ := mem.Get(context.Background(), id)
	if state.Status != registry.StatusError {
		t.Fatalf("status = %q, want error", state.Status)
	}
}

func TestProcessJobCleansWorkingArea(t *testing.T) {
	mem := registry.NewMemory()
	workRoot := t.TempDir()
	p := New(Deps{
		Registry: mem,
		Fetcher:  &fakeFetcher{},
		Media:    &fakeMedia{},
		Storage:  &fakeStorage{},
		WorkRoot: workRoot,
		Log:      testLogger(),
	})

	id := createJob(t, mem)
	p.ProcessJob(context.Background(), id, twoSceneRequest())

	if _, err := os.Stat(filepath.Join(workRoot, "jobs", id)); !os.IsNotExist(err) {
		t.Errorf("working area still present after success: %v", err)
	}

	// Same guarantee when the job fails.
	failing := New(Deps{
		Registry: mem,
		Fetcher:  &fakeFetcher{failOn: map[string]error{"https://assets.test/one.jpg": fmt.Errorf("boom")}},
		Media:    &fakeMedia{},
		Storage:  &fakeStorage{},
		WorkRoot: workRoot,
		Log:      testLogger(),
	})
	id2 := createJob(t, mem)
	failing.ProcessJob(context.Background(), id2, twoSceneRequest())

	if _, err := os.Stat(filepath.Join(workRoot, "jobs", id2)); !os.IsNotExist(err) {
		t.Errorf("working area still present after failure: %v", err)
	}
}

func TestExtFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		fallback string
		want     string
	}{
		{"plain jpg", "https://x.test/a.jpg", ".png", ".jpg"},
		{"query string", "https://x.test/a.MP4?tok=1", ".jpg", ".mp4"},
		{"no extension", "https://x.test/asset", ".mp3", ".mp3"},
		{"trailing dot", "https://x.test/a.", ".jpg", ".jpg"},
		{"overlong suffix", "https://x.test/a.backup1234", ".mp4", ".mp4"},
		{"unparseable", "://nope", ".jpg", ".jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtFromURL(tt.url, tt.fallback); got != tt.want {
				t.Errorf("ExtFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	if got := lerp(5, 35, 0, 2); got != 5 {
		t.Errorf("lerp start = %d, want 5", got)
	}
	if got := lerp(5, 35, 1, 2); got != 20 {
		t.Errorf("lerp mid = %d, want 20", got)
	}
	if got := lerp(5, 35, 2, 2); got != 35 {
		t.Errorf("lerp end = %d, want 35", got)
	}
	if got := lerp(5, 35, 0, 0); got != 35 {
		t.Errorf("lerp empty = %d, want 35", got)
	}
}
