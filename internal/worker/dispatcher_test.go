package worker

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
	"github.com/josmany3000/Render-videos04/internal/plan"
	"github.com/josmany3000/Render-videos04/internal/ports"
	"github.com/josmany3000/Render-videos04/internal/registry"
	"github.com/josmany3000/Render-videos04/internal/worker/processor"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("bytes")), nil
}

type stubMedia struct {
	panicOnBuild bool
	delay        time.Duration
}

func (m stubMedia) BuildClip(_ context.Context, spec ports.ClipSpec) (ports.Clip, error) {
	if m.panicOnBuild {
		panic("codec blew up")
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if err := os.WriteFile(spec.OutputPath, []byte("clip"), 0o644); err != nil {
		return ports.Clip{}, err
	}
	return ports.Clip{Path: spec.OutputPath, Duration: spec.Duration}, nil
}

func (m stubMedia) Concat(_ context.Context, _ []ports.Clip, outputPath string) error {
	return os.WriteFile(outputPath, []byte("final"), 0o644)
}

type stubStorage struct{}

func (stubStorage) Provider() string { return "stub" }

func (stubStorage) PutObject(_ context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	if _, err := io.Copy(io.Discard, in.Reader); err != nil {
		return ports.PutObjectOutput{}, err
	}
	return ports.PutObjectOutput{ObjectKey: in.ObjectKey, PublicURL: "https://cdn.test/" + in.ObjectKey}, nil
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

func oneSceneRequest() plan.Request {
	req := plan.Request{
		Scenes: []plan.Scene{{
			Script:   "hello",
			Duration: 2,
			Media:    []plan.MediaItem{{URL: "https://assets.test/a.jpg", Type: "image"}},
		}},
	}
	req.Normalize()
	return req
}

func newDispatcher(t *testing.T, store registry.Store, media ports.MediaEngine) *Dispatcher {
	t.Helper()
	log := quietLogger()
	proc := processor.New(processor.Deps{
		Registry: store,
		Fetcher:  stubFetcher{},
		Media:    media,
		Storage:  stubStorage{},
		WorkRoot: t.TempDir(),
		Log:      log,
	})
	return NewDispatcher(store, proc, log)
}

func waitTerminal(t *testing.T, store registry.Store, id string) registry.JobState {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		if state, ok := store.Get(context.Background(), id); ok && state.Status.Terminal() {
			return state
		}
		select {
		case <-deadline:
			t.Fatalf("job %s never reached a terminal state", id)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestDispatchReturnsImmediatelyQueryableJob(t *testing.T) {
	mem := registry.NewMemory()
	d := newDispatcher(t, mem, stubMedia{delay: 50 * time.Millisecond})

	id, err := d.Dispatch(context.Background(), oneSceneRequest())
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if id == "" {
		t.Fatal("empty job ID")
	}

	// The entry must exist before the pipeline finishes.
	state, ok := mem.Get(context.Background(), id)
	if !ok {
		t.Fatal("job not queryable right after dispatch")
	}
	if state.Status.Terminal() {
		t.Skip("job finished before the snapshot, nothing to assert")
	}
	if state.Status != registry.StatusPending && state.Status != registry.StatusProcessing {
		t.Errorf("early status = %q", state.Status)
	}

	final := waitTerminal(t, mem, id)
	if final.Status != registry.StatusCompleted {
		t.Errorf("final status = %q (error: %q)", final.Status, final.Error)
	}
}

func TestDispatchConcurrentJobs(t *testing.T) {
	mem := registry.NewMemory()
	d := newDispatcher(t, mem, stubMedia{delay: 10 * time.Millisecond})

	const n = 8
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := d.Dispatch(context.Background(), oneSceneRequest())
			if err != nil {
				t.Errorf("Dispatch %d: %v", i, err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		if id == "" {
			continue
		}
		if seen[id] {
			t.Fatalf("duplicate job ID %s", id)
		}
		seen[id] = true
		state := waitTerminal(t, mem, id)
		if state.Status != registry.StatusCompleted {
			t.Errorf("job %s status = %q (error: %q)", id, state.Status, state.Error)
		}
	}
}

func TestDispatchPanicBecomesJobError(t *testing.T) {
	mem := registry.NewMemory()
	d := newDispatcher(t, mem, stubMedia{panicOnBuild: true})

	id, err := d.Dispatch(context.Background(), oneSceneRequest())
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	state := waitTerminal(t, mem, id)
	if state.Status != registry.StatusError {
		t.Fatalf("status = %q, want error", state.Status)
	}
	if !strings.Contains(state.Error, "codec blew up") {
		t.Errorf("error = %q, want panic value preserved", state.Error)
	}
}

func TestDrainWaitsForInFlightJobs(t *testing.T) {
	mem := registry.NewMemory()
	d := newDispatcher(t, mem, stubMedia{delay: 30 * time.Millisecond})

	id, err := d.Dispatch(context.Background(), oneSceneRequest())
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	state, _ := mem.Get(context.Background(), id)
	if !state.Status.Terminal() {
		t.Errorf("job not terminal after drain: %q", state.Status)
	}
}

func TestDrainHonorsDeadline(t *testing.T) {
	mem := registry.NewMemory()
	d := newDispatcher(t, mem, stubMedia{delay: 500 * time.Millisecond})

	if _, err := d.Dispatch(context.Background(), oneSceneRequest()); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := d.Drain(ctx); err == nil {
		t.Fatal("Drain should report the exceeded deadline")
	}
}
