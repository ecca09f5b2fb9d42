// Package worker runs render jobs asynchronously behind the HTTP surface.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
	"github.com/josmany3000/Render-videos04/internal/plan"
	"github.com/josmany3000/Render-videos04/internal/registry"
	"github.com/josmany3000/Render-videos04/internal/worker/processor"
)

// Dispatcher accepts render requests, creates their registry entries and
// runs each job on its own goroutine. Submission never blocks on
// processing.
type Dispatcher struct {
	registry  registry.Store
	processor *processor.Processor
	log       *logger.Logger
	wg        sync.WaitGroup
}

func NewDispatcher(store registry.Store, proc *processor.Processor, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		registry:  store,
		processor: proc,
		log:       log.WithComponent("dispatcher"),
	}
}

// Dispatch registers a new job and starts processing it in the background,
// returning the job ID immediately. The job runs on a detached context so
// it survives the submitting request.
func (d *Dispatcher) Dispatch(ctx context.Context, req plan.Request) (string, error) {
	jobID, err := d.registry.Create(ctx)
	if err != nil {
		return "", fmt.Errorf("create job entry: %w", err)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		jobCtx := logger.ContextWithJobID(context.Background(), jobID)
		defer d.recoverJob(jobCtx, jobID)
		d.processor.ProcessJob(jobCtx, jobID, req)
	}()

	d.log.FromContext(ctx).Info("job dispatched", "job_id", jobID, "scenes", len(req.Scenes))
	return jobID, nil
}

// Drain blocks until every in-flight job has finished or ctx expires.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain interrupted: %w", ctx.Err())
	}
}

// recoverJob converts a processing panic into a terminal error state so a
// single bad job cannot take the service down.
func (d *Dispatcher) recoverJob(ctx context.Context, jobID string) {
	r := recover()
	if r == nil {
		return
	}
	d.log.FromContext(ctx).Error("job panicked", "panic", fmt.Sprintf("%v", r))
	d.registry.Update(ctx, jobID, registry.Update{
		Status: registry.StatusOf(registry.StatusError),
		Error:  registry.StringOf(fmt.Sprintf("internal failure: %v", r)),
	})
}
