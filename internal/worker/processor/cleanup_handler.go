package processor

import (
	"context"
	"os"

	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
)

// CleanupHandler removes a job's working area once processing is finished,
// whatever the outcome. Failures are logged and never affect the job's
// terminal state.
type CleanupHandler struct {
	log *logger.Logger
}

func NewCleanupHandler(log *logger.Logger) *CleanupHandler {
	return &CleanupHandler{log: log.WithStage("cleanup")}
}

func (ch *CleanupHandler) Cleanup(ctx context.Context, workDir string) {
	if workDir == "" {
		return
	}
	if err := os.RemoveAll(workDir); err != nil {
		ch.log.FromContext(ctx).Warn("failed to remove working area",
			"dir", workDir,
			"error", err.Error(),
		)
		return
	}
	ch.log.FromContext(ctx).Debug("working area removed", "dir", workDir)
}
