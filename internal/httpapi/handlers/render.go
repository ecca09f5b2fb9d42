package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/josmany3000/Render-videos04/internal/httpkit"
	"github.com/josmany3000/Render-videos04/internal/pkg/errors"
	"github.com/josmany3000/Render-videos04/internal/plan"
)

// PostRenderVideo accepts a render request, queues it and answers with the
// job ID. Processing happens in the background; clients poll the status
// endpoint for progress and the final URL.
func (h *Handlers) PostRenderVideo(w http.ResponseWriter, r *http.Request) error {
	var req plan.Request
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		return errors.WrapWithCode(err, errors.CodeBadRequest, "httpapi.render", "invalid JSON body")
	}
	if len(req.Scenes) == 0 {
		return errors.Validation("scenes is required and must not be empty")
	}
	if plan.RenderableScenes(req.Scenes) == 0 {
		return errors.Validation("no scene carries a visual asset; nothing to render")
	}

	req.Normalize()

	jobID, err := h.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		return errors.Wrap(err, "httpapi.render", "failed to queue render job")
	}

	httpkit.WriteJSON(w, http.StatusAccepted, map[string]string{
		"message": "Render job accepted",
		"jobId":   jobID,
	})
	return nil
}

// GetJobStatus returns the current snapshot of a job.
func (h *Handlers) GetJobStatus(w http.ResponseWriter, r *http.Request) error {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		return errors.Validation("jobId is required")
	}

	state, ok := h.registry.Get(r.Context(), jobID)
	if !ok {
		return errors.NotFound("job", jobID)
	}

	httpkit.WriteJSON(w, http.StatusOK, state)
	return nil
}
