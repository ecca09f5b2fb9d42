package handlers

import (
	"net/http"

	"github.com/josmany3000/Render-videos04/internal/httpkit"
	"github.com/josmany3000/Render-videos04/internal/pkg/errors"
	"github.com/josmany3000/Render-videos04/internal/plan"
)

// PostGenerateVideoJSON translates a render request into a full edit plan
// document without rendering anything. Useful for previewing the timeline
// a request would produce.
func (h *Handlers) PostGenerateVideoJSON(w http.ResponseWriter, r *http.Request) error {
	var req plan.Request
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		return errors.WrapWithCode(err, errors.CodeBadRequest, "httpapi.plan", "invalid JSON body")
	}
	if len(req.Scenes) == 0 {
		return errors.Validation("scenes is required and must not be empty")
	}

	req.Normalize()

	httpkit.WriteJSON(w, http.StatusOK, plan.BuildEditPlan(req))
	return nil
}
