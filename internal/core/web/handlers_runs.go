package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/seckatie/urlrota/internal/core"
	"github.com/seckatie/urlrota/internal/logger"
)

var validate = validator.New()

type startRunRequest struct {
	Domain     string `json:"domain"`
	Count      int    `json:"count" validate:"gt=0"`
	Order      string `json:"order" validate:"omitempty,oneof=id sampled newest oldest"`
	Browser    string `json:"browser" validate:"required"`
	MinSeconds *int   `json:"min_seconds" validate:"omitempty,gte=0,lte=86400"`
	MaxSeconds *int   `json:"max_seconds" validate:"omitempty,gte=0,lte=86400"`
}

// handleStartRun samples a batch and starts it in the background.
func (ws *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var req startRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeError(w, fmt.Errorf("%w: malformed request body: %v", core.ErrInvalidInput, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			err = fmt.Errorf("%s failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		ws.writeError(w, fmt.Errorf("%w: %v", core.ErrInvalidInput, err))
		return
	}

	pacing := ws.pacing
	if req.MinSeconds != nil {
		pacing.MinSeconds = *req.MinSeconds
	}
	if req.MaxSeconds != nil {
		pacing.MaxSeconds = *req.MaxSeconds
	}
	order := req.Order
	if order == "" {
		order = ws.defaultOrder
	}

	browser, err := ws.db.GetBrowserByName(req.Browser)
	if err != nil {
		ws.writeError(w, err)
		return
	}
	candidates, err := ws.db.ListCandidates(req.Domain)
	if err != nil {
		ws.writeError(w, err)
		return
	}
	sampled, err := ws.sampler.Sample(candidates, req.Count)
	if err != nil {
		ws.writeError(w, err)
		return
	}
	batch, mode, err := core.PrepareBatch(sampled, order)
	if err != nil {
		ws.writeError(w, err)
		return
	}

	run, err := ws.runs.Start(ws.baseCtx, core.OpenRequest{
		Batch:    batch,
		Ordering: mode,
		Browser:  browser,
		Pacing:   pacing,
	})
	if err != nil {
		ws.writeError(w, err)
		return
	}
	ws.log.Info("batch run started over http",
		logger.String("run_id", run.ID),
		logger.String("domain", req.Domain),
		logger.Int("count", len(batch)))

	snap, _ := ws.runs.Current()
	ws.writeJSON(w, http.StatusAccepted, snap)
}

func (ws *Server) handleCurrentRun(w http.ResponseWriter, _ *http.Request) {
	snap, ok := ws.runs.Current()
	if !ok {
		ws.writeJSON(w, http.StatusNotFound, errorResponse{Error: "no run yet"})
		return
	}
	ws.writeJSON(w, http.StatusOK, snap)
}

func (ws *Server) handleCancelRun(w http.ResponseWriter, _ *http.Request) {
	if !ws.runs.Cancel() {
		ws.writeJSON(w, http.StatusNotFound, errorResponse{Error: "no active run"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
