package diagnoser

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/clusterops/runbook/pkg/collector"
	rberrors "github.com/clusterops/runbook/pkg/errors"
	"github.com/clusterops/runbook/pkg/fact"
	"github.com/clusterops/runbook/pkg/rule"
	"github.com/clusterops/runbook/pkg/serializer"
	"github.com/clusterops/runbook/pkg/server"
)

// DiagnoseRequest is the POST /v1/diagnose payload. Callers either supply
// the fact bundle directly or name a live resource to collect it from.
type DiagnoseRequest struct {
	Kind      string         `json:"kind"`
	Namespace string         `json:"namespace,omitempty"`
	Name      string         `json:"name,omitempty"`
	Facts     map[string]any `json:"facts,omitempty"`
}

// HandleDiagnose handles POST /v1/diagnose.
func (s *Service) HandleDiagnose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		server.WriteError(w, r, http.StatusMethodNotAllowed,
			server.ErrCodeMethodNotAllowed, "use POST", false, nil)
		return
	}

	var req DiagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, r, http.StatusBadRequest,
			server.ErrCodeInvalidRequest, "invalid request body: "+err.Error(), false, nil)
		return
	}

	kind, _ := rule.ParseKind(req.Kind)

	switch {
	case len(req.Facts) > 0:
		facts := make(fact.Bundle, len(req.Facts))
		for k, raw := range req.Facts {
			v, err := fact.FromAny(raw)
			if err != nil {
				server.WriteError(w, r, http.StatusBadRequest,
					server.ErrCodeInvalidRequest, "fact "+k+": "+err.Error(), false, nil)
				return
			}
			facts[k] = v
		}

		d, err := s.Diagnose(r.Context(), kind, facts)
		if err != nil {
			writeDiagnoseError(w, r, err)
			return
		}
		serializer.RespondJSON(w, http.StatusOK, d)

	case req.Name != "":
		ref := collector.Ref{Namespace: req.Namespace, Name: req.Name}
		d, err := s.DiagnoseResource(r.Context(), kind, ref)
		if err != nil {
			writeDiagnoseError(w, r, err)
			return
		}
		serializer.RespondJSON(w, http.StatusOK, d)

	default:
		server.WriteError(w, r, http.StatusBadRequest,
			server.ErrCodeInvalidRequest, "either facts or a resource name is required", false, nil)
	}
}

func writeDiagnoseError(w http.ResponseWriter, r *http.Request, err error) {
	code := rberrors.CodeOf(err)
	switch code {
	case rberrors.ErrCodeUnknownKind:
		server.WriteError(w, r, http.StatusBadRequest,
			server.ErrCodeUnknownKind, err.Error(), false, nil)
	case rberrors.ErrCodeCollectionFailed:
		// Evidence gathering failed upstream; the engine does not retry,
		// the caller may.
		server.WriteError(w, r, http.StatusBadGateway,
			server.ErrCodeCollectionFailed, err.Error(), true, nil)
	default:
		slog.Error("diagnosis failed", "error", err)
		server.WriteError(w, r, http.StatusInternalServerError,
			server.ErrCodeInternalError, "diagnosis failed", false, nil)
	}
}
