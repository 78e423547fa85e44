// Package admin exposes operator endpoints for inspecting recent PIN checks.
package admin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "pinguard/pkg/domain-errors"
	audit "pinguard/pkg/platform/audit"
	"pinguard/pkg/platform/httputil"
	"pinguard/pkg/requestcontext"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// Handler serves the audit trail to operators.
type Handler struct {
	store  audit.Store
	logger *slog.Logger
}

func New(store audit.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register mounts admin endpoints on the router. Callers wrap r with the
// admin token middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/audit", h.HandleListAudit)
}

// HandleListAudit handles GET /admin/audit?subject=&limit=.
func (h *Handler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be between 1 and 1000"))
			return
		}
		limit = n
	}

	var (
		events []audit.Event
		err    error
	)
	if subject := r.URL.Query().Get("subject"); subject != "" {
		events, err = h.store.ListBySubject(ctx, subject)
		if len(events) > limit {
			events = events[len(events)-limit:]
		}
	} else {
		events, err = h.store.ListRecent(ctx, limit)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromEvents(events))
}
