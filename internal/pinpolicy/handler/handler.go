package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pinguard/internal/pinpolicy/service"
	"pinguard/pkg/platform/httputil"
	"pinguard/pkg/requestcontext"
)

// Service defines the interface for PIN policy operations.
type Service interface {
	Check(ctx context.Context, req service.CheckRequest) (*service.CheckResult, error)
	CheckBatch(ctx context.Context, reqs []service.CheckRequest) ([]*service.CheckResult, error)
	Policy() service.Policy
}

// Handler wires PIN policy endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a PIN policy handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts PIN policy endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/pin/strength", h.HandleCheck)
	r.Post("/pin/strength/batch", h.HandleCheckBatch)
	r.Get("/pin/policy", h.HandlePolicy)
}

// HandleCheck handles POST /pin/strength requests.
// Malformed PINs are not rejected: they come back STRONG with no reasons.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CheckStrengthRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Check(ctx, req.ToServiceRequest())
	if err != nil {
		h.logger.ErrorContext(ctx, "pin strength check failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "pin strength request served",
		"request_id", requestID,
		"strength", result.Verdict.Strength,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(req.Subject, result))
}

// HandleCheckBatch handles POST /pin/strength/batch requests.
func (h *Handler) HandleCheckBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	results, err := h.service.CheckBatch(ctx, req.ToServiceRequests())
	if err != nil {
		h.logger.ErrorContext(ctx, "pin batch check failed",
			"request_id", requestID,
			"items", len(req.Items),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "pin batch request served",
		"request_id", requestID,
		"items", len(results),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromBatch(req.Items, results))
}

// HandlePolicy handles GET /pin/policy requests.
func (h *Handler) HandlePolicy(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromPolicy(h.service.Policy()))
}
