package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"agentreg/internal/resume/service"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/httputil"
	"agentreg/pkg/requestcontext"
)

// Service defines the save-and-resume operations exposed over HTTP.
type Service interface {
	RequestCode(ctx context.Context, appID id.ApplicationID, email string) error
	Verify(ctx context.Context, appID id.ApplicationID, email, code string) (*service.Session, error)
}

// Handler serves the unauthenticated resume endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/resume/otp", h.HandleRequestCode)
	r.Post("/resume/verify", h.HandleVerify)
}

// HandleRequestCode handles POST /resume/otp. The response is identical
// whether or not a code was actually sent.
func (h *Handler) HandleRequestCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[CodeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.RequestCode(ctx, req.appID, req.Email); err != nil {
		h.logger.ErrorContext(ctx, "resume code request failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, CodeResponse{
		Message: "If the details match an application, a code has been emailed.",
	})
}

// HandleVerify handles POST /resume/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.service.Verify(ctx, req.appID, req.Email, req.Code)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal || dErrors.CodeOf(err) == dErrors.CodeUnavailable {
			h.logger.ErrorContext(ctx, "resume verification failed",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SessionResponse{
		ApplicationID: session.ApplicationID.String(),
		SessionToken:  session.Token,
		ExpiresAt:     session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
