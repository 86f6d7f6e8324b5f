package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agentreg/internal/payment/models"
	"agentreg/internal/payment/service"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/httputil"
	"agentreg/pkg/requestcontext"
)

const maxCallbackBytes = 16 << 10

// Service defines the payment operations exposed over HTTP.
type Service interface {
	Initiate(ctx context.Context, appID id.ApplicationID) (*service.Checkout, error)
	HandleCallback(ctx context.Context, body []byte) (*models.Payment, error)
	List(ctx context.Context, appID id.ApplicationID) ([]*models.Payment, error)
}

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

func (h *Handler) RegisterApplicant(r chi.Router) {
	r.Post("/applications/{id}/payments", h.HandleInitiate)
	r.Get("/applications/{id}/payments", h.HandleList)
}

// RegisterGateway mounts the callback. It carries no session; the body hash
// authenticates the sender.
func (h *Handler) RegisterGateway(r chi.Router) {
	r.Post("/payments/callback", h.HandleCallback)
}

// HandleInitiate handles POST /applications/{id}/payments.
func (h *Handler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	checkout, err := h.service.Initiate(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, CheckoutResponse{
		Payment:     FromPayment(checkout.Payment),
		RedirectURL: checkout.RedirectURL,
	})
}

// HandleList handles GET /applications/{id}/payments.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	payments, err := h.service.List(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := ListResponse{Payments: make([]PaymentResponse, 0, len(payments))}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, FromPayment(p))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleCallback handles POST /payments/callback.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCallbackBytes))
	if err != nil {
		msg := "unreadable callback body"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			msg = "callback body too large"
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, msg))
		return
	}

	payment, err := h.service.HandleCallback(ctx, body)
	if err != nil {
		h.logger.WarnContext(ctx, "payment callback failed",
			"request_id", requestID,
			"code", string(dErrors.CodeOf(err)),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPayment(payment))
}
