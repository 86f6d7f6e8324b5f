package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"agentreg/internal/application/eligibility"
	"agentreg/internal/application/models"
	"agentreg/internal/application/service"
	docmodels "agentreg/internal/documents/models"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/httputil"
	"agentreg/pkg/requestcontext"
)

// Service defines the application lifecycle operations exposed over HTTP.
type Service interface {
	EvaluateIndividual(ctx context.Context, profile models.IndividualProfile) eligibility.Result
	EvaluateOrganization(ctx context.Context, profile models.OrganizationProfile, uploaded []docmodels.DocType) (eligibility.Result, error)
	StartIndividual(ctx context.Context, profile models.IndividualProfile) (*service.StartResult, error)
	StartOrganization(ctx context.Context, profile models.OrganizationProfile) (*service.StartResult, error)
	Get(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	Requirements(ctx context.Context, appID id.ApplicationID) (*service.Requirements, error)
	Submit(ctx context.Context, appID id.ApplicationID, comment string) (*models.Application, error)
	Withdraw(ctx context.Context, appID id.ApplicationID, reason string) (*models.Application, error)
	Transition(ctx context.Context, appID id.ApplicationID, target models.Status, comment string) (*models.Application, error)
	Decide(ctx context.Context, appID id.ApplicationID, outcome models.DecisionOutcome, reasons []string) (*service.DecisionResult, error)
	Expire(ctx context.Context, appID id.ApplicationID, reason string) (*models.Application, error)
	History(ctx context.Context, appID id.ApplicationID) ([]models.StatusHistory, error)
	Decisions(ctx context.Context, appID id.ApplicationID) ([]models.RegistryDecision, error)
}

// SessionIssuer mints the applicant bearer token returned when an
// application is started.
type SessionIssuer interface {
	IssueSession(ctx context.Context, appID id.ApplicationID, email string) (string, time.Time, error)
}

// Handler wires application endpoints to the lifecycle service.
type Handler struct {
	service  Service
	sessions SessionIssuer
	logger   *slog.Logger
}

// New constructs an application handler with its dependencies.
func New(service Service, sessions SessionIssuer, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

// RegisterPublic mounts the unauthenticated eligibility and start endpoints.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/eligibility/individual", h.HandleEvaluateIndividual)
	r.Post("/eligibility/organization", h.HandleEvaluateOrganization)
	r.Post("/applications/individual", h.HandleStartIndividual)
	r.Post("/applications/organization", h.HandleStartOrganization)
}

// RegisterApplicant mounts endpoints that require a resume session bound to
// the {id} in the path.
func (h *Handler) RegisterApplicant(r chi.Router) {
	r.Get("/applications/{id}", h.HandleGet)
	r.Get("/applications/{id}/requirements", h.HandleRequirements)
	r.Post("/applications/{id}/submit", h.HandleSubmit)
	r.Post("/applications/{id}/withdraw", h.HandleWithdraw)
}

// RegisterAdmin mounts staff endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/applications/{id}", h.HandleGet)
	r.Get("/admin/applications/{id}/history", h.HandleHistory)
	r.Post("/admin/applications/{id}/transition", h.HandleTransition)
	r.Post("/admin/applications/{id}/decision", h.HandleDecision)
	r.Post("/admin/applications/{id}/expire", h.HandleExpire)
}

// HandleEvaluateIndividual handles POST /eligibility/individual.
func (h *Handler) HandleEvaluateIndividual(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IndividualRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.EvaluateIndividual(ctx, req.Profile()))
}

// HandleEvaluateOrganization handles POST /eligibility/organization.
func (h *Handler) HandleEvaluateOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[OrganizationEligibilityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.EvaluateOrganization(ctx, req.Profile(), req.ParsedUploaded())
	if err != nil {
		h.logger.ErrorContext(ctx, "organization eligibility failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleStartIndividual handles POST /applications/individual.
func (h *Handler) HandleStartIndividual(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IndividualRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.StartIndividual(ctx, req.Profile())
	h.writeStarted(ctx, w, res, err)
}

// HandleStartOrganization handles POST /applications/organization.
func (h *Handler) HandleStartOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[OrganizationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.StartOrganization(ctx, req.Profile())
	h.writeStarted(ctx, w, res, err)
}

func (h *Handler) writeStarted(ctx context.Context, w http.ResponseWriter, res *service.StartResult, err error) {
	requestID := requestcontext.RequestID(ctx)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotEligible) {
			h.logger.ErrorContext(ctx, "start application failed", "request_id", requestID, "error", err)
		}
		httputil.WriteError(w, err)
		return
	}

	app := res.Application
	token, expiresAt, err := h.sessions.IssueSession(ctx, app.ID, app.ApplicantEmail)
	if err != nil {
		// The draft exists; the applicant can still resume by one-time code.
		h.logger.ErrorContext(ctx, "failed to issue resume session",
			"request_id", requestID,
			"application_id", app.ID.String(),
			"error", err,
		)
	}
	httputil.WriteJSON(w, http.StatusCreated, &StartResponse{
		Application:      FromApplication(app),
		Eligibility:      res.Eligibility,
		SessionToken:     token,
		SessionExpiresAt: optionalTime(expiresAt),
	})
}

// HandleGet handles GET /applications/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}
	app, err := h.service.Get(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleRequirements handles GET /applications/{id}/requirements.
func (h *Handler) HandleRequirements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}
	reqs, err := h.service.Requirements(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reqs)
}

// HandleSubmit handles POST /applications/{id}/submit.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}
	req, ok := decodeOptional[CommentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	app, err := h.service.Submit(ctx, appID, req.Comment)
	if err != nil {
		h.logger.WarnContext(ctx, "submission rejected",
			"request_id", requestID,
			"application_id", appID.String(),
			"code", string(dErrors.CodeOf(err)),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleWithdraw handles POST /applications/{id}/withdraw.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}
	req, ok := decodeOptional[CommentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	app, err := h.service.Withdraw(ctx, appID, req.Comment)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleTransition handles POST /admin/applications/{id}/transition.
func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransitionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	app, err := h.service.Transition(ctx, appID, req.ParsedStatus(), req.Comment)
	if err != nil {
		h.logger.WarnContext(ctx, "transition rejected",
			"request_id", requestID,
			"application_id", appID.String(),
			"target", req.Status,
			"code", string(dErrors.CodeOf(err)),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleDecision handles POST /admin/applications/{id}/decision.
func (h *Handler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DecisionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Decide(ctx, appID, req.ParsedOutcome(), req.Reasons)
	if err != nil {
		h.logger.WarnContext(ctx, "decision rejected",
			"request_id", requestID,
			"application_id", appID.String(),
			"code", string(dErrors.CodeOf(err)),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDecision(res))
}

// HandleExpire handles POST /admin/applications/{id}/expire.
func (h *Handler) HandleExpire(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}
	req, ok := decodeOptional[CommentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	app, err := h.service.Expire(ctx, appID, req.Comment)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleHistory handles GET /admin/applications/{id}/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}
	rows, err := h.service.History(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	decisions, err := h.service.Decisions(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &HistoryResponse{History: rows, Decisions: decisions})
}

func parseAppID(w http.ResponseWriter, r *http.Request) (id.ApplicationID, bool) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return appID, true
}

// decodeOptional decodes a body only when one was sent.
func decodeOptional[T any, PT interface {
	*T
	httputil.Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	if r.Body == nil || r.ContentLength == 0 {
		return PT(new(T)), true
	}
	return httputil.DecodeAndPrepare[T, PT](w, r, logger, ctx, requestID)
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
