package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agentreg/internal/documents/models"
	"agentreg/internal/documents/service"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/httputil"
	"agentreg/pkg/requestcontext"
)

// Service defines the document operations exposed over HTTP.
type Service interface {
	Upload(ctx context.Context, appID id.ApplicationID, req service.UploadRequest) (*service.UploadResult, error)
	UploadBatch(ctx context.Context, appID id.ApplicationID, reqs []service.UploadRequest) ([]service.BatchItem, error)
	List(ctx context.Context, appID id.ApplicationID) ([]*models.Document, error)
	Verify(ctx context.Context, docID id.DocumentID, status models.Status, reason string) (*models.Document, error)
}

// Handler wires document endpoints to the document service.
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

// RegisterApplicant mounts endpoints that require a resume session bound to
// the {id} in the path.
func (h *Handler) RegisterApplicant(r chi.Router) {
	r.Post("/applications/{id}/documents", h.HandleUpload)
	r.Post("/applications/{id}/documents/batch", h.HandleUploadBatch)
	r.Get("/applications/{id}/documents", h.HandleList)
}

// RegisterAdmin mounts staff endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/applications/{id}/documents", h.HandleList)
	r.Post("/admin/documents/{docID}/verify", h.HandleVerify)
}

// HandleUpload handles POST /applications/{id}/documents.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UploadRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Upload(ctx, appID, req.ToService())
	if err != nil {
		h.logFailure(ctx, "document upload rejected", appID, err)
		httputil.WriteError(w, err)
		return
	}
	status := http.StatusCreated
	if res.Replaced {
		status = http.StatusOK
	}
	httputil.WriteJSON(w, status, FromUpload(res))
}

// HandleUploadBatch handles POST /applications/{id}/documents/batch.
func (h *Handler) HandleUploadBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	items, err := h.service.UploadBatch(ctx, appID, req.ToService())
	if err != nil {
		h.logFailure(ctx, "batch upload rejected", appID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromBatch(items))
}

// HandleList handles GET /applications/{id}/documents.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}
	docs, err := h.service.List(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDocuments(docs))
}

// HandleVerify handles POST /admin/documents/{docID}/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	docID, err := id.ParseDocumentID(chi.URLParam(r, "docID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	doc, err := h.service.Verify(ctx, docID, req.ParsedStatus(), req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDocument(doc))
}

func (h *Handler) logFailure(ctx context.Context, msg string, appID id.ApplicationID, err error) {
	code := dErrors.CodeOf(err)
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"application_id", appID.String(),
		"code", string(code),
	}
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, append(attrs, "error", err)...)
		return
	}
	h.logger.WarnContext(ctx, msg, attrs...)
}

func parseAppID(w http.ResponseWriter, r *http.Request) (id.ApplicationID, bool) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return appID, true
}
