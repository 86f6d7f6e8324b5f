package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	appmodels "agentreg/internal/application/models"
	"agentreg/internal/blob"
	"agentreg/internal/documents/models"
	"agentreg/internal/documents/validator"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/sentinel"
	"agentreg/pkg/requestcontext"
)

// UploadRequest describes a file the client already put into blob storage.
type UploadRequest struct {
	DocType      models.DocType
	StorageKey   string
	FileName     string
	DeclaredType string
}

// UploadResult is a registered document with its validation report.
type UploadResult struct {
	Document   *models.Document `json:"document"`
	Validation validator.Result `json:"validation"`
	Replaced   bool             `json:"replaced"`
}

// Upload validates and registers one document for an application.
func (s *Service) Upload(ctx context.Context, appID id.ApplicationID, req UploadRequest) (*UploadResult, error) {
	ctx, span := s.tracer.Start(ctx, "documents.upload")
	span.SetAttributes(
		attribute.String("application.id", appID.String()),
		attribute.String("document.type", req.DocType.String()),
	)
	defer span.End()

	app, err := s.uploadTarget(ctx, appID, req.DocType)
	if err != nil {
		return nil, err
	}
	res, err := s.fetchAndValidate(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}
	out, err := s.register(ctx, app, req, res)
	if err != nil {
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}
	return out, nil
}

// BatchItem is the outcome of one file in a batch. Exactly one of Result and
// Error is set.
type BatchItem struct {
	Index  int            `json:"index"`
	Result *UploadResult  `json:"result,omitempty"`
	Error  *dErrors.Error `json:"-"`
}

// UploadBatch validates every file concurrently, then registers the valid
// ones in request order. Registration stays sequential so singleton
// replacement and fee proof linking behave exactly as for single uploads.
func (s *Service) UploadBatch(ctx context.Context, appID id.ApplicationID, reqs []UploadRequest) ([]BatchItem, error) {
	if len(reqs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one document is required")
	}
	ctx, span := s.tracer.Start(ctx, "documents.upload_batch")
	span.SetAttributes(
		attribute.String("application.id", appID.String()),
		attribute.Int("batch.size", len(reqs)),
	)
	defer span.End()

	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !app.Status.AcceptsApplicantChanges() {
		return nil, closedForUploads(app)
	}

	validations := make([]validator.Result, len(reqs))
	fetchErrs := make([]error, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for n, req := range reqs {
		g.Go(func() error {
			if !req.DocType.AllowedFor(app.Kind) {
				fetchErrs[n] = notAllowedFor(req.DocType, app.Kind)
				return nil
			}
			res, err := s.fetchAndValidate(gctx, req)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				fetchErrs[n] = err
				return nil
			}
			validations[n] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "batch validation aborted")
	}

	items := make([]BatchItem, len(reqs))
	for n, req := range reqs {
		items[n].Index = n
		if fetchErrs[n] != nil {
			items[n].Error = asDomainError(fetchErrs[n])
			continue
		}
		out, err := s.register(ctx, app, req, validations[n])
		if err != nil {
			items[n].Error = asDomainError(err)
			continue
		}
		items[n].Result = out
		if req.DocType == models.DocApplicationFeePOP {
			// Later items must see the linked proof.
			if refreshed, err := s.apps.Get(ctx, appID); err == nil {
				app = refreshed
			}
		}
	}
	return items, nil
}

func (s *Service) uploadTarget(ctx context.Context, appID id.ApplicationID, docType models.DocType) (*appmodels.Application, error) {
	if !docType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown document type: "+docType.String())
	}
	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !app.Status.AcceptsApplicantChanges() {
		return nil, closedForUploads(app)
	}
	if !docType.AllowedFor(app.Kind) {
		return nil, notAllowedFor(docType, app.Kind)
	}
	return app, nil
}

// fetchAndValidate is free of shared state and safe to run concurrently.
func (s *Service) fetchAndValidate(ctx context.Context, req UploadRequest) (validator.Result, error) {
	start := time.Now()
	if s.metrics != nil {
		defer s.metrics.ObserveValidation(start)
	}

	key, err := blob.CleanKey(req.StorageKey)
	if err != nil {
		return validator.Result{}, dErrors.New(dErrors.CodeInvalidInput, "invalid storage key")
	}
	data, err := s.blobs.Fetch(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return validator.Result{}, dErrors.New(dErrors.CodeValidation, "no uploaded file found for storage key")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return validator.Result{}, ctxErr
		}
		return validator.Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "blob storage unavailable")
	}

	res := s.validator.Validate(validator.Input{
		Data:         data,
		FileName:     req.FileName,
		DeclaredType: req.DeclaredType,
		DocType:      req.DocType,
	})
	if !res.IsValid {
		if s.metrics != nil {
			s.metrics.IncrementValidationFailure(req.DocType.String())
		}
		s.logAudit(ctx, "document_validation_failed",
			"doc_type", req.DocType.String(),
			"errors", strings.Join(res.Errors, "; "),
		)
		return res, dErrors.New(dErrors.CodeValidation, "uploaded file failed validation").
			WithDetails(map[string]any{
				"errors":    res.Errors,
				"warnings":  res.Warnings,
				"file_info": res.FileInfo,
			})
	}
	return res, nil
}

// register persists a validated document. The store's hash constraint is
// the only uniqueness check, so concurrent identical uploads cannot both
// succeed.
func (s *Service) register(ctx context.Context, app *appmodels.Application, req UploadRequest, res validator.Result) (*UploadResult, error) {
	if err := s.refuseRejectedContent(ctx, res.FileInfo.Hash); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	doc := &models.Document{
		ID:              id.NewDocumentID(),
		ApplicationID:   app.ID,
		ApplicationKind: app.Kind,
		DocType:         req.DocType,
		FileName:        strings.TrimSpace(req.FileName),
		StorageKey:      req.StorageKey,
		ContentType:     res.FileInfo.DetectedType,
		SizeBytes:       res.FileInfo.Size,
		ContentHash:     res.FileInfo.Hash,
		Status:          models.StatusUploaded,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	saved, err := s.docs.Save(ctx, doc)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return s.handleDuplicate(ctx, app, res)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register document")
	}
	replaced := saved.ID != doc.ID

	if saved.DocType == models.DocApplicationFeePOP {
		if _, err := s.apps.AttachFeeProof(ctx, app.ID, saved.ID); err != nil {
			return nil, err
		}
	}

	s.logAudit(ctx, "document_registered",
		"application_id", app.ID.String(),
		"document_id", saved.ID.String(),
		"doc_type", saved.DocType.String(),
		"content_hash", saved.ContentHash,
		"replaced", replaced,
	)
	if s.metrics != nil {
		s.metrics.IncrementUpload(saved.DocType.String(), replaced)
	}
	return &UploadResult{Document: saved, Validation: res, Replaced: replaced}, nil
}

// handleDuplicate reports the owner of identical content. A proof of payment
// re-sent after its fee link failed is re-linked instead, unless staff
// rejected it.
func (s *Service) handleDuplicate(ctx context.Context, app *appmodels.Application, res validator.Result) (*UploadResult, error) {
	existing, err := s.docs.FindByHash(ctx, res.FileInfo.Hash)
	if err != nil {
		// The owner vanished between the insert and the lookup.
		return nil, dErrors.New(dErrors.CodeConflict, "identical content was registered concurrently, retry the upload")
	}

	if existing.ApplicationID == app.ID && existing.DocType == models.DocApplicationFeePOP &&
		existing.Status != models.StatusRejected && app.Fee.ProofDocumentID == nil {
		if _, err := s.apps.AttachFeeProof(ctx, app.ID, existing.ID); err != nil {
			return nil, err
		}
		return &UploadResult{Document: existing, Validation: res}, nil
	}

	if s.metrics != nil {
		s.metrics.IncrementDuplicate()
	}
	s.logAudit(ctx, "document_duplicate_rejected",
		"application_id", app.ID.String(),
		"existing_application_id", existing.ApplicationID.String(),
		"existing_document_id", existing.ID.String(),
		"content_hash", res.FileInfo.Hash,
	)
	return nil, dErrors.New(dErrors.CodeDuplicateContent, "this file has already been uploaded").
		WithDetails(map[string]any{
			"application_id": existing.ApplicationID.String(),
			"doc_type":       existing.DocType.String(),
			"file_name":      existing.FileName,
		})
}

// refuseRejectedContent stops a file staff rejected from coming back as a
// singleton replacement of itself.
func (s *Service) refuseRejectedContent(ctx context.Context, hash string) error {
	prior, err := s.docs.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check content hash")
	}
	if prior.Status != models.StatusRejected {
		return nil
	}
	return dErrors.New(dErrors.CodeDuplicateContent, "this file was rejected during review, upload a corrected copy").
		WithDetails(map[string]any{
			"application_id": prior.ApplicationID.String(),
			"doc_type":       prior.DocType.String(),
			"file_name":      prior.FileName,
			"reason":         prior.ReviewReason,
		})
}

func closedForUploads(app *appmodels.Application) error {
	return dErrors.New(dErrors.CodeInvalidState,
		"documents cannot be uploaded while the application is "+app.Status.String())
}

func notAllowedFor(docType models.DocType, kind id.ApplicationKind) error {
	return dErrors.New(dErrors.CodeInvalidInput,
		"document type "+docType.String()+" is not accepted for "+kind.String()+" applications")
}

func asDomainError(err error) *dErrors.Error {
	if de, ok := dErrors.As(err); ok {
		return de
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
}
