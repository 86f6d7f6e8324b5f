package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"agentreg/internal/documents/handler/mocks"
	"agentreg/internal/documents/models"
	"agentreg/internal/documents/service"
	"agentreg/internal/documents/validator"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/requestcontext"
	"agentreg/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

func newTestHandler(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger)
	r := chi.NewRouter()
	h.RegisterApplicant(r)
	h.RegisterAdmin(r)
	return r, mockService
}

func post(router http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testDocument(appID id.ApplicationID, docType models.DocType) *models.Document {
	at := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	return &models.Document{
		ID:            id.NewDocumentID(),
		ApplicationID: appID,
		DocType:       docType,
		FileName:      "passport.pdf",
		StorageKey:    "uploads/secret/passport.pdf",
		ContentType:   "application/pdf",
		SizeBytes:     2048,
		ContentHash:   "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		Status:        models.StatusUploaded,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

func TestHandleUpload(t *testing.T) {
	appID := id.ApplicationID("IND-APP-2026-0001")

	t.Run("registers and hides the storage key", func(t *testing.T) {
		router, svc := newTestHandler(t)
		doc := testDocument(appID, models.DocIDOrPassport)
		svc.EXPECT().Upload(gomock.Any(), appID, service.UploadRequest{
			DocType:      models.DocIDOrPassport,
			StorageKey:   "uploads/secret/passport.pdf",
			FileName:     "passport.pdf",
			DeclaredType: "application/pdf",
		}).Return(&service.UploadResult{Document: doc, Validation: validator.Result{IsValid: true}}, nil)

		w := post(router, "/applications/IND-APP-2026-0001/documents", map[string]string{
			"doc_type":     "id_or_passport",
			"storage_key":  " uploads/secret/passport.pdf ",
			"file_name":    "passport.pdf",
			"content_type": "application/pdf",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.NotContains(t, w.Body.String(), "uploads/secret")

		var resp UploadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "National ID or passport", resp.Document.DisplayName)
		assert.False(t, resp.Replaced)
	})

	t.Run("replacement answers 200", func(t *testing.T) {
		router, svc := newTestHandler(t)
		doc := testDocument(appID, models.DocIDOrPassport)
		svc.EXPECT().Upload(gomock.Any(), appID, gomock.Any()).
			Return(&service.UploadResult{Document: doc, Replaced: true}, nil)

		w := post(router, "/applications/IND-APP-2026-0001/documents", map[string]string{
			"doc_type": "id_or_passport", "storage_key": "k/a.pdf", "file_name": "a.pdf",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("duplicate content is a conflict naming the owner", func(t *testing.T) {
		router, svc := newTestHandler(t)
		svc.EXPECT().Upload(gomock.Any(), appID, gomock.Any()).Return(nil,
			dErrors.New(dErrors.CodeDuplicateContent, "this file has already been uploaded").
				WithDetails(map[string]any{"application_id": "IND-APP-2026-0009", "doc_type": "o_level_cert", "file_name": "o.pdf"}))

		w := post(router, "/applications/IND-APP-2026-0001/documents", map[string]string{
			"doc_type": "o_level_cert", "storage_key": "k/o.pdf", "file_name": "o.pdf",
		})
		require.Equal(t, http.StatusConflict, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "duplicate_content", body["error"])
		assert.Equal(t, "IND-APP-2026-0009", body["details"].(map[string]any)["application_id"])
	})

	t.Run("unknown document type", func(t *testing.T) {
		router, _ := newTestHandler(t)
		w := post(router, "/applications/IND-APP-2026-0001/documents", map[string]string{
			"doc_type": "selfie", "storage_key": "k/s.png", "file_name": "s.png",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleUploadBatch(t *testing.T) {
	router, svc := newTestHandler(t)
	appID := id.ApplicationID("IND-APP-2026-0001")
	svc.EXPECT().UploadBatch(gomock.Any(), appID, gomock.Len(2)).Return([]service.BatchItem{
		{Index: 0, Result: &service.UploadResult{Document: testDocument(appID, models.DocIDOrPassport)}},
		{Index: 1, Error: dErrors.New(dErrors.CodeValidation, "uploaded file failed validation")},
	}, nil)

	w := post(router, "/applications/IND-APP-2026-0001/documents/batch", map[string]any{
		"documents": []map[string]string{
			{"doc_type": "id_or_passport", "storage_key": "k/id.pdf", "file_name": "id.pdf"},
			{"doc_type": "birth_certificate", "storage_key": "k/b.pdf", "file_name": "b.pdf"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Registered)
	assert.Equal(t, 1, resp.Failed)
	require.NotNil(t, resp.Items[1].Error)
	assert.Equal(t, "validation_error", resp.Items[1].Error.Error)
}

func TestHandleVerify(t *testing.T) {
	t.Run("records review", func(t *testing.T) {
		router, svc := newTestHandler(t)
		doc := testDocument("IND-APP-2026-0001", models.DocBirthCertificate)
		doc.Status = models.StatusRejected
		doc.ReviewReason = "illegible"
		svc.EXPECT().Verify(gomock.Any(), doc.ID, models.StatusRejected, "illegible").Return(doc, nil)

		w := post(router, "/admin/documents/"+doc.ID.String()+"/verify", map[string]string{
			"status": "rejected", "reason": "illegible",
		})
		require.Equal(t, http.StatusOK, w.Code)
		var resp DocumentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "rejected", resp.Status)
	})

	t.Run("passes the reviewer through", func(t *testing.T) {
		router, svc := newTestHandler(t)
		doc := testDocument("IND-APP-2026-0001", models.DocOLevelCert)
		doc.Status = models.StatusVerified
		svc.EXPECT().Verify(gomock.Any(), doc.ID, models.StatusVerified, "").
			DoAndReturn(func(ctx context.Context, _ id.DocumentID, _ models.Status, _ string) (*models.Document, error) {
				assert.Equal(t, "registrar@example.org", requestcontext.Actor(ctx))
				return doc, nil
			})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/documents/"+doc.ID.String()+"/verify",
			map[string]string{"status": "verified"})
		w := testutil.Serve(router, testutil.WithActor(req, "registrar@example.org"))
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("uploaded is not a review outcome", func(t *testing.T) {
		router, _ := newTestHandler(t)
		w := post(router, "/admin/documents/"+id.NewDocumentID().String()+"/verify", map[string]string{"status": "uploaded"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad document id", func(t *testing.T) {
		router, _ := newTestHandler(t)
		w := post(router, "/admin/documents/nope/verify", map[string]string{"status": "verified"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
