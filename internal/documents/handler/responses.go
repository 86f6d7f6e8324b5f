package handler

import (
	"time"

	"agentreg/internal/documents/models"
	"agentreg/internal/documents/service"
	"agentreg/internal/documents/validator"
	"agentreg/pkg/platform/httputil"
)

// DocumentResponse is the HTTP view of a document. The storage key is
// internal and never returned.
type DocumentResponse struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	DocType       string    `json:"doc_type"`
	DisplayName   string    `json:"display_name"`
	FileName      string    `json:"file_name"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	ContentHash   string    `json:"content_hash"`
	Status        string    `json:"status"`
	ReviewReason  string    `json:"review_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UploadResponse is returned for a registered document.
type UploadResponse struct {
	Document *DocumentResponse `json:"document"`
	Warnings []string          `json:"warnings,omitempty"`
	Replaced bool              `json:"replaced"`
}

// BatchItemResponse is one entry of a batch response.
type BatchItemResponse struct {
	Index    int                     `json:"index"`
	Document *UploadResponse         `json:"result,omitempty"`
	Error    *httputil.ErrorResponse `json:"error,omitempty"`
}

// BatchResponse reports every item of a batch in request order.
type BatchResponse struct {
	Registered int                 `json:"registered"`
	Failed     int                 `json:"failed"`
	Items      []BatchItemResponse `json:"items"`
}

// ListResponse wraps an application's documents.
type ListResponse struct {
	Documents []*DocumentResponse `json:"documents"`
}

func FromDocument(d *models.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:            d.ID.String(),
		ApplicationID: d.ApplicationID.String(),
		DocType:       d.DocType.String(),
		DisplayName:   d.DocType.DisplayName(),
		FileName:      d.FileName,
		ContentType:   d.ContentType,
		SizeBytes:     d.SizeBytes,
		ContentHash:   d.ContentHash,
		Status:        string(d.Status),
		ReviewReason:  d.ReviewReason,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func FromDocuments(docs []*models.Document) *ListResponse {
	out := make([]*DocumentResponse, len(docs))
	for n, d := range docs {
		out[n] = FromDocument(d)
	}
	return &ListResponse{Documents: out}
}

func FromUpload(res *service.UploadResult) *UploadResponse {
	return &UploadResponse{
		Document: FromDocument(res.Document),
		Warnings: warnings(res.Validation),
		Replaced: res.Replaced,
	}
}

func FromBatch(items []service.BatchItem) *BatchResponse {
	resp := &BatchResponse{Items: make([]BatchItemResponse, len(items))}
	for n, item := range items {
		resp.Items[n].Index = item.Index
		if item.Error != nil {
			resp.Failed++
			body := httputil.ErrorBody(item.Error)
			resp.Items[n].Error = &body
			continue
		}
		resp.Registered++
		resp.Items[n].Document = FromUpload(item.Result)
	}
	return resp
}

func warnings(res validator.Result) []string {
	if len(res.Warnings) == 0 {
		return nil
	}
	return res.Warnings
}
