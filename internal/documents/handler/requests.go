package handler

import (
	"strings"

	"agentreg/internal/documents/models"
	"agentreg/internal/documents/service"
	dErrors "agentreg/pkg/domain-errors"
)

const (
	maxFileNameLen   = 255
	maxStorageKeyLen = 512
	maxBatchSize     = 20
)

// UploadRequest registers a file previously written to blob storage.
type UploadRequest struct {
	DocType     string `json:"doc_type"`
	StorageKey  string `json:"storage_key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`

	parsedDocType models.DocType
}

func (r *UploadRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.StorageKey = strings.TrimSpace(r.StorageKey)
	r.FileName = strings.TrimSpace(r.FileName)
	r.ContentType = strings.TrimSpace(r.ContentType)
	if len(r.FileName) > maxFileNameLen {
		return dErrors.New(dErrors.CodeValidation, "file_name must be at most 255 characters")
	}
	if len(r.StorageKey) > maxStorageKeyLen {
		return dErrors.New(dErrors.CodeValidation, "storage_key must be at most 512 characters")
	}
	if r.StorageKey == "" {
		return dErrors.New(dErrors.CodeValidation, "storage_key is required")
	}
	if r.FileName == "" {
		return dErrors.New(dErrors.CodeValidation, "file_name is required")
	}
	docType, err := models.ParseDocType(strings.TrimSpace(r.DocType))
	if err != nil {
		return err
	}
	r.parsedDocType = docType
	return nil
}

func (r *UploadRequest) ToService() service.UploadRequest {
	return service.UploadRequest{
		DocType:      r.parsedDocType,
		StorageKey:   r.StorageKey,
		FileName:     r.FileName,
		DeclaredType: r.ContentType,
	}
}

// BatchRequest registers several files at once.
type BatchRequest struct {
	Documents []UploadRequest `json:"documents"`
}

func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Documents) == 0 {
		return dErrors.New(dErrors.CodeValidation, "documents must not be empty")
	}
	if len(r.Documents) > maxBatchSize {
		return dErrors.New(dErrors.CodeValidation, "at most 20 documents per batch")
	}
	for n := range r.Documents {
		if err := r.Documents[n].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r *BatchRequest) ToService() []service.UploadRequest {
	out := make([]service.UploadRequest, len(r.Documents))
	for n := range r.Documents {
		out[n] = r.Documents[n].ToService()
	}
	return out
}

// VerifyRequest records a staff review of a document.
type VerifyRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`

	parsedStatus models.Status
}

func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Reason = strings.TrimSpace(r.Reason)
	if len(r.Reason) > 1000 {
		return dErrors.New(dErrors.CodeValidation, "reason must be at most 1000 characters")
	}
	status, err := models.ParseReviewStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return err
	}
	r.parsedStatus = status
	return nil
}

func (r *VerifyRequest) ParsedStatus() models.Status {
	return r.parsedStatus
}
