package models

import (
	"time"

	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
)

// Status is the review state of an uploaded document.
type Status string

const (
	StatusUploaded Status = "uploaded"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// ParseReviewStatus validates a staff review outcome.
func ParseReviewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusVerified, StatusRejected:
		return Status(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "review status must be verified or rejected")
}

// Document is an uploaded supporting document.
//
// Invariants:
//   - ContentHash is the lowercase hex SHA-256 of the stored bytes and is unique system-wide
//   - Singleton types keep one row per application; re-upload replaces bytes in place
//   - Status leaves uploaded only through staff review
type Document struct {
	ID              id.DocumentID      `json:"id"`
	ApplicationID   id.ApplicationID   `json:"application_id"`
	ApplicationKind id.ApplicationKind `json:"application_kind"`
	DocType         DocType            `json:"doc_type"`
	FileName        string             `json:"file_name"`
	StorageKey      string             `json:"storage_key"`
	ContentType     string             `json:"content_type"`
	SizeBytes       int64              `json:"size_bytes"`
	ContentHash     string             `json:"content_hash"`
	Status          Status             `json:"status"`
	ReviewReason    string             `json:"review_reason,omitempty"`
	ReviewedBy      string             `json:"reviewed_by,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// CanReview checks that a staff review may be recorded.
func (d *Document) CanReview(target Status) error {
	if target != StatusVerified && target != StatusRejected {
		return dErrors.New(dErrors.CodeInvalidInput, "review status must be verified or rejected")
	}
	if d.Status != StatusUploaded {
		return dErrors.New(dErrors.CodeInvalidState, "document has already been reviewed")
	}
	return nil
}

// ApplyReview records the staff decision. Call CanReview first.
func (d *Document) ApplyReview(target Status, actor, reason string, now time.Time) {
	d.Status = target
	d.ReviewedBy = actor
	d.ReviewReason = reason
	d.UpdatedAt = now
}

// ApplyReplacement swaps in new content for a singleton re-upload, keeping
// the id and resetting review state.
func (d *Document) ApplyReplacement(next *Document) {
	d.FileName = next.FileName
	d.StorageKey = next.StorageKey
	d.ContentType = next.ContentType
	d.SizeBytes = next.SizeBytes
	d.ContentHash = next.ContentHash
	d.Status = StatusUploaded
	d.ReviewReason = ""
	d.ReviewedBy = ""
	d.UpdatedAt = next.UpdatedAt
}
