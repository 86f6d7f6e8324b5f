package models

import (
	"github.com/shopspring/decimal"

	id "agentreg/pkg/domain"
)

// FeeStatus tracks the statutory application fee.
type FeeStatus string

const (
	FeeStatusPending       FeeStatus = "pending"
	FeeStatusProofUploaded FeeStatus = "proof_uploaded"
	FeeStatusSettled       FeeStatus = "settled"
	FeeStatusFailed        FeeStatus = "failed"
)

// Remediation options returned with a payment_required rejection.
const (
	FeeOptionPayOnline   = "pay_online"
	FeeOptionUploadProof = "upload_proof"
)

// Fee is the fee posture of an application.
//
// Invariants:
//   - Settled is sticky: once settled, failure or proof notifications do not change it
//   - ProofDocumentID, when set, references an application_fee_pop document
//     that staff have not rejected
//   - fee changes are not status changes and add no StatusHistory rows
type Fee struct {
	Required        bool            `json:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Status          FeeStatus       `json:"status"`
	ProofDocumentID *id.DocumentID  `json:"proof_document_id,omitempty"`
	Reference       string          `json:"reference,omitempty"`
}

// NewFee returns a pending fee.
func NewFee(required bool, amount decimal.Decimal, currency string) Fee {
	return Fee{
		Required: required,
		Amount:   amount,
		Currency: currency,
		Status:   FeeStatusPending,
	}
}

// Satisfied reports whether the fee no longer blocks submission. An uploaded
// but unverified proof of payment is enough.
func (f Fee) Satisfied() bool {
	return !f.Required || f.Status == FeeStatusSettled || f.ProofDocumentID != nil
}

func (f Fee) IsSettled() bool {
	return f.Status == FeeStatusSettled
}

// ApplySettled marks the fee as paid. Returns false if it already was.
func (f *Fee) ApplySettled(reference string) bool {
	if f.Status == FeeStatusSettled {
		return false
	}
	f.Status = FeeStatusSettled
	if reference != "" {
		f.Reference = reference
	}
	return true
}

// ApplyFailed records a failed online payment unless the fee is already
// settled or backed by a proof upload.
func (f *Fee) ApplyFailed() bool {
	if f.Status == FeeStatusSettled || f.Status == FeeStatusProofUploaded || f.Status == FeeStatusFailed {
		return false
	}
	f.Status = FeeStatusFailed
	return true
}

// ApplyProof attaches a proof-of-payment document.
func (f *Fee) ApplyProof(docID id.DocumentID) {
	f.ProofDocumentID = &docID
	if f.Status != FeeStatusSettled {
		f.Status = FeeStatusProofUploaded
	}
}

// DetachProof drops a proof of payment staff rejected. A settled fee keeps
// its status. Returns false if docID is not the attached proof.
func (f *Fee) DetachProof(docID id.DocumentID) bool {
	if f.ProofDocumentID == nil || *f.ProofDocumentID != docID {
		return false
	}
	f.ProofDocumentID = nil
	if f.Status == FeeStatusProofUploaded {
		f.Status = FeeStatusPending
	}
	return true
}
