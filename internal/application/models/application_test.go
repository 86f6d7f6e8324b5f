package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newIndividual(t *testing.T) *Application {
	t.Helper()
	app, err := NewIndividualApplication(
		id.ApplicationID("IND-APP-2026-0001"),
		IndividualProfile{
			Personal: PersonalInfo{FirstName: "Tariro", LastName: "Moyo", Email: "tariro@example.org"},
			OLevel:   OLevelResult{PassesCount: 6, HasEnglish: true, HasMath: true, Subjects: []string{"English"}},
		},
		true,
		NewFee(true, decimal.RequireFromString("50"), "USD"),
		testNow,
	)
	require.NoError(t, err)
	return app
}

func TestNewIndividualApplication(t *testing.T) {
	app := newIndividual(t)
	assert.Equal(t, StatusDraft, app.Status)
	assert.Equal(t, id.KindIndividual, app.Kind)
	assert.Equal(t, "tariro@example.org", app.ApplicantEmail)
	assert.Equal(t, FeeStatusPending, app.Fee.Status)

	_, err := NewIndividualApplication(id.ApplicationID("ORG-APP-2026-0001"), IndividualProfile{
		Personal: PersonalInfo{Email: "x@example.org"},
	}, false, Fee{}, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestApplicationTransition(t *testing.T) {
	app := newIndividual(t)

	err := app.CanTransitionTo(StatusAccepted)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))

	require.NoError(t, app.CanTransitionTo(StatusEligibilityReview))
	later := testNow.Add(time.Hour)
	from := app.ApplyTransition(StatusEligibilityReview, later)
	assert.Equal(t, StatusDraft, from)
	assert.Equal(t, later, app.UpdatedAt)
}

func TestApplicationMemberNumberMintedOnce(t *testing.T) {
	app := newIndividual(t)
	assert.True(t, app.NeedsMemberNumber())
	assert.True(t, app.ApplyMemberNumber("IND-MEM-2026-0001"))
	assert.False(t, app.NeedsMemberNumber())
	assert.False(t, app.ApplyMemberNumber("IND-MEM-2026-0002"))
	assert.Equal(t, id.MemberNumber("IND-MEM-2026-0001"), app.MemberID)
}

func TestApplicationCloneIsDeep(t *testing.T) {
	app := newIndividual(t)
	docID := id.NewDocumentID()
	app.Fee.ApplyProof(docID)

	cp := app.Clone()
	cp.Individual.OLevel.Subjects[0] = "Shona"
	cp.Status = StatusWithdrawn
	*cp.Fee.ProofDocumentID = id.NewDocumentID()

	assert.Equal(t, "English", app.Individual.OLevel.Subjects[0])
	assert.Equal(t, StatusDraft, app.Status)
	assert.Equal(t, docID, *app.Fee.ProofDocumentID)
}

func TestFeeSatisfied(t *testing.T) {
	fee := NewFee(true, decimal.RequireFromString("50"), "USD")
	assert.False(t, fee.Satisfied())

	assert.True(t, NewFee(false, decimal.Zero, "USD").Satisfied())

	withProof := fee
	withProof.ProofDocumentID = new(id.DocumentID)
	assert.True(t, withProof.Satisfied(), "pending fee with proof id unblocks submission")

	settled := fee
	assert.True(t, settled.ApplySettled("ref-1"))
	assert.True(t, settled.Satisfied())
	assert.False(t, settled.ApplySettled("ref-2"), "settlement is recorded once")
	assert.Equal(t, "ref-1", settled.Reference)
	assert.False(t, settled.ApplyFailed())
	assert.Equal(t, FeeStatusSettled, settled.Status)
}

func TestFeeProofKeepsSettled(t *testing.T) {
	fee := NewFee(true, decimal.RequireFromString("50"), "USD")
	fee.ApplySettled("ref")
	fee.ApplyProof(id.NewDocumentID())
	assert.Equal(t, FeeStatusSettled, fee.Status)
	assert.NotNil(t, fee.ProofDocumentID)
}

func TestFeeDetachProof(t *testing.T) {
	fee := NewFee(true, decimal.RequireFromString("50"), "USD")
	docID := id.NewDocumentID()
	fee.ApplyProof(docID)

	assert.False(t, fee.DetachProof(id.NewDocumentID()), "only the attached proof detaches")
	assert.True(t, fee.DetachProof(docID))
	assert.Nil(t, fee.ProofDocumentID)
	assert.Equal(t, FeeStatusPending, fee.Status)
	assert.False(t, fee.Satisfied())

	settled := NewFee(true, decimal.RequireFromString("50"), "USD")
	settled.ApplySettled("ref")
	settled.ApplyProof(docID)
	assert.True(t, settled.DetachProof(docID))
	assert.Equal(t, FeeStatusSettled, settled.Status)
	assert.True(t, settled.Satisfied())
}
