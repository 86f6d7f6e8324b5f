package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusDraft, StatusEligibilityReview, true},
		{StatusDraft, StatusAccepted, false},
		{StatusSubmitted, StatusPreValidation, true},
		{StatusEligibilityReview, StatusPreValidation, true},
		{StatusPreValidation, StatusDocumentReview, true},
		{StatusDocumentReview, StatusNeedsApplicantAction, true},
		{StatusNeedsApplicantAction, StatusDocumentReview, true},
		{StatusDocumentReview, StatusReadyForRegistry, true},
		{StatusReadyForRegistry, StatusAccepted, true},
		{StatusReadyForRegistry, StatusRejected, true},
		{StatusDocumentReview, StatusDraft, false},
		{StatusEligibilityReview, StatusDraft, false},
		{StatusDraft, StatusWithdrawn, true},
		{StatusReadyForRegistry, StatusExpired, true},
		{StatusAccepted, StatusWithdrawn, false},
		{StatusRejected, StatusExpired, false},
		{StatusWithdrawn, StatusDraft, false},
		{StatusDraft, StatusDraft, false},
		{StatusDraft, Status("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusSubmission(t *testing.T) {
	target, ok := StatusDraft.SubmissionTarget()
	assert.True(t, ok)
	assert.Equal(t, StatusEligibilityReview, target)

	target, ok = StatusNeedsApplicantAction.SubmissionTarget()
	assert.True(t, ok)
	assert.Equal(t, StatusDocumentReview, target)

	_, ok = StatusAccepted.SubmissionTarget()
	assert.False(t, ok)

	assert.True(t, StatusDraft.IsSubmission(StatusSubmitted))
	assert.True(t, StatusNeedsApplicantAction.IsSubmission(StatusDocumentReview))
	assert.False(t, StatusDocumentReview.IsSubmission(StatusReadyForRegistry))
	assert.False(t, StatusDraft.IsSubmission(StatusWithdrawn))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("ready_for_registry")
	assert.NoError(t, err)
	assert.Equal(t, StatusReadyForRegistry, s)

	_, err = ParseStatus("approved")
	assert.Error(t, err)
}
