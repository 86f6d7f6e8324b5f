// Package checklist derives the required-document checklist of an
// application. Eligibility at application start and the submission guard both
// call it, so the two phases cannot drift apart.
package checklist

import (
	"fmt"
	"strings"

	"agentreg/internal/documents/models"
	id "agentreg/pkg/domain"
)

// Phase selects how missing items are rendered.
type Phase string

const (
	// PhaseStart renders missing items as instructions for a new applicant.
	PhaseStart Phase = "start"
	// PhaseSubmission renders missing items as bare document names.
	PhaseSubmission Phase = "submission"
)

// Context carries the application facts the checklist depends on.
type Context struct {
	MatureEntry   bool
	DirectorCount int
}

// Item is one checklist line, satisfied by any of its document types.
type Item struct {
	AnyOf []models.DocType
}

// Label is the human-readable name of the item.
func (i Item) Label() string {
	names := make([]string, len(i.AnyOf))
	for n, d := range i.AnyOf {
		names[n] = d.DisplayName()
	}
	return strings.Join(names, " or ")
}

// SatisfiedBy reports whether any alternative is present.
func (i Item) SatisfiedBy(present map[models.DocType]struct{}) bool {
	for _, d := range i.AnyOf {
		if _, ok := present[d]; ok {
			return true
		}
	}
	return false
}

func one(d models.DocType) Item {
	return Item{AnyOf: []models.DocType{d}}
}

func either(a, b models.DocType) Item {
	return Item{AnyOf: []models.DocType{a, b}}
}

// Items returns the full checklist for kind in a stable order.
func Items(kind id.ApplicationKind, ctx Context) []Item {
	switch kind {
	case id.KindIndividual:
		items := []Item{
			one(models.DocOLevelCert),
			one(models.DocIDOrPassport),
			one(models.DocBirthCertificate),
		}
		if !ctx.MatureEntry {
			items = append(items, either(models.DocALevelCert, models.DocEquivalentCert))
		}
		return items
	case id.KindOrganization:
		items := []Item{
			one(models.DocBankTrustLetter),
			either(models.DocCertOfIncorporation, models.DocPartnershipAgreement),
			one(models.DocAnnualReturn1),
			one(models.DocAnnualReturn2),
			one(models.DocAnnualReturn3),
			one(models.DocCR6),
			one(models.DocCR11),
			one(models.DocTaxClearance),
		}
		directors := ctx.DirectorCount
		if directors <= 0 {
			directors = 1
		}
		if directors > models.MaxDirectors {
			directors = models.MaxDirectors
		}
		for n := 1; n <= directors; n++ {
			items = append(items, one(models.PoliceClearance(n)))
		}
		return items
	}
	return nil
}

// Missing returns the unsatisfied items for the uploaded document types.
func Missing(kind id.ApplicationKind, uploaded []models.DocType, ctx Context) []Item {
	present := make(map[models.DocType]struct{}, len(uploaded))
	for _, d := range uploaded {
		present[d] = struct{}{}
	}
	var missing []Item
	for _, item := range Items(kind, ctx) {
		if !item.SatisfiedBy(present) {
			missing = append(missing, item)
		}
	}
	return missing
}

// Result is the outcome of a checklist evaluation. OK is true exactly when
// Missing is empty.
type Result struct {
	OK      bool     `json:"ok"`
	Reason  string   `json:"reason,omitempty"`
	Missing []string `json:"requirements,omitempty"`
}

// Evaluate computes the missing-document lines for the given phase.
func Evaluate(kind id.ApplicationKind, uploaded []models.DocType, ctx Context, phase Phase) Result {
	items := Missing(kind, uploaded, ctx)
	if len(items) == 0 {
		return Result{OK: true}
	}
	lines := make([]string, len(items))
	for n, item := range items {
		lines[n] = Render(item, phase)
	}
	return Result{
		OK:      false,
		Reason:  fmt.Sprintf("%d required document(s) missing", len(items)),
		Missing: lines,
	}
}

// Render formats a missing item for phase.
func Render(item Item, phase Phase) string {
	if phase == PhaseStart {
		return "Upload required: " + item.Label()
	}
	return item.Label()
}
