package eligibility

import (
	"fmt"
	"strings"
	"time"

	"agentreg/internal/application/models"
	"agentreg/internal/documents/checklist"
	id "agentreg/pkg/domain"
)

const (
	minOLevelPasses = 5
	minALevelPasses = 2
	maxPlausibleAge = 120
)

// CheckIndividual decides whether an individual may apply.
//
// Rule order (fail-fast):
//  1. Input sanity (collapses to one generic reason)
//  2. O-Level passes, English, Mathematics
//  3. Age and mature-entry classification
//  4. Non-mature: A-Level with 2+ passes, or evidenced equivalent
func CheckIndividual(p models.IndividualProfile, asOf time.Time, rules Rules) Result {
	if !validIndividual(p, asOf) {
		return reject(ReasonInvalidInput)
	}

	switch {
	case p.OLevel.PassesCount < minOLevelPasses:
		return reject(ReasonOLevelPasses)
	case !p.OLevel.HasEnglish:
		return reject(ReasonOLevelEnglish)
	case !p.OLevel.HasMath:
		return reject(ReasonOLevelMath)
	}

	age := AgeOn(p.Personal.DateOfBirth, asOf)
	matureAge := rules.matureAge()
	mature := age >= matureAge
	hasALevel := p.ALevel != nil && p.ALevel.PassesCount >= minALevelPasses

	var requirements, warnings []string
	if mature {
		if hasALevel {
			warnings = append(warnings, "A-Level results are optional for mature entry but strengthen the application.")
		}
	} else {
		switch {
		case hasALevel:
			requirements = append(requirements, "Provide a certified copy of your A-Level certificate.")
		case p.Equivalent.HasEvidence():
			requirements = append(requirements, "Provide the certified evidence of your equivalent qualification.")
		default:
			res := reject(fmt.Sprintf(
				"Applicants under %d require at least %d A-Level passes or an evidenced equivalent qualification.",
				matureAge, minALevelPasses))
			res.Mature = &mature
			return res
		}
	}

	for _, item := range checklist.Items(id.KindIndividual, checklist.Context{MatureEntry: true}) {
		requirements = append(requirements, checklist.Render(item, checklist.PhaseStart))
	}

	return Result{
		OK:           true,
		Mature:       &mature,
		Requirements: requirements,
		Warnings:     warnings,
	}
}

// IsMature classifies an applicant at asOf. Used once at application creation.
func IsMature(dob, asOf time.Time, rules Rules) bool {
	return AgeOn(dob, asOf) >= rules.matureAge()
}

func validIndividual(p models.IndividualProfile, asOf time.Time) bool {
	if strings.TrimSpace(p.Personal.FirstName) == "" || strings.TrimSpace(p.Personal.LastName) == "" {
		return false
	}
	if !validEmail(p.Personal.Email) {
		return false
	}
	dob := p.Personal.DateOfBirth
	if dob.IsZero() || dob.After(asOf) {
		return false
	}
	if AgeOn(dob, asOf) > maxPlausibleAge {
		return false
	}
	if p.OLevel.PassesCount < 0 || (p.ALevel != nil && p.ALevel.PassesCount < 0) {
		return false
	}
	return true
}

func validEmail(s string) bool {
	_, err := id.NormalizeEmail(s)
	return err == nil
}
