package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentreg/internal/application/models"
	docmodels "agentreg/internal/documents/models"
)

var today = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func yearsAgo(n int) time.Time {
	return today.AddDate(-n, 0, 0)
}

func individual(dob time.Time) models.IndividualProfile {
	return models.IndividualProfile{
		Personal: models.PersonalInfo{FirstName: "Rudo", LastName: "Chikore", Email: "rudo@example.org", DateOfBirth: dob},
		OLevel:   models.OLevelResult{PassesCount: 6, HasEnglish: true, HasMath: true},
	}
}

func TestAgeOn(t *testing.T) {
	t.Run("birthday already passed this year", func(t *testing.T) {
		assert.Equal(t, 30, AgeOn(yearsAgo(30).AddDate(0, 0, -1), today))
	})
	t.Run("birthday is today", func(t *testing.T) {
		assert.Equal(t, 30, AgeOn(yearsAgo(30), today))
	})
	t.Run("birthday is tomorrow", func(t *testing.T) {
		assert.Equal(t, 29, AgeOn(yearsAgo(30).AddDate(0, 0, 1), today))
	})
	t.Run("earlier month later day", func(t *testing.T) {
		dob := time.Date(1996, 5, 20, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 30, AgeOn(dob, today))
	})
}

func TestCheckIndividual_OLevelGate(t *testing.T) {
	rules := DefaultRules()

	t.Run("four passes always rejected", func(t *testing.T) {
		p := individual(yearsAgo(40))
		p.OLevel.PassesCount = 4
		res := CheckIndividual(p, today, rules)
		assert.False(t, res.OK)
		assert.Equal(t, ReasonOLevelPasses, res.Reason)
	})

	t.Run("five passes without English", func(t *testing.T) {
		p := individual(yearsAgo(40))
		p.OLevel.PassesCount = 5
		p.OLevel.HasEnglish = false
		res := CheckIndividual(p, today, rules)
		assert.Equal(t, ReasonOLevelEnglish, res.Reason)
	})

	t.Run("five passes without Mathematics", func(t *testing.T) {
		p := individual(yearsAgo(40))
		p.OLevel.PassesCount = 5
		p.OLevel.HasMath = false
		res := CheckIndividual(p, today, rules)
		assert.Equal(t, ReasonOLevelMath, res.Reason)
	})

	t.Run("five passes with English and Mathematics passes the gate", func(t *testing.T) {
		p := individual(yearsAgo(40))
		p.OLevel.PassesCount = 5
		assert.True(t, CheckIndividual(p, today, rules).OK)
	})
}

func TestCheckIndividual_MatureEntryBoundary(t *testing.T) {
	rules := DefaultRules()

	t.Run("age 26 without A-Level or evidence is rejected", func(t *testing.T) {
		res := CheckIndividual(individual(yearsAgo(26)), today, rules)
		require.False(t, res.OK)
		require.NotNil(t, res.Mature)
		assert.False(t, *res.Mature)
		assert.Contains(t, res.Reason, "27")
	})

	t.Run("age 26 the day before the birthday is still 26", func(t *testing.T) {
		res := CheckIndividual(individual(yearsAgo(27).AddDate(0, 0, 1)), today, rules)
		assert.False(t, res.OK)
	})

	t.Run("age 27 with neither is accepted", func(t *testing.T) {
		res := CheckIndividual(individual(yearsAgo(27)), today, rules)
		require.True(t, res.OK)
		assert.True(t, *res.Mature)
		assert.Empty(t, res.Warnings)
	})

	t.Run("age 26 with two A-Level passes", func(t *testing.T) {
		p := individual(yearsAgo(26))
		p.ALevel = &models.ALevelResult{PassesCount: 2}
		res := CheckIndividual(p, today, rules)
		require.True(t, res.OK)
		assert.False(t, *res.Mature)
		assert.Contains(t, res.Requirements[0], "A-Level certificate")
	})

	t.Run("age 26 with one A-Level pass and no evidence is rejected", func(t *testing.T) {
		p := individual(yearsAgo(26))
		p.ALevel = &models.ALevelResult{PassesCount: 1}
		assert.False(t, CheckIndividual(p, today, rules).OK)
	})

	t.Run("age 26 with evidenced equivalent", func(t *testing.T) {
		p := individual(yearsAgo(26))
		p.Equivalent = &models.EquivalentQualification{Title: "National Diploma", EvidenceDocumentID: "doc-1"}
		res := CheckIndividual(p, today, rules)
		require.True(t, res.OK)
		assert.Contains(t, res.Requirements[0], "equivalent qualification")
	})

	t.Run("equivalent without evidence does not count", func(t *testing.T) {
		p := individual(yearsAgo(26))
		p.Equivalent = &models.EquivalentQualification{Title: "National Diploma"}
		assert.False(t, CheckIndividual(p, today, rules).OK)
	})

	t.Run("mature with A-Level gets a warning", func(t *testing.T) {
		p := individual(yearsAgo(35))
		p.ALevel = &models.ALevelResult{PassesCount: 3}
		res := CheckIndividual(p, today, rules)
		require.True(t, res.OK)
		assert.Len(t, res.Warnings, 1)
	})

	t.Run("threshold is configurable", func(t *testing.T) {
		res := CheckIndividual(individual(yearsAgo(25)), today, Rules{MatureEntryAge: 25})
		assert.True(t, res.OK)
	})
}

func TestCheckIndividual_BaselineRequirements(t *testing.T) {
	res := CheckIndividual(individual(yearsAgo(30)), today, DefaultRules())
	require.True(t, res.OK)
	assert.Equal(t, []string{
		"Upload required: O-Level certificate",
		"Upload required: National ID or passport",
		"Upload required: Birth certificate",
	}, res.Requirements)
}

func TestCheckIndividual_InvalidInputIsGeneric(t *testing.T) {
	cases := map[string]func(p *models.IndividualProfile){
		"missing date of birth": func(p *models.IndividualProfile) { p.Personal.DateOfBirth = time.Time{} },
		"future date of birth":  func(p *models.IndividualProfile) { p.Personal.DateOfBirth = today.AddDate(1, 0, 0) },
		"missing name":          func(p *models.IndividualProfile) { p.Personal.FirstName = " " },
		"negative passes":       func(p *models.IndividualProfile) { p.OLevel.PassesCount = -1 },
		"malformed email":       func(p *models.IndividualProfile) { p.Personal.Email = "rudo-at-example" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := individual(yearsAgo(30))
			mutate(&p)
			res := CheckIndividual(p, today, DefaultRules())
			assert.False(t, res.OK)
			assert.Equal(t, ReasonInvalidInput, res.Reason)
		})
	}
}

func organization() models.OrganizationProfile {
	return models.OrganizationProfile{
		Org:                  models.OrgInfo{LegalName: "Acme Realty (Pvt) Ltd", Email: "office@acme.example"},
		TrustAccount:         models.TrustAccount{BankName: "CBZ"},
		PREAMemberID:         "IND-MEM-2025-0007",
		PREAIsListedDirector: true,
		Directors: []models.Director{
			{FullName: "T. Ncube", MemberID: "IND-MEM-2025-0007"},
			{FullName: "S. Dube"},
		},
	}
}

func TestCheckOrganization_HardRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(in *OrganizationInput)
		reason string
	}{
		{"short legal name", func(in *OrganizationInput) { in.Profile.Org.LegalName = "A" }, ReasonOrgLegalName},
		{"no email", func(in *OrganizationInput) { in.Profile.Org.Email = "" }, ReasonOrgEmail},
		{"malformed email", func(in *OrganizationInput) { in.Profile.Org.Email = "office at acme" }, ReasonOrgEmail},
		{"short bank", func(in *OrganizationInput) { in.Profile.TrustAccount.BankName = "X" }, ReasonOrgTrustBank},
		{"no PREA", func(in *OrganizationInput) { in.Profile.PREAMemberID = "" }, ReasonOrgPREAMissing},
		{"inactive PREA", func(in *OrganizationInput) { in.PREAIsActive = false }, ReasonOrgPREAInactive},
		{"no directors", func(in *OrganizationInput) { in.Profile.Directors = nil }, ReasonOrgNoDirectors},
		{
			"legal name checked before email",
			func(in *OrganizationInput) { in.Profile.Org.LegalName = ""; in.Profile.Org.Email = "" },
			ReasonOrgLegalName,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := OrganizationInput{Profile: organization(), PREAIsActive: true}
			tc.mutate(&in)
			res := CheckOrganization(in)
			assert.False(t, res.OK)
			assert.True(t, res.Rejected())
			assert.Equal(t, tc.reason, res.Reason)
		})
	}
}

func TestCheckOrganization_Checklist(t *testing.T) {
	t.Run("no documents yet", func(t *testing.T) {
		res := CheckOrganization(OrganizationInput{Profile: organization(), PREAIsActive: true})
		assert.False(t, res.OK)
		assert.False(t, res.Rejected(), "outstanding documents do not block creating a draft")
		assert.Contains(t, res.Requirements, "Upload required: Police clearance (director 2)")
		assert.Len(t, res.Requirements, 10)
	})

	t.Run("all documents present", func(t *testing.T) {
		uploaded := []docmodels.DocType{
			docmodels.DocBankTrustLetter, docmodels.DocCertOfIncorporation,
			docmodels.DocAnnualReturn1, docmodels.DocAnnualReturn2, docmodels.DocAnnualReturn3,
			docmodels.DocCR6, docmodels.DocCR11, docmodels.DocTaxClearance,
			docmodels.PoliceClearance(1), docmodels.PoliceClearance(2),
		}
		res := CheckOrganization(OrganizationInput{Profile: organization(), Uploaded: uploaded, PREAIsActive: true})
		assert.True(t, res.OK)
		assert.Empty(t, res.Requirements)
		assert.Empty(t, res.Warnings)
	})
}

func TestCheckOrganization_Warnings(t *testing.T) {
	p := organization()
	p.PREAIsListedDirector = false
	p.Directors[0].MemberID = ""

	res := CheckOrganization(OrganizationInput{Profile: p, PREAIsActive: true})
	assert.False(t, res.Rejected())
	assert.Len(t, res.Warnings, 2)
}
