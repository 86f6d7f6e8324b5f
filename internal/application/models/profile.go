package models

import (
	"strings"
	"time"
)

// IndividualProfile is the typed payload of an individual application.
type IndividualProfile struct {
	Personal   PersonalInfo             `json:"personal"`
	OLevel     OLevelResult             `json:"o_level"`
	ALevel     *ALevelResult            `json:"a_level,omitempty"`
	Equivalent *EquivalentQualification `json:"equivalent,omitempty"`
}

// PersonalInfo holds the applicant's identity details.
type PersonalInfo struct {
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	NationalID  string    `json:"national_id,omitempty"`
	DateOfBirth time.Time `json:"date_of_birth"`
}

// FullName joins first and last name.
func (p PersonalInfo) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// OLevelResult summarizes declared O-Level results.
type OLevelResult struct {
	PassesCount int      `json:"passes_count"`
	HasEnglish  bool     `json:"has_english"`
	HasMath     bool     `json:"has_math"`
	Subjects    []string `json:"subjects,omitempty"`
}

// ALevelResult summarizes declared A-Level results.
type ALevelResult struct {
	PassesCount int      `json:"passes_count"`
	Subjects    []string `json:"subjects,omitempty"`
}

// EquivalentQualification is an alternative to A-Level for non-mature
// applicants. It only counts when an evidence document is referenced.
type EquivalentQualification struct {
	Title              string `json:"title"`
	Institution        string `json:"institution,omitempty"`
	EvidenceDocumentID string `json:"evidence_document_id,omitempty"`
}

// HasEvidence reports whether an evidence document is referenced.
func (e *EquivalentQualification) HasEvidence() bool {
	return e != nil && strings.TrimSpace(e.EvidenceDocumentID) != ""
}

// OrganizationProfile is the typed payload of an organization application.
type OrganizationProfile struct {
	Org                  OrgInfo      `json:"org"`
	TrustAccount         TrustAccount `json:"trust_account"`
	PREAMemberID         string       `json:"prea_member_id"`
	PREAIsListedDirector bool         `json:"prea_is_listed_director"`
	Directors            []Director   `json:"directors"`
}

// OrgInfo holds the organization's registered details.
type OrgInfo struct {
	LegalName          string `json:"legal_name"`
	TradingName        string `json:"trading_name,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
}

// TrustAccount is the client-money account the organization must operate.
type TrustAccount struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

// Director is a declared director. MemberID is set when the director is
// already a registered individual member.
type Director struct {
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id,omitempty"`
	MemberID   string `json:"member_id,omitempty"`
}

// DirectorMemberIDs returns the non-empty member ids of the declared directors.
func (o OrganizationProfile) DirectorMemberIDs() []string {
	ids := make([]string, 0, len(o.Directors))
	for _, d := range o.Directors {
		if m := strings.TrimSpace(d.MemberID); m != "" {
			ids = append(ids, m)
		}
	}
	return ids
}

func (p IndividualProfile) clone() IndividualProfile {
	cp := p
	cp.OLevel.Subjects = append([]string(nil), p.OLevel.Subjects...)
	if p.ALevel != nil {
		a := *p.ALevel
		a.Subjects = append([]string(nil), p.ALevel.Subjects...)
		cp.ALevel = &a
	}
	if p.Equivalent != nil {
		e := *p.Equivalent
		cp.Equivalent = &e
	}
	return cp
}

func (o OrganizationProfile) clone() OrganizationProfile {
	cp := o
	cp.Directors = append([]Director(nil), o.Directors...)
	return cp
}
