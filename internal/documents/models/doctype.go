package models

import (
	"fmt"
	"regexp"
	"strconv"

	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
)

// DocType is the closed set of document tags. Police clearances are keyed
// per director: police_clearance_director_1, _2, ...
type DocType string

const (
	DocOLevelCert           DocType = "o_level_cert"
	DocALevelCert           DocType = "a_level_cert"
	DocEquivalentCert       DocType = "equivalent_cert"
	DocIDOrPassport         DocType = "id_or_passport"
	DocBirthCertificate     DocType = "birth_certificate"
	DocApplicationFeePOP    DocType = "application_fee_pop"
	DocBankTrustLetter      DocType = "bank_trust_letter"
	DocCertOfIncorporation  DocType = "certificate_of_incorporation"
	DocPartnershipAgreement DocType = "partnership_agreement"
	DocCR6                  DocType = "cr6"
	DocCR11                 DocType = "cr11"
	DocTaxClearance         DocType = "tax_clearance"
	DocAnnualReturn1        DocType = "annual_return_1"
	DocAnnualReturn2        DocType = "annual_return_2"
	DocAnnualReturn3        DocType = "annual_return_3"
)

// MaxDirectors bounds the per-director police clearance keys.
const MaxDirectors = 50

const policeClearancePrefix = "police_clearance_director_"

var policeClearancePattern = regexp.MustCompile(`^police_clearance_director_([1-9][0-9]?)$`)

// Category groups document types for reviewers.
type Category string

const (
	CategoryEducation Category = "education"
	CategoryIdentity  Category = "identity"
	CategoryLegal     Category = "legal"
	CategoryFinancial Category = "financial"
)

type docTypeInfo struct {
	display  string
	category Category
	kinds    []id.ApplicationKind
}

var (
	individualOnly = []id.ApplicationKind{id.KindIndividual}
	orgOnly        = []id.ApplicationKind{id.KindOrganization}
	bothKinds      = []id.ApplicationKind{id.KindIndividual, id.KindOrganization}
)

var docTypes = map[DocType]docTypeInfo{
	DocOLevelCert:           {"O-Level certificate", CategoryEducation, individualOnly},
	DocALevelCert:           {"A-Level certificate", CategoryEducation, individualOnly},
	DocEquivalentCert:       {"Equivalent qualification certificate", CategoryEducation, individualOnly},
	DocIDOrPassport:         {"National ID or passport", CategoryIdentity, individualOnly},
	DocBirthCertificate:     {"Birth certificate", CategoryIdentity, individualOnly},
	DocApplicationFeePOP:    {"Application fee proof of payment", CategoryFinancial, bothKinds},
	DocBankTrustLetter:      {"Bank trust account letter", CategoryFinancial, orgOnly},
	DocCertOfIncorporation:  {"Certificate of incorporation", CategoryLegal, orgOnly},
	DocPartnershipAgreement: {"Partnership agreement", CategoryLegal, orgOnly},
	DocCR6:                  {"CR6 form", CategoryLegal, orgOnly},
	DocCR11:                 {"CR11 form", CategoryLegal, orgOnly},
	DocTaxClearance:         {"Tax clearance certificate", CategoryFinancial, orgOnly},
	DocAnnualReturn1:        {"Annual return form 1", CategoryLegal, orgOnly},
	DocAnnualReturn2:        {"Annual return form 2", CategoryLegal, orgOnly},
	DocAnnualReturn3:        {"Annual return form 3", CategoryLegal, orgOnly},
}

// singletons are replaced in place on re-upload instead of accumulating.
var singletons = map[DocType]struct{}{
	DocIDOrPassport:        {},
	DocBirthCertificate:    {},
	DocCertOfIncorporation: {},
}

// ParseDocType validates a document tag from external input.
func ParseDocType(s string) (DocType, error) {
	d := DocType(s)
	if !d.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown document type: "+s)
	}
	return d, nil
}

// PoliceClearance returns the police clearance key for the 1-based director
// index.
func PoliceClearance(director int) DocType {
	return DocType(policeClearancePrefix + strconv.Itoa(director))
}

// DirectorIndex returns the director index of a police clearance key.
func (d DocType) DirectorIndex() (int, bool) {
	m := policeClearancePattern.FindStringSubmatch(string(d))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > MaxDirectors {
		return 0, false
	}
	return n, true
}

func (d DocType) IsValid() bool {
	if _, ok := docTypes[d]; ok {
		return true
	}
	_, ok := d.DirectorIndex()
	return ok
}

// IsSingleton reports whether a second upload replaces the first.
func (d DocType) IsSingleton() bool {
	_, ok := singletons[d]
	return ok
}

// DisplayName is the stable human-readable name used in checklists.
func (d DocType) DisplayName() string {
	if info, ok := docTypes[d]; ok {
		return info.display
	}
	if n, ok := d.DirectorIndex(); ok {
		return fmt.Sprintf("Police clearance (director %d)", n)
	}
	return string(d)
}

func (d DocType) Category() Category {
	if info, ok := docTypes[d]; ok {
		return info.category
	}
	if _, ok := d.DirectorIndex(); ok {
		return CategoryLegal
	}
	return ""
}

// AllowedFor reports whether applications of kind may carry this document.
func (d DocType) AllowedFor(kind id.ApplicationKind) bool {
	if info, ok := docTypes[d]; ok {
		for _, k := range info.kinds {
			if k == kind {
				return true
			}
		}
		return false
	}
	_, ok := d.DirectorIndex()
	return ok && kind == id.KindOrganization
}

func (d DocType) String() string {
	return string(d)
}

// SingletonTypes lists the replace-in-place document types.
func SingletonTypes() []DocType {
	return []DocType{DocIDOrPassport, DocBirthCertificate, DocCertOfIncorporation}
}
