// Package eligibility holds the pure rules deciding whether an applicant may
// open an application. No I/O, no hidden state: callers pass in everything,
// including the evaluation instant.
package eligibility

// Result is the outcome of an eligibility check. A rejection is a normal
// negative result, not an error.
type Result struct {
	OK           bool     `json:"ok"`
	Mature       *bool    `json:"mature,omitempty"`
	Reason       string   `json:"reason,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Rejected reports whether the result is a hard rejection that must block
// application creation, as opposed to an outstanding checklist.
func (r Result) Rejected() bool {
	return !r.OK && r.Reason != ReasonDocumentsOutstanding
}

func reject(reason string) Result {
	return Result{OK: false, Reason: reason}
}

// Rejection reasons. They are shown to applicants verbatim.
const (
	ReasonInvalidInput = "The application data could not be validated. Please review the form and try again."

	ReasonOLevelPasses  = "At least 5 O-Level passes are required."
	ReasonOLevelEnglish = "An O-Level pass in English Language is required."
	ReasonOLevelMath    = "An O-Level pass in Mathematics is required."

	ReasonOrgLegalName    = "Organization legal name must be at least 2 characters."
	ReasonOrgEmail        = "A valid organization email is required."
	ReasonOrgTrustBank    = "Trust account bank name must be at least 2 characters."
	ReasonOrgPREAMissing  = "A Principal Registered Estate Agent member id is required."
	ReasonOrgPREAInactive = "The nominated Principal Registered Estate Agent is not an active individual member."
	ReasonOrgNoDirectors  = "At least one director must be declared."

	ReasonDocumentsOutstanding = "Required documents are outstanding."
)

// Rules are the tunable thresholds.
type Rules struct {
	MatureEntryAge int
}

// DefaultRules uses the statutory mature-entry age of 27.
func DefaultRules() Rules {
	return Rules{MatureEntryAge: 27}
}

func (r Rules) matureAge() int {
	if r.MatureEntryAge <= 0 {
		return 27
	}
	return r.MatureEntryAge
}
