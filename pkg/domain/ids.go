package domain

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"

	dErrors "agentreg/pkg/domain-errors"
)

// ApplicationKind distinguishes the two application variants. Both share one
// lifecycle; only the payload schema differs.
type ApplicationKind string

const (
	KindIndividual   ApplicationKind = "individual"
	KindOrganization ApplicationKind = "organization"
)

var kindPrefixes = map[ApplicationKind]string{
	KindIndividual:   "IND",
	KindOrganization: "ORG",
}

// ParseApplicationKind constructs a kind from external input.
func ParseApplicationKind(s string) (ApplicationKind, error) {
	k := ApplicationKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "application type must be individual or organization")
	}
	return k, nil
}

func (k ApplicationKind) IsValid() bool {
	_, ok := kindPrefixes[k]
	return ok
}

// Prefix is the short code used in human-readable series ids (IND, ORG).
func (k ApplicationKind) Prefix() string {
	return kindPrefixes[k]
}

func (k ApplicationKind) String() string {
	return string(k)
}

// ApplicationID is the human-readable, year-scoped sequence id of an
// application, e.g. IND-APP-2024-0001. Immutable once assigned.
type ApplicationID string

var applicationIDPattern = regexp.MustCompile(`^(IND|ORG)-APP-(\d{4})-(\d{4,8})$`)

// ParseApplicationID validates an application id from external input.
func ParseApplicationID(s string) (ApplicationID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "application id cannot be empty")
	}
	if len(s) > 32 || !applicationIDPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid application id")
	}
	return ApplicationID(s), nil
}

// FormatApplicationID renders the series value for kind and year.
func FormatApplicationID(kind ApplicationKind, year int, seq int64) ApplicationID {
	return ApplicationID(fmt.Sprintf("%s-APP-%04d-%04d", kind.Prefix(), year, seq))
}

// Kind derives the application kind from the id prefix.
func (a ApplicationID) Kind() ApplicationKind {
	switch {
	case strings.HasPrefix(string(a), "IND-"):
		return KindIndividual
	case strings.HasPrefix(string(a), "ORG-"):
		return KindOrganization
	}
	return ""
}

func (a ApplicationID) String() string {
	return string(a)
}

func (a ApplicationID) IsZero() bool {
	return a == ""
}

// MemberNumber is minted exactly once, when an application is accepted.
type MemberNumber string

// FormatMemberNumber renders a member number series value.
func FormatMemberNumber(kind ApplicationKind, year int, seq int64) MemberNumber {
	return MemberNumber(fmt.Sprintf("%s-MEM-%04d-%04d", kind.Prefix(), year, seq))
}

func (m MemberNumber) String() string {
	return string(m)
}

// DocumentID identifies an uploaded document row. It survives in-place
// replacement of singleton document types.
type DocumentID uuid.UUID

// NewDocumentID returns a random document id.
func NewDocumentID() DocumentID {
	return DocumentID(uuid.New())
}

// ParseDocumentID validates a document id from external input.
func ParseDocumentID(s string) (DocumentID, error) {
	if s == "" {
		return DocumentID{}, dErrors.New(dErrors.CodeInvalidInput, "document id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return DocumentID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid document id")
	}
	if u == uuid.Nil {
		return DocumentID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid document id")
	}
	return DocumentID(u), nil
}

func (d DocumentID) String() string {
	return uuid.UUID(d).String()
}

func (d DocumentID) IsNil() bool {
	return uuid.UUID(d) == uuid.Nil
}

func (d DocumentID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DocumentID) UnmarshalText(b []byte) error {
	parsed, err := ParseDocumentID(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NormalizeEmail lowercases and validates an email address.
func NormalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid email address")
	}
	return s, nil
}
