package models

// Policy is the upload policy of one document type.
type Policy struct {
	MaxBytes          int64
	AllowedExtensions []string
	AllowedTypes      []string
}

const defaultMaxBytes = 20 << 20

var standardPolicy = Policy{
	MaxBytes:          defaultMaxBytes,
	AllowedExtensions: []string{".pdf", ".jpg", ".jpeg", ".png", ".svg"},
	AllowedTypes:      []string{"application/pdf", "image/jpeg", "image/png", "image/svg+xml"},
}

// policies holds per-type overrides. Every type currently shares the
// standard policy.
var policies = map[DocType]Policy{}

// PolicyFor returns the upload policy for d.
func PolicyFor(d DocType) Policy {
	if p, ok := policies[d]; ok {
		return p
	}
	return standardPolicy
}

// AllowsType reports whether a detected media type is permitted.
func (p Policy) AllowsType(mediaType string) bool {
	for _, t := range p.AllowedTypes {
		if t == mediaType {
			return true
		}
	}
	return false
}

// AllowsExtension reports whether a lowercase extension (with dot) is permitted.
func (p Policy) AllowsExtension(ext string) bool {
	for _, e := range p.AllowedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
