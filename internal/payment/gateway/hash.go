package gateway

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

const hashField = "hash"

// Hash computes the integrity hash: SHA-512 over every value except the hash
// itself, in order, followed by the integration key, as uppercase hex.
func Hash(fields Fields, integrationKey string) string {
	h := sha512.New()
	for _, f := range fields {
		if strings.EqualFold(f.Key, hashField) {
			continue
		}
		h.Write([]byte(f.Value))
	}
	h.Write([]byte(integrationKey))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// Sign appends the hash field.
func Sign(fields Fields, integrationKey string) Fields {
	signed := make(Fields, 0, len(fields)+1)
	signed = append(signed, fields...)
	return append(signed, Field{Key: hashField, Value: Hash(fields, integrationKey)})
}

// VerifyHash reports whether the fields carry a hash matching their values.
func VerifyHash(fields Fields, integrationKey string) bool {
	got := strings.ToUpper(fields.Get(hashField))
	if got == "" {
		return false
	}
	want := Hash(fields, integrationKey)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
