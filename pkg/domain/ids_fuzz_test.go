//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseApplicationID tests that parsing never panics on arbitrary input
// and always returns either a valid ID or an error.
func FuzzParseApplicationID(f *testing.F) {
	f.Add("")
	f.Add("IND-APP-2024-0001")
	f.Add("ORG-APP-2024-99999999")
	f.Add("'; DROP TABLE applications;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("IND-APP-2024-0001\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		appID, err := ParseApplicationID(input)
		if err == nil {
			roundTrip, err2 := ParseApplicationID(appID.String())
			if err2 != nil {
				t.Errorf("valid id failed round-trip: %v", err2)
			}
			if roundTrip != appID {
				t.Error("round-trip changed id value")
			}
			if appID.Kind() == "" {
				t.Error("valid id has no kind")
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}
