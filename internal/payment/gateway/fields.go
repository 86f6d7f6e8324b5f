package gateway

import (
	"fmt"
	"net/url"
	"strings"
)

// Field is one form value. The integrity hash covers values in the order the
// gateway sent them, which url.Values does not preserve.
type Field struct {
	Key   string
	Value string
}

type Fields []Field

// ParseFields decodes an application/x-www-form-urlencoded body in order.
func ParseFields(raw string) (Fields, error) {
	var fields Fields
	for part := range strings.SplitSeq(strings.TrimSpace(raw), "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("decode field name: %w", err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("decode field %s: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	return fields, nil
}

// Get returns the first value for key, matched case-insensitively.
func (f Fields) Get(key string) string {
	for _, field := range f {
		if strings.EqualFold(field.Key, key) {
			return field.Value
		}
	}
	return ""
}

// Encode renders the fields in order.
func (f Fields) Encode() string {
	var b strings.Builder
	for i, field := range f {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(field.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(field.Value))
	}
	return b.String()
}
