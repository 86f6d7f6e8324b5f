// Package validator checks uploaded bytes against the per-type upload policy.
//
// The validator is pure: callers fetch the bytes from blob storage first and
// persist nothing based on a result whose IsValid is false.
package validator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"agentreg/internal/documents/models"
)

// FileInfo describes validated content.
type FileInfo struct {
	Hash         string `json:"hash"`
	DetectedType string `json:"detected_type"`
	Size         int64  `json:"size"`
}

// Result is the full outcome of one validation. Errors lists every failing
// check, not only the first.
type Result struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	FileInfo FileInfo `json:"file_info"`
}

// Input is what the caller knows about an upload.
type Input struct {
	Data         []byte
	FileName     string
	DeclaredType string
	DocType      models.DocType
}

// Validator applies upload policies. The zero value uses the per-type
// policies unchanged.
type Validator struct {
	maxBytes int64
}

type Option func(*Validator)

// WithMaxBytes caps every policy at n bytes. Values <= 0 are ignored.
func WithMaxBytes(n int64) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxBytes = n
		}
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
}

var declaredAliases = map[string]string{
	"image/jpg":   "image/jpeg",
	"image/pjpeg": "image/jpeg",
	"image/x-png": "image/png",
	"image/svg":   "image/svg+xml",
}

// Validate runs every check against in and returns the accumulated result.
func (v *Validator) Validate(in Input) Result {
	policy := models.PolicyFor(in.DocType)
	maxBytes := policy.MaxBytes
	if v.maxBytes > 0 && v.maxBytes < maxBytes {
		maxBytes = v.maxBytes
	}

	size := int64(len(in.Data))
	sum := sha256.Sum256(in.Data)
	res := Result{
		FileInfo: FileInfo{
			Hash: hex.EncodeToString(sum[:]),
			Size: size,
		},
	}

	if size == 0 {
		res.Errors = append(res.Errors, "file is empty")
	}
	if size > maxBytes {
		res.Errors = append(res.Errors, fmt.Sprintf("file is %d bytes; the maximum is %d bytes", size, maxBytes))
	}

	detected := mimetype.Detect(in.Data)
	detectedType := baseType(detected.String())
	res.FileInfo.DetectedType = detectedType

	ext := strings.ToLower(filepath.Ext(in.FileName))
	switch {
	case ext == "":
		res.Errors = append(res.Errors, "file name has no extension")
	case !policy.AllowsExtension(ext):
		res.Errors = append(res.Errors, fmt.Sprintf("extension %s is not allowed", ext))
	case size > 0 && extensionTypes[ext] != detectedType:
		res.Errors = append(res.Errors, fmt.Sprintf("extension %s does not match file content (%s)", ext, detectedType))
	}

	if size > 0 && !policy.AllowsType(detectedType) {
		res.Errors = append(res.Errors, fmt.Sprintf("file content type %s is not allowed", detectedType))
	}

	declared := normalizeDeclared(in.DeclaredType)
	switch {
	case declared == "":
		res.Warnings = append(res.Warnings, "no content type declared; using detected type")
	case size > 0 && !detected.Is(declared) && declared != detectedType:
		res.Errors = append(res.Errors, fmt.Sprintf("declared content type %s does not match file content (%s)", declared, detectedType))
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

func normalizeDeclared(s string) string {
	s = baseType(strings.ToLower(strings.TrimSpace(s)))
	if alias, ok := declaredAliases[s]; ok {
		return alias
	}
	return s
}

func baseType(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
