package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: row does not exist
//   - ErrConflict: a uniqueness constraint rejected the write (content hash, series value)
//   - ErrExpired: one-time code or session is past its expiry
//   - ErrAlreadyUsed: one-time code already consumed
//   - ErrInvalidState: row is in the wrong state for the requested write
//   - ErrUnavailable: backend temporarily unavailable (lock contention, serialization failure)
//
// Validation failures never use these; services build domain errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
