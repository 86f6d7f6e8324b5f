package service

import (
	"errors"

	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/sentinel"
)

// wrapStoreErr translates store sentinels into domain errors. Domain errors
// returned from inside an Execute callback pass through unchanged.
func wrapStoreErr(err error, action string) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "application not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "concurrent update conflict, retry the request")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "application store unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
}
