// Package naming hands out year-scoped, strictly increasing series values for
// application ids and member numbers.
//
// Counters live in the store, never in process memory, so two service
// instances cannot issue the same value. A value consumed by a rolled-back
// transaction is not reissued; series may therefore contain gaps.
package naming

import (
	"context"
	"fmt"

	id "agentreg/pkg/domain"
	"agentreg/pkg/requestcontext"
)

// Store atomically increments the (series, year) counter and returns the new value.
// Postgres implementations join the transaction carried by ctx.
type Store interface {
	Next(ctx context.Context, series string, year int) (int64, error)
}

// Generator formats series values into ids.
type Generator struct {
	store Store
}

func New(store Store) *Generator {
	return &Generator{store: store}
}

func applicationSeries(kind id.ApplicationKind) string {
	return kind.Prefix() + "-APP"
}

func memberSeries(kind id.ApplicationKind) string {
	return kind.Prefix() + "-MEM"
}

// NextApplicationID returns the next application id for kind in the
// calendar year of the request time.
func (g *Generator) NextApplicationID(ctx context.Context, kind id.ApplicationKind) (id.ApplicationID, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("unknown application kind %q", kind)
	}
	year := requestcontext.Now(ctx).Year()
	seq, err := g.store.Next(ctx, applicationSeries(kind), year)
	if err != nil {
		return "", fmt.Errorf("next application id: %w", err)
	}
	return id.FormatApplicationID(kind, year, seq), nil
}

// NextMemberNumber returns the next member number for kind.
func (g *Generator) NextMemberNumber(ctx context.Context, kind id.ApplicationKind) (id.MemberNumber, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("unknown application kind %q", kind)
	}
	year := requestcontext.Now(ctx).Year()
	seq, err := g.store.Next(ctx, memberSeries(kind), year)
	if err != nil {
		return "", fmt.Errorf("next member number: %w", err)
	}
	return id.FormatMemberNumber(kind, year, seq), nil
}
