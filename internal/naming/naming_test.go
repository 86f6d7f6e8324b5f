package naming

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "agentreg/pkg/domain"
	"agentreg/pkg/requestcontext"
)

func at(year int) context.Context {
	return requestcontext.WithTime(context.Background(), time.Date(year, 3, 1, 0, 0, 0, 0, time.UTC))
}

func TestGenerator_SeriesArePerKindAndYear(t *testing.T) {
	g := New(NewInMemoryStore())

	first, err := g.NextApplicationID(at(2026), id.KindIndividual)
	require.NoError(t, err)
	second, err := g.NextApplicationID(at(2026), id.KindIndividual)
	require.NoError(t, err)
	org, err := g.NextApplicationID(at(2026), id.KindOrganization)
	require.NoError(t, err)
	nextYear, err := g.NextApplicationID(at(2027), id.KindIndividual)
	require.NoError(t, err)

	assert.Equal(t, id.ApplicationID("IND-APP-2026-0001"), first)
	assert.Equal(t, id.ApplicationID("IND-APP-2026-0002"), second)
	assert.Equal(t, id.ApplicationID("ORG-APP-2026-0001"), org)
	assert.Equal(t, id.ApplicationID("IND-APP-2027-0001"), nextYear)
}

func TestGenerator_MemberNumbersIndependentOfApplicationIDs(t *testing.T) {
	g := New(NewInMemoryStore())
	_, err := g.NextApplicationID(at(2026), id.KindIndividual)
	require.NoError(t, err)

	m, err := g.NextMemberNumber(at(2026), id.KindIndividual)
	require.NoError(t, err)
	assert.Equal(t, id.MemberNumber("IND-MEM-2026-0001"), m)
}

func TestGenerator_RejectsUnknownKind(t *testing.T) {
	_, err := New(NewInMemoryStore()).NextApplicationID(at(2026), id.ApplicationKind("trust"))
	assert.Error(t, err)
}

func TestInMemoryStore_ConcurrentCallersGetDistinctValues(t *testing.T) {
	store := NewInMemoryStore()
	const callers = 100

	var wg sync.WaitGroup
	values := make(chan int64, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := store.Next(context.Background(), "IND-APP", 2026)
			if err == nil {
				values <- v
			}
		}()
	}
	wg.Wait()
	close(values)

	seen := make(map[int64]bool)
	for v := range values {
		assert.False(t, seen[v], "duplicate value %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, callers)
}
