//go:build integration

package naming_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"agentreg/internal/naming"
	"agentreg/internal/platform/postgres"
	"agentreg/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *naming.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(postgres.Migrate(context.Background(), s.postgres.DB))
	s.store = naming.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "naming_series"))
}

func (s *PostgresStoreSuite) TestConcurrentIncrementsAreDistinct() {
	ctx := context.Background()
	const goroutines = 40

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int64]bool)
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.store.Next(ctx, "ORG-MEM", 2026)
			s.NoError(err)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Len(seen, goroutines)
	s.True(seen[1])
	s.True(seen[goroutines])
}

func (s *PostgresStoreSuite) TestYearsAreIndependent() {
	ctx := context.Background()
	_, err := s.store.Next(ctx, "IND-APP", 2026)
	s.Require().NoError(err)

	v, err := s.store.Next(ctx, "IND-APP", 2027)
	s.Require().NoError(err)
	s.Equal(int64(1), v)
}
