//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"agentreg/internal/application/models"
	"agentreg/internal/application/store"
	"agentreg/internal/platform/postgres"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/sentinel"
	"agentreg/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	now      time.Time
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
	s.store = store.NewPostgres(s.postgres.DB, 5*time.Second)
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"registry_decisions", "status_history", "payments", "documents", "applications")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newApp(seq int64) *models.Application {
	app, err := models.NewOrganizationApplication(id.FormatApplicationID(id.KindOrganization, 2026, seq),
		models.OrganizationProfile{
			Org:          models.OrgInfo{LegalName: "Acme Realty", Email: "office@acme.example"},
			TrustAccount: models.TrustAccount{BankName: "CBZ"},
			PREAMemberID: "IND-MEM-2025-0001",
			Directors:    []models.Director{{FullName: "T. Ncube", MemberID: "IND-MEM-2025-0001"}},
		},
		models.NewFee(true, decimal.RequireFromString("150.00"), "USD"), s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), app, models.NewHistory(app, nil, app.Status, "", "created", s.now)))
	return app
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	app := s.newApp(1)

	found, err := s.store.FindByID(context.Background(), app.ID)
	s.Require().NoError(err)
	s.Equal(app.Kind, found.Kind)
	s.Equal("Acme Realty", found.Organization.Org.LegalName)
	s.True(found.Fee.Amount.Equal(decimal.RequireFromString("150.00")))
	s.Equal(models.FeeStatusPending, found.Fee.Status)
}

func (s *PostgresStoreSuite) TestFailedCallbackRollsBack() {
	ctx := context.Background()
	app := s.newApp(2)

	_, err := s.store.Execute(ctx, app.ID, func(_ context.Context, a *models.Application) (models.Changes, error) {
		from := a.ApplyTransition(models.StatusEligibilityReview, s.now)
		return models.Changes{History: []models.StatusHistory{models.NewHistory(a, &from, a.Status, "", "", s.now)}},
			dErrors.New(dErrors.CodeMissingDocuments, "missing")
	})
	s.Require().Error(err)

	found, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusDraft, found.Status)
	history, err := s.store.ListHistory(ctx, app.ID)
	s.Require().NoError(err)
	s.Len(history, 1)
}

// TestConcurrentSubmitsTransitionOnce races guarded transitions on one row.
func (s *PostgresStoreSuite) TestConcurrentSubmitsTransitionOnce() {
	ctx := context.Background()
	app := s.newApp(3)

	const goroutines = 20
	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, app.ID, func(_ context.Context, a *models.Application) (models.Changes, error) {
				if err := a.CanTransitionTo(models.StatusEligibilityReview); err != nil {
					return models.Changes{}, err
				}
				from := a.ApplyTransition(models.StatusEligibilityReview, s.now)
				return models.Changes{History: []models.StatusHistory{models.NewHistory(a, &from, a.Status, "", "", s.now)}}, nil
			})
			if err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), succeeded.Load())
	history, err := s.store.ListHistory(ctx, app.ID)
	s.Require().NoError(err)
	s.Len(history, 2)
}

func (s *PostgresStoreSuite) TestMemberIDUnique() {
	ctx := context.Background()
	first, second := s.newApp(4), s.newApp(5)
	mint := func(_ context.Context, a *models.Application) (models.Changes, error) {
		a.Status = models.StatusAccepted
		a.ApplyMemberNumber("ORG-MEM-2026-0001")
		return models.Changes{}, nil
	}
	_, err := s.store.Execute(ctx, first.ID, mint)
	s.Require().NoError(err)
	_, err = s.store.Execute(ctx, second.ID, mint)
	s.ErrorIs(err, sentinel.ErrConflict)

	found, err := s.store.FindAcceptedByMemberID(ctx, "ORG-MEM-2026-0001")
	s.Require().NoError(err)
	s.Equal(first.ID, found.ID)
}
