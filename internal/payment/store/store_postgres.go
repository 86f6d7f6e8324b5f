package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"agentreg/internal/payment/models"
	"agentreg/internal/platform/postgres"
	id "agentreg/pkg/domain"
	"agentreg/pkg/platform/sentinel"
	"agentreg/pkg/platform/tx"
)

// PostgresStore persists payments in the payments table.
type PostgresStore struct {
	db        *sql.DB
	txTimeout time.Duration
}

func NewPostgres(db *sql.DB, txTimeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, txTimeout: txTimeout}
}

const selectPayment = `
	SELECT reference, application_id, amount, currency, status, poll_url, created_at, updated_at
	FROM payments
`

func (s *PostgresStore) Create(ctx context.Context, p *models.Payment) error {
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO payments (reference, application_id, amount, currency, status, poll_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		p.Reference,
		p.ApplicationID.String(),
		p.Amount.StringFixed(2),
		p.Currency,
		string(p.Status),
		p.PollURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return fmt.Errorf("payment %s: %w", p.Reference, sentinel.ErrConflict)
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByReference(ctx context.Context, reference string) (*models.Payment, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx, selectPayment+` WHERE reference = $1`, reference)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", reference, sentinel.ErrNotFound)
	}
	return p, err
}

func (s *PostgresStore) ListByApplication(ctx context.Context, appID id.ApplicationID) ([]*models.Payment, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx,
		selectPayment+` WHERE application_id = $1 ORDER BY created_at, reference`, appID.String())
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ApplyStatus locks the row so concurrent callbacks for the same reference
// apply one after the other.
func (s *PostgresStore) ApplyStatus(ctx context.Context, reference string, status models.Status, now time.Time) (*models.Payment, bool, error) {
	var (
		result  *models.Payment
		changed bool
	)
	err := postgres.RunInTx(ctx, s.db, s.txTimeout, func(t *sql.Tx) error {
		p, err := scanPayment(t.QueryRowContext(ctx, selectPayment+` WHERE reference = $1 FOR UPDATE`, reference))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("payment %s: %w", reference, sentinel.ErrNotFound)
			}
			return err
		}
		changed = p.ApplyStatus(status, now)
		if changed {
			if _, err := t.ExecContext(ctx,
				`UPDATE payments SET status = $2, updated_at = $3 WHERE reference = $1`,
				reference, string(p.Status), p.UpdatedAt,
			); err != nil {
				return fmt.Errorf("update payment: %w", err)
			}
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, changed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var (
		p      models.Payment
		appID  string
		amount string
		status string
	)
	if err := row.Scan(&p.Reference, &appID, &amount, &p.Currency, &status, &p.PollURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("decode payment amount: %w", err)
	}
	p.ApplicationID = id.ApplicationID(appID)
	p.Amount = parsed
	p.Status = models.Status(status)
	return &p, nil
}
