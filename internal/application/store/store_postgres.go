package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agentreg/internal/application/models"
	"agentreg/internal/platform/postgres"
	id "agentreg/pkg/domain"
	"agentreg/pkg/platform/sentinel"
	"agentreg/pkg/platform/tx"
)

const memberIDConstraint = "applications_member_id_key"

// PostgresStore persists applications in PostgreSQL. Execute locks the
// application row with SELECT ... FOR UPDATE for the whole unit of work.
type PostgresStore struct {
	db        *sql.DB
	txTimeout time.Duration
}

func NewPostgres(db *sql.DB, txTimeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, txTimeout: txTimeout}
}

// profileDoc is the JSONB shape of the profile column.
type profileDoc struct {
	Individual   *models.IndividualProfile   `json:"individual,omitempty"`
	Organization *models.OrganizationProfile `json:"organization,omitempty"`
}

const selectApplication = `
	SELECT id, kind, status, applicant_email, profile, mature_entry,
		fee_required, fee_amount, fee_currency, fee_status, fee_proof_document_id, fee_reference,
		member_id, created_at, updated_at
	FROM applications
`

func (s *PostgresStore) Create(ctx context.Context, app *models.Application, history models.StatusHistory) error {
	if app == nil {
		return fmt.Errorf("application is required")
	}
	return postgres.RunInTx(ctx, s.db, s.txTimeout, func(t *sql.Tx) error {
		txCtx := tx.WithTx(ctx, t)
		profile, err := json.Marshal(profileDoc{Individual: app.Individual, Organization: app.Organization})
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		query := `
			INSERT INTO applications (id, kind, status, applicant_email, profile, mature_entry, director_count,
				prea_member_id, fee_required, fee_amount, fee_currency, fee_status, fee_proof_document_id,
				fee_reference, member_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`
		_, err = t.ExecContext(txCtx, query,
			app.ID.String(),
			string(app.Kind),
			string(app.Status),
			app.ApplicantEmail,
			profile,
			app.MatureEntry,
			app.DirectorCount(),
			nullString(preaMemberID(app)),
			app.Fee.Required,
			app.Fee.Amount,
			app.Fee.Currency,
			string(app.Fee.Status),
			proofID(app),
			nullString(app.Fee.Reference),
			nullString(app.MemberID.String()),
			app.CreatedAt,
			app.UpdatedAt,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err, "") {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert application: %w", err)
		}
		return insertHistory(txCtx, t, []models.StatusHistory{history})
	})
}

func (s *PostgresStore) FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx, selectApplication+` WHERE id = $1`, appID.String())
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

// Execute loads the row FOR UPDATE, runs fn and writes the application and
// its changes in the same transaction. fn may be invoked again if the
// transaction is retried after a serialization failure.
func (s *PostgresStore) Execute(ctx context.Context, appID id.ApplicationID, fn models.MutateFunc) (*models.Application, error) {
	var result *models.Application
	err := postgres.RunInTx(ctx, s.db, s.txTimeout, func(t *sql.Tx) error {
		txCtx := tx.WithTx(ctx, t)
		row := t.QueryRowContext(txCtx, selectApplication+` WHERE id = $1 FOR UPDATE`, appID.String())
		app, err := scanApplication(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("lock application: %w", err)
		}

		changes, err := fn(txCtx, app)
		if err != nil {
			return err
		}
		if err := updateApplication(txCtx, t, app); err != nil {
			return err
		}
		if err := insertHistory(txCtx, t, changes.History); err != nil {
			return err
		}
		if changes.Decision != nil {
			if err := insertDecision(txCtx, t, changes.Decision); err != nil {
				return err
			}
		}
		result = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func updateApplication(ctx context.Context, t *sql.Tx, app *models.Application) error {
	query := `
		UPDATE applications SET
			status = $2,
			fee_status = $3,
			fee_proof_document_id = $4,
			fee_reference = $5,
			member_id = $6,
			updated_at = $7
		WHERE id = $1
	`
	_, err := t.ExecContext(ctx, query,
		app.ID.String(),
		string(app.Status),
		string(app.Fee.Status),
		proofID(app),
		nullString(app.Fee.Reference),
		nullString(app.MemberID.String()),
		app.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, memberIDConstraint) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update application: %w", err)
	}
	return nil
}

func insertHistory(ctx context.Context, t *sql.Tx, rows []models.StatusHistory) error {
	query := `
		INSERT INTO status_history (id, application_id, application_kind, from_status, to_status, actor, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, h := range rows {
		var from sql.NullString
		if h.FromStatus != nil {
			from = sql.NullString{String: string(*h.FromStatus), Valid: true}
		}
		_, err := t.ExecContext(ctx, query,
			h.ID,
			h.ApplicationID.String(),
			string(h.ApplicationKind),
			from,
			string(h.ToStatus),
			nullString(h.Actor),
			h.Comment,
			h.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert status history: %w", err)
		}
	}
	return nil
}

func insertDecision(ctx context.Context, t *sql.Tx, d *models.RegistryDecision) error {
	reasons, err := json.Marshal(d.Reasons)
	if err != nil {
		return fmt.Errorf("marshal decision reasons: %w", err)
	}
	query := `
		INSERT INTO registry_decisions (id, application_id, outcome, reasons, actor, member_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = t.ExecContext(ctx, query,
		d.ID,
		d.ApplicationID.String(),
		string(d.Outcome),
		reasons,
		d.Actor,
		nullString(d.MemberID.String()),
		d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert registry decision: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListHistory(ctx context.Context, appID id.ApplicationID) ([]models.StatusHistory, error) {
	if _, err := s.FindByID(ctx, appID); err != nil {
		return nil, err
	}
	query := `
		SELECT id, application_id, application_kind, from_status, to_status, actor, comment, created_at
		FROM status_history
		WHERE application_id = $1
		ORDER BY created_at, id
	`
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, appID.String())
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var out []models.StatusHistory
	for rows.Next() {
		var (
			h      models.StatusHistory
			appIDs string
			kind   string
			from   sql.NullString
			to     string
			actor  sql.NullString
		)
		if err := rows.Scan(&h.ID, &appIDs, &kind, &from, &to, &actor, &h.Comment, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		h.ApplicationID = id.ApplicationID(appIDs)
		h.ApplicationKind = id.ApplicationKind(kind)
		if from.Valid {
			f := models.Status(from.String)
			h.FromStatus = &f
		}
		h.ToStatus = models.Status(to)
		h.Actor = actor.String
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status history: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListDecisions(ctx context.Context, appID id.ApplicationID) ([]models.RegistryDecision, error) {
	if _, err := s.FindByID(ctx, appID); err != nil {
		return nil, err
	}
	query := `
		SELECT id, application_id, outcome, reasons, actor, member_id, created_at
		FROM registry_decisions
		WHERE application_id = $1
		ORDER BY created_at, id
	`
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, appID.String())
	if err != nil {
		return nil, fmt.Errorf("list registry decisions: %w", err)
	}
	defer rows.Close()

	var out []models.RegistryDecision
	for rows.Next() {
		var (
			d        models.RegistryDecision
			appIDs   string
			outcome  string
			reasons  []byte
			memberID sql.NullString
		)
		if err := rows.Scan(&d.ID, &appIDs, &outcome, &reasons, &d.Actor, &memberID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registry decision: %w", err)
		}
		if err := json.Unmarshal(reasons, &d.Reasons); err != nil {
			return nil, fmt.Errorf("unmarshal decision reasons: %w", err)
		}
		d.ApplicationID = id.ApplicationID(appIDs)
		d.Outcome = models.DecisionOutcome(outcome)
		d.MemberID = id.MemberNumber(memberID.String)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registry decisions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindAcceptedByMemberID(ctx context.Context, memberID id.MemberNumber) (*models.Application, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		selectApplication+` WHERE member_id = $1 AND status = $2`, memberID.String(), string(models.StatusAccepted))
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return app, nil
}

func scanApplication(row *sql.Row) (*models.Application, error) {
	var (
		app       models.Application
		appID     string
		kind      string
		status    string
		profile   []byte
		feeStatus string
		proof     uuid.NullUUID
		reference sql.NullString
		memberID  sql.NullString
	)
	err := row.Scan(
		&appID, &kind, &status, &app.ApplicantEmail, &profile, &app.MatureEntry,
		&app.Fee.Required, &app.Fee.Amount, &app.Fee.Currency, &feeStatus, &proof, &reference,
		&memberID, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	var doc profileDoc
	if err := json.Unmarshal(profile, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	app.ID = id.ApplicationID(appID)
	app.Kind = id.ApplicationKind(kind)
	app.Status = models.Status(status)
	app.Individual = doc.Individual
	app.Organization = doc.Organization
	app.Fee.Status = models.FeeStatus(feeStatus)
	if proof.Valid {
		docID := id.DocumentID(proof.UUID)
		app.Fee.ProofDocumentID = &docID
	}
	app.Fee.Reference = reference.String
	app.MemberID = id.MemberNumber(memberID.String)
	return &app, nil
}

func proofID(app *models.Application) uuid.NullUUID {
	if app.Fee.ProofDocumentID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*app.Fee.ProofDocumentID), Valid: true}
}

func preaMemberID(app *models.Application) string {
	if app.Organization == nil {
		return ""
	}
	return app.Organization.PREAMemberID
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
