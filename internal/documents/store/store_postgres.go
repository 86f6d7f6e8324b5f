package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agentreg/internal/documents/models"
	"agentreg/internal/platform/postgres"
	id "agentreg/pkg/domain"
	"agentreg/pkg/platform/sentinel"
	"agentreg/pkg/platform/tx"
)

const contentHashConstraint = "documents_content_hash_key"

// PostgresStore persists documents in PostgreSQL. The content-hash unique
// constraint, not a prior lookup, decides duplicates.
type PostgresStore struct {
	db        *sql.DB
	txTimeout time.Duration
}

func NewPostgres(db *sql.DB, txTimeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, txTimeout: txTimeout}
}

const selectDocument = `
	SELECT id, application_id, application_kind, doc_type, file_name, storage_key, content_type,
		size_bytes, content_hash, status, review_reason, reviewed_by, created_at, updated_at
	FROM documents
`

// singletonUpsert must name the same predicate as documents_singleton_idx.
var singletonUpsert = func() string {
	types := models.SingletonTypes()
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = "'" + t.String() + "'"
	}
	return `
		ON CONFLICT (application_id, doc_type) WHERE doc_type IN (` + strings.Join(quoted, ", ") + `)
		DO UPDATE SET
			file_name = EXCLUDED.file_name,
			storage_key = EXCLUDED.storage_key,
			content_type = EXCLUDED.content_type,
			size_bytes = EXCLUDED.size_bytes,
			content_hash = EXCLUDED.content_hash,
			status = EXCLUDED.status,
			review_reason = '',
			reviewed_by = NULL,
			updated_at = EXCLUDED.updated_at
	`
}()

func (s *PostgresStore) Save(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}
	query := `
		INSERT INTO documents (id, application_id, application_kind, doc_type, file_name, storage_key,
			content_type, size_bytes, content_hash, status, review_reason, reviewed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '', NULL, $11, $12)
	`
	if doc.DocType.IsSingleton() {
		query += singletonUpsert
	}
	query += ` RETURNING id, created_at`

	stored := *doc
	var docID uuid.UUID
	err := tx.Exec(ctx, s.db).QueryRowContext(ctx, query,
		uuid.UUID(doc.ID),
		doc.ApplicationID.String(),
		string(doc.ApplicationKind),
		doc.DocType.String(),
		doc.FileName,
		doc.StorageKey,
		doc.ContentType,
		doc.SizeBytes,
		doc.ContentHash,
		string(models.StatusUploaded),
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&docID, &stored.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err, contentHashConstraint) {
			return nil, sentinel.ErrAlreadyUsed
		}
		return nil, fmt.Errorf("save document: %w", err)
	}
	stored.ID = id.DocumentID(docID)
	stored.Status = models.StatusUploaded
	stored.ReviewReason = ""
	stored.ReviewedBy = ""
	return &stored, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx, selectDocument+` WHERE id = $1`, uuid.UUID(docID))
	return scanDocumentRow(row)
}

func (s *PostgresStore) FindByHash(ctx context.Context, hash string) (*models.Document, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx, selectDocument+` WHERE content_hash = $1`, hash)
	return scanDocumentRow(row)
}

func (s *PostgresStore) ListByApplication(ctx context.Context, appID id.ApplicationID) ([]*models.Document, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx,
		selectDocument+` WHERE application_id = $1 ORDER BY created_at, id`, appID.String())
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// Execute locks the document row, runs fn and writes the review fields back.
func (s *PostgresStore) Execute(ctx context.Context, docID id.DocumentID, fn func(d *models.Document) error) (*models.Document, error) {
	var result *models.Document
	err := postgres.RunInTx(ctx, s.db, s.txTimeout, func(t *sql.Tx) error {
		txCtx := tx.WithTx(ctx, t)
		d, err := scanDocumentRow(t.QueryRowContext(txCtx, selectDocument+` WHERE id = $1 FOR UPDATE`, uuid.UUID(docID)))
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
		_, err = t.ExecContext(txCtx, `
			UPDATE documents SET status = $2, review_reason = $3, reviewed_by = $4, updated_at = $5
			WHERE id = $1
		`, uuid.UUID(d.ID), string(d.Status), d.ReviewReason, nullString(d.ReviewedBy), d.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update document review: %w", err)
		}
		result = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocumentRow(row *sql.Row) (*models.Document, error) {
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return d, nil
}

func scanDocument(row scanner) (*models.Document, error) {
	var (
		d          models.Document
		docID      uuid.UUID
		appID      string
		kind       string
		docType    string
		status     string
		reviewedBy sql.NullString
	)
	err := row.Scan(&docID, &appID, &kind, &docType, &d.FileName, &d.StorageKey, &d.ContentType,
		&d.SizeBytes, &d.ContentHash, &status, &d.ReviewReason, &reviewedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.ID = id.DocumentID(docID)
	d.ApplicationID = id.ApplicationID(appID)
	d.ApplicationKind = id.ApplicationKind(kind)
	d.DocType = models.DocType(docType)
	d.Status = models.Status(status)
	d.ReviewedBy = reviewedBy.String
	return &d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
