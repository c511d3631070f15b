// Package repository implements persistence for the signed compliance audit
// trail. Repositories support both PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	complianceDomain "github.com/allisson/paytrust/internal/compliance/domain"
	"github.com/allisson/paytrust/internal/database"
	apperrors "github.com/allisson/paytrust/internal/errors"
)

// PostgreSQLAuditEntryRepository implements AuditEntry persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAuditEntryRepository struct {
	db *sql.DB
}

// Create inserts a new audit entry into the PostgreSQL database. Handles nil
// metadata as database NULL.
func (p *PostgreSQLAuditEntryRepository) Create(
	ctx context.Context,
	entry *complianceDomain.AuditEntry,
) error {
	querier := database.GetTx(ctx, p.db)

	var metadataJSON []byte
	var err error
	if entry.Metadata != nil {
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit entry metadata")
		}
	}

	query := `INSERT INTO audit_entries
			  (id, request_id, method, compliant, violation_count, warning_count, user_id, metadata, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.RequestID,
		entry.Method,
		entry.Compliant,
		entry.ViolationCount,
		entry.WarningCount,
		entry.UserID,
		metadataJSON,
		entry.Signature,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}

	return nil
}

// GetByID retrieves an audit entry by its identifier.
func (p *PostgreSQLAuditEntryRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*complianceDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, request_id, method, compliant, violation_count, warning_count, user_id, metadata, signature, created_at
			  FROM audit_entries
			  WHERE id = $1`

	entry, err := scanAuditEntry(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, complianceDomain.ErrAuditEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get audit entry")
	}

	return entry, nil
}

// List retrieves audit entries ordered by created_at ascending with pagination
// and optional inclusive time filters (nil means no filter).
func (p *PostgreSQLAuditEntryRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*complianceDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, request_id, method, compliant, violation_count, warning_count, user_id, metadata, signature, created_at
			  FROM audit_entries`
	args := []any{}

	if createdAtFrom != nil {
		args = append(args, *createdAtFrom)
		query += fmt.Sprintf(" WHERE created_at >= $%d", len(args))
	}
	if createdAtTo != nil {
		args = append(args, *createdAtTo)
		if createdAtFrom != nil {
			query += fmt.Sprintf(" AND created_at <= $%d", len(args))
		} else {
			query += fmt.Sprintf(" WHERE created_at <= $%d", len(args))
		}
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at ASC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*complianceDomain.AuditEntry, 0)
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}

	return entries, nil
}

// DeleteCreatedBefore removes audit entries created strictly before the
// cutoff and returns the number of entries removed.
func (p *PostgreSQLAuditEntryRepository) DeleteCreatedBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM audit_entries WHERE created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired audit entries")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted audit entries")
	}

	return affected, nil
}

// NewPostgreSQLAuditEntryRepository creates a new PostgreSQL AuditEntry repository.
func NewPostgreSQLAuditEntryRepository(db *sql.DB) *PostgreSQLAuditEntryRepository {
	return &PostgreSQLAuditEntryRepository{db: db}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAuditEntry scans one audit entry row, handling NULL metadata.
func scanAuditEntry(row rowScanner) (*complianceDomain.AuditEntry, error) {
	var entry complianceDomain.AuditEntry
	var metadataJSON []byte

	err := row.Scan(
		&entry.ID,
		&entry.RequestID,
		&entry.Method,
		&entry.Compliant,
		&entry.ViolationCount,
		&entry.WarningCount,
		&entry.UserID,
		&metadataJSON,
		&entry.Signature,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if metadataJSON != nil {
		if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit entry metadata")
		}
	}

	return &entry, nil
}
