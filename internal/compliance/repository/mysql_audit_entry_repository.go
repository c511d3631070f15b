package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	complianceDomain "github.com/allisson/paytrust/internal/compliance/domain"
	"github.com/allisson/paytrust/internal/database"
	apperrors "github.com/allisson/paytrust/internal/errors"
)

// MySQLAuditEntryRepository implements AuditEntry persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAuditEntryRepository struct {
	db *sql.DB
}

// Create inserts a new audit entry into the MySQL database using BINARY(16)
// for UUIDs. Handles nil metadata as database NULL.
func (m *MySQLAuditEntryRepository) Create(
	ctx context.Context,
	entry *complianceDomain.AuditEntry,
) error {
	querier := database.GetTx(ctx, m.db)

	var metadataJSON []byte
	var err error
	if entry.Metadata != nil {
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit entry metadata")
		}
	}

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry id")
	}

	requestID, err := entry.RequestID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry request_id")
	}

	query := `INSERT INTO audit_entries
			  (id, request_id, method, compliant, violation_count, warning_count, user_id, metadata, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		requestID,
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
func (m *MySQLAuditEntryRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*complianceDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal audit entry id")
	}

	query := `SELECT id, request_id, method, compliant, violation_count, warning_count, user_id, metadata, signature, created_at
			  FROM audit_entries
			  WHERE id = ?`

	entry, err := scanMySQLAuditEntry(querier.QueryRowContext(ctx, query, idBytes))
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
func (m *MySQLAuditEntryRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*complianceDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, request_id, method, compliant, violation_count, warning_count, user_id, metadata, signature, created_at
			  FROM audit_entries`
	args := []any{}

	if createdAtFrom != nil {
		query += " WHERE created_at >= ?"
		args = append(args, *createdAtFrom)
	}
	if createdAtTo != nil {
		if createdAtFrom != nil {
			query += " AND created_at <= ?"
		} else {
			query += " WHERE created_at <= ?"
		}
		args = append(args, *createdAtTo)
	}

	query += " ORDER BY created_at ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*complianceDomain.AuditEntry, 0)
	for rows.Next() {
		entry, err := scanMySQLAuditEntry(rows)
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
func (m *MySQLAuditEntryRepository) DeleteCreatedBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM audit_entries WHERE created_at < ?`,
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

// NewMySQLAuditEntryRepository creates a new MySQL AuditEntry repository.
func NewMySQLAuditEntryRepository(db *sql.DB) *MySQLAuditEntryRepository {
	return &MySQLAuditEntryRepository{db: db}
}

// scanMySQLAuditEntry scans one audit entry row, decoding BINARY(16) UUIDs
// and handling NULL metadata.
func scanMySQLAuditEntry(row rowScanner) (*complianceDomain.AuditEntry, error) {
	var entry complianceDomain.AuditEntry
	var idBytes, requestIDBytes, metadataJSON []byte

	err := row.Scan(
		&idBytes,
		&requestIDBytes,
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

	if err := entry.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit entry id")
	}
	if err := entry.RequestID.UnmarshalBinary(requestIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit entry request_id")
	}

	if metadataJSON != nil {
		if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit entry metadata")
		}
	}

	return &entry, nil
}
