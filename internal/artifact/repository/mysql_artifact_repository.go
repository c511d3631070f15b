package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	artifactDomain "github.com/allisson/paytrust/internal/artifact/domain"
	"github.com/allisson/paytrust/internal/database"
	apperrors "github.com/allisson/paytrust/internal/errors"
)

// MySQLArtifactRepository implements PaymentArtifact persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLArtifactRepository struct {
	db *sql.DB
}

// Create inserts a new payment artifact into the MySQL database.
func (m *MySQLArtifactRepository) Create(
	ctx context.Context,
	artifact *artifactDomain.PaymentArtifact,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := artifact.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal payment artifact id")
	}

	query := `INSERT INTO payment_artifacts (id, kind, content, created_at)
			  VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, artifact.Kind, artifact.Blob, artifact.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create payment artifact")
	}

	return nil
}

// GetByID retrieves a payment artifact by its identifier.
func (m *MySQLArtifactRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*artifactDomain.PaymentArtifact, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal payment artifact id")
	}

	query := `SELECT id, kind, content, created_at
			  FROM payment_artifacts
			  WHERE id = ?`

	var artifact artifactDomain.PaymentArtifact
	var rowID []byte
	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&rowID,
		&artifact.Kind,
		&artifact.Blob,
		&artifact.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, artifactDomain.ErrArtifactNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get payment artifact")
	}

	if err := artifact.ID.UnmarshalBinary(rowID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal payment artifact id")
	}

	return &artifact, nil
}

// ListOldestFirst retrieves payment artifacts ordered by created_at ascending.
// The retention sweep relies on this ordering to stop at the first record
// still inside the retention window.
func (m *MySQLArtifactRepository) ListOldestFirst(
	ctx context.Context,
	limit int,
) ([]*artifactDomain.PaymentArtifact, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, kind, content, created_at
			  FROM payment_artifacts
			  ORDER BY created_at ASC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list payment artifacts")
	}
	defer func() {
		_ = rows.Close()
	}()

	artifacts := make([]*artifactDomain.PaymentArtifact, 0)
	for rows.Next() {
		var artifact artifactDomain.PaymentArtifact
		var rowID []byte
		err := rows.Scan(&rowID, &artifact.Kind, &artifact.Blob, &artifact.CreatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan payment artifact")
		}
		if err := artifact.ID.UnmarshalBinary(rowID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal payment artifact id")
		}
		artifacts = append(artifacts, &artifact)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate payment artifacts")
	}

	return artifacts, nil
}

// Delete removes a payment artifact. Artifacts are hard-deleted: keeping
// expired encrypted payment data around defeats the retention policy.
func (m *MySQLArtifactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal payment artifact id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM payment_artifacts WHERE id = ?`, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete payment artifact")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check deleted payment artifact")
	}
	if affected == 0 {
		return artifactDomain.ErrArtifactNotFound
	}

	return nil
}

// NewMySQLArtifactRepository creates a new MySQL PaymentArtifact repository.
func NewMySQLArtifactRepository(db *sql.DB) *MySQLArtifactRepository {
	return &MySQLArtifactRepository{db: db}
}
