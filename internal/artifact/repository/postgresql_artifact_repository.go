// Package repository implements persistence for encrypted payment artifacts.
// Repositories support both PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	artifactDomain "github.com/allisson/paytrust/internal/artifact/domain"
	"github.com/allisson/paytrust/internal/database"
	apperrors "github.com/allisson/paytrust/internal/errors"
)

// PostgreSQLArtifactRepository implements PaymentArtifact persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLArtifactRepository struct {
	db *sql.DB
}

// Create inserts a new payment artifact into the PostgreSQL database.
func (p *PostgreSQLArtifactRepository) Create(
	ctx context.Context,
	artifact *artifactDomain.PaymentArtifact,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO payment_artifacts (id, kind, content, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		artifact.ID,
		artifact.Kind,
		artifact.Blob,
		artifact.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create payment artifact")
	}

	return nil
}

// GetByID retrieves a payment artifact by its identifier.
func (p *PostgreSQLArtifactRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*artifactDomain.PaymentArtifact, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, kind, content, created_at
			  FROM payment_artifacts
			  WHERE id = $1`

	var artifact artifactDomain.PaymentArtifact
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&artifact.ID,
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

	return &artifact, nil
}

// ListOldestFirst retrieves payment artifacts ordered by created_at ascending.
// The retention sweep relies on this ordering to stop at the first record
// still inside the retention window.
func (p *PostgreSQLArtifactRepository) ListOldestFirst(
	ctx context.Context,
	limit int,
) ([]*artifactDomain.PaymentArtifact, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, kind, content, created_at
			  FROM payment_artifacts
			  ORDER BY created_at ASC
			  LIMIT $1`

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
		err := rows.Scan(
			&artifact.ID,
			&artifact.Kind,
			&artifact.Blob,
			&artifact.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan payment artifact")
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
func (p *PostgreSQLArtifactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM payment_artifacts WHERE id = $1`, id)
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

// NewPostgreSQLArtifactRepository creates a new PostgreSQL PaymentArtifact repository.
func NewPostgreSQLArtifactRepository(db *sql.DB) *PostgreSQLArtifactRepository {
	return &PostgreSQLArtifactRepository{db: db}
}
