package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	complianceDomain "github.com/allisson/paytrust/internal/compliance/domain"
)

func mustBinaryUUID(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLAuditEntryRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_BinaryUUIDs", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLAuditEntryRepository(db)
		entry := testEntry(t)

		metadataJSON, err := json.Marshal(entry.Metadata)
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_entries")).
			WithArgs(
				mustBinaryUUID(t, entry.ID), mustBinaryUUID(t, entry.RequestID),
				entry.Method, entry.Compliant, entry.ViolationCount,
				entry.WarningCount, entry.UserID, metadataJSON,
				entry.Signature, entry.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, entry))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DatabaseFailure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLAuditEntryRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_entries")).
			WillReturnError(errors.New("connection refused"))

		err := repo.Create(ctx, testEntry(t))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create audit entry")
	})
}

func TestMySQLAuditEntryRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLAuditEntryRepository(db)
		entry := testEntry(t)

		metadataJSON, err := json.Marshal(entry.Metadata)
		require.NoError(t, err)

		mock.ExpectQuery(regexp.QuoteMeta("FROM audit_entries")).
			WithArgs(mustBinaryUUID(t, entry.ID)).
			WillReturnRows(sqlmock.NewRows(auditEntryColumns).AddRow(
				mustBinaryUUID(t, entry.ID), mustBinaryUUID(t, entry.RequestID),
				entry.Method, entry.Compliant, entry.ViolationCount,
				entry.WarningCount, entry.UserID, metadataJSON,
				entry.Signature, entry.CreatedAt,
			))

		got, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry, got)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLAuditEntryRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(regexp.QuoteMeta("FROM audit_entries")).
			WithArgs(mustBinaryUUID(t, id)).
			WillReturnError(sql.ErrNoRows)

		got, err := repo.GetByID(ctx, id)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, complianceDomain.ErrAuditEntryNotFound)
	})
}

func TestMySQLAuditEntryRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_TimeRangeFilters", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLAuditEntryRepository(db)
		entry := testEntry(t)

		from := time.Now().UTC().Add(-24 * time.Hour)
		to := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta(
			"WHERE created_at >= ? AND created_at <= ? ORDER BY created_at ASC LIMIT ? OFFSET ?",
		)).
			WithArgs(from, to, 50, 0).
			WillReturnRows(sqlmock.NewRows(auditEntryColumns).AddRow(
				mustBinaryUUID(t, entry.ID), mustBinaryUUID(t, entry.RequestID),
				entry.Method, entry.Compliant, entry.ViolationCount,
				entry.WarningCount, entry.UserID, nil,
				entry.Signature, entry.CreatedAt,
			))

		entries, err := repo.List(ctx, 0, 50, &from, &to)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entry.ID, entries[0].ID)
		assert.Nil(t, entries[0].Metadata)
	})

	t.Run("Error_QueryFailure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLAuditEntryRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM audit_entries")).
			WillReturnError(errors.New("connection refused"))

		entries, err := repo.List(ctx, 0, 50, nil, nil)
		assert.Nil(t, entries)
		assert.Error(t, err)
	})
}

func TestMySQLAuditEntryRepository_DeleteCreatedBefore(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReturnsDeletedCount", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLAuditEntryRepository(db)
		cutoff := time.Now().UTC().Add(-90 * 24 * time.Hour)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM audit_entries WHERE created_at < ?")).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 3))

		deleted, err := repo.DeleteCreatedBefore(ctx, cutoff)
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
	})
}
