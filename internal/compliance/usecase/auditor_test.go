package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/paytrust/internal/alert"
	"github.com/allisson/paytrust/internal/compliance/domain"
	"github.com/allisson/paytrust/internal/compliance/service"
	"github.com/allisson/paytrust/internal/compliance/usecase/mocks"
)

// recordingNotifier captures alerts and optionally fails every delivery.
type recordingNotifier struct {
	mu     sync.Mutex
	alerts []alert.Alert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, a alert.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return n.err
}

func (n *recordingNotifier) byType(alertType string) []alert.Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []alert.Alert
	for _, a := range n.alerts {
		if a.Type == alertType {
			out = append(out, a)
		}
	}
	return out
}

type auditorFixture struct {
	auditor   ComplianceAuditor
	holder    *domain.PolicyHolder
	auditRepo *mocks.MockAuditEntryRepository
	notifier  *recordingNotifier
	secret    []byte
}

func newAuditorFixture(t *testing.T, policy domain.Policy) *auditorFixture {
	t.Helper()

	validated, _, err := domain.NewPolicy(policy)
	require.NoError(t, err)
	holder := domain.NewPolicyHolder(validated)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := &recordingNotifier{}
	auditRepo := &mocks.MockAuditEntryRepository{}
	secret := []byte("0123456789abcdef0123456789abcdef")

	auditor := NewComplianceAuditor(
		holder,
		service.NewRedactor(logger, alert.NewNoopNotifier()),
		service.NewAuditSigner(),
		secret,
		auditRepo,
		notifier,
		logger,
	)

	return &auditorFixture{
		auditor:   auditor,
		holder:    holder,
		auditRepo: auditRepo,
		notifier:  notifier,
		secret:    secret,
	}
}

func basePolicy() domain.Policy {
	return domain.Policy{
		AllowedPaymentMethods:     []string{domain.MethodCard, domain.MethodWallet},
		MerchantID:                "merchant-12345678",
		MaxDataRetentionDays:      90,
		AlertOnSuspiciousActivity: true,
	}
}

func TestComplianceAuditor_Audit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CompliantExchange", func(t *testing.T) {
		policy := basePolicy()
		policy.LogAllTransactions = true
		fixture := newAuditorFixture(t, policy)

		requestID := uuid.Must(uuid.NewV7())
		var persisted *domain.AuditEntry
		fixture.auditRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*domain.AuditEntry)
			}).
			Return(nil).
			Once()

		result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
			RequestID: requestID.String(),
			Method:    domain.MethodCard,
			Data:      map[string]any{"token": "tok_abc", "amount": 5000},
			UserID:    "user-12345678",
			IP:        "203.0.113.9",
		})
		require.NoError(t, err)
		assert.True(t, result.Compliant)
		assert.Empty(t, result.Violations)
		assert.Empty(t, result.Warnings)
		assert.Empty(t, fixture.notifier.byType("compliance_violation"))

		fixture.auditRepo.AssertExpectations(t)
		require.NotNil(t, persisted)
		assert.Equal(t, requestID, persisted.RequestID)
		assert.True(t, persisted.Compliant)
		assert.Equal(t, "user****5678", persisted.UserID)
		assert.Equal(t, map[string]any{"ip": "203.0.113.9"}, persisted.Metadata)
		assert.NoError(t, service.NewAuditSigner().Verify(fixture.secret, persisted))
	})

	t.Run("Success_DisallowedMethod", func(t *testing.T) {
		fixture := newAuditorFixture(t, basePolicy())
		fixture.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
			Method: "cash",
			Data:   map[string]any{},
		})
		require.NoError(t, err)
		assert.False(t, result.Compliant)
		assert.Equal(t, []string{"Payment method not allowed: cash"}, result.Violations)

		alerts := fixture.notifier.byType("compliance_violation")
		require.Len(t, alerts, 1)
		assert.Equal(t, alert.SeverityCritical, alerts[0].Severity)
		assert.Equal(t, result.Violations, alerts[0].Context["violations"])

		fixture.auditRepo.AssertExpectations(t)
	})

	t.Run("Success_ViolationsAccumulate", func(t *testing.T) {
		fixture := newAuditorFixture(t, basePolicy())
		fixture.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
			Method: "cash",
			Data:   map[string]any{"cardNumber": "4242424242424242", "cvv": "123"},
		})
		require.NoError(t, err)
		assert.False(t, result.Compliant)
		assert.GreaterOrEqual(t, len(result.Violations), 2)
		assert.Contains(t, result.Violations, "Payment method not allowed: cash")
		assert.Contains(t, result.Violations, "Raw card number detected in request")
		assert.Contains(t, result.Violations, "CVV code detected in request")
	})

	t.Run("Success_EncryptionFlagWarningIsNotViolation", func(t *testing.T) {
		policy := basePolicy()
		policy.EnforceStrongEncryption = true
		fixture := newAuditorFixture(t, policy)

		result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
			Method: domain.MethodCard,
			Data:   map[string]any{"amount": 100},
		})
		require.NoError(t, err)
		assert.True(t, result.Compliant)
		assert.Equal(t, []string{"Request data is not marked as encrypted"}, result.Warnings)
	})

	t.Run("Success_FalsyEncryptedValuesWarn", func(t *testing.T) {
		policy := basePolicy()
		policy.EnforceStrongEncryption = true

		for _, encrypted := range []any{false, "", float64(0), nil} {
			fixture := newAuditorFixture(t, policy)
			result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
				Method: domain.MethodCard,
				Data:   map[string]any{"encrypted": encrypted},
			})
			require.NoError(t, err)
			assert.Len(t, result.Warnings, 1, "encrypted=%v should warn", encrypted)
		}
	})

	t.Run("Success_TruthyEncryptedValueDoesNotWarn", func(t *testing.T) {
		policy := basePolicy()
		policy.EnforceStrongEncryption = true
		fixture := newAuditorFixture(t, policy)

		result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
			Method: domain.MethodCard,
			Data:   map[string]any{"encrypted": true},
		})
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)
	})

	t.Run("Success_TokenizationRequired", func(t *testing.T) {
		policy := basePolicy()
		policy.RequireTokenization = true
		fixture := newAuditorFixture(t, policy)
		fixture.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
			Method: domain.MethodCard,
			Data:   map[string]any{"amount": 100},
		})
		require.NoError(t, err)
		assert.False(t, result.Compliant)
		assert.Equal(
			t,
			[]string{"Tokenization required: request carries no token or payment method reference"},
			result.Violations,
		)
	})

	t.Run("Success_PaymentMethodReferenceSatisfiesTokenization", func(t *testing.T) {
		policy := basePolicy()
		policy.RequireTokenization = true
		fixture := newAuditorFixture(t, policy)

		result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
			Method: domain.MethodCard,
			Data:   map[string]any{"paymentMethodId": "pm_1"},
		})
		require.NoError(t, err)
		assert.True(t, result.Compliant)
	})

	t.Run("Success_UnserializableDataIsViolationNotError", func(t *testing.T) {
		fixture := newAuditorFixture(t, basePolicy())
		fixture.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
			Method: domain.MethodCard,
			Data:   map[string]any{"stream": make(chan int)},
		})
		require.NoError(t, err)
		assert.False(t, result.Compliant)
		assert.Contains(t, result.Violations, "Request data could not be serialized for inspection")
	})

	t.Run("Success_AlertFailureDoesNotFailAudit", func(t *testing.T) {
		fixture := newAuditorFixture(t, basePolicy())
		fixture.notifier.err = errors.New("alert sink unreachable")
		fixture.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
			Method: "cash",
			Data:   map[string]any{},
		})
		require.NoError(t, err)
		assert.False(t, result.Compliant)
	})

	t.Run("Success_PersistFailureDoesNotFailAudit", func(t *testing.T) {
		fixture := newAuditorFixture(t, basePolicy())
		fixture.auditRepo.On("Create", mock.Anything, mock.Anything).
			Return(errors.New("database unavailable")).
			Once()

		result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
			Method: "cash",
			Data:   map[string]any{},
		})
		require.NoError(t, err)
		assert.False(t, result.Compliant)
		assert.Len(t, fixture.notifier.byType("audit_trail_gap"), 1)
	})

	t.Run("Success_CompliantExchangeNotPersistedWhenLoggingDisabled", func(t *testing.T) {
		fixture := newAuditorFixture(t, basePolicy())

		result, err := fixture.auditor.Audit(ctx, domain.AuditRequest{
			Method: domain.MethodCard,
			Data:   map[string]any{"amount": 100},
		})
		require.NoError(t, err)
		assert.True(t, result.Compliant)
		fixture.auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestComplianceAuditor_VerifyTrail(t *testing.T) {
	ctx := context.Background()

	signedEntry := func(t *testing.T, secret []byte) *domain.AuditEntry {
		t.Helper()
		entry := &domain.AuditEntry{
			ID:        uuid.Must(uuid.NewV7()),
			RequestID: uuid.Must(uuid.NewV7()),
			Method:    domain.MethodCard,
			Compliant: true,
			UserID:    "user****5678",
			CreatedAt: time.Now().UTC(),
		}
		signature, err := service.NewAuditSigner().Sign(secret, entry)
		require.NoError(t, err)
		entry.Signature = signature
		return entry
	}

	t.Run("Success_DetectsTamperedEntries", func(t *testing.T) {
		fixture := newAuditorFixture(t, basePolicy())

		valid := signedEntry(t, fixture.secret)
		tampered := signedEntry(t, fixture.secret)
		tampered.Compliant = false

		fixture.auditRepo.On("List", mock.Anything, 0, verifyTrailBatchSize, (*time.Time)(nil), (*time.Time)(nil)).
			Return([]*domain.AuditEntry{valid, tampered}, nil).
			Once()
		fixture.auditRepo.On("List", mock.Anything, 2, verifyTrailBatchSize, (*time.Time)(nil), (*time.Time)(nil)).
			Return([]*domain.AuditEntry{}, nil).
			Once()

		report, err := fixture.auditor.VerifyTrail(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), report.TotalChecked)
		assert.Equal(t, int64(1), report.ValidCount)
		assert.Equal(t, int64(1), report.InvalidCount)
		assert.Equal(t, []uuid.UUID{tampered.ID}, report.InvalidEntries)

		fixture.auditRepo.AssertExpectations(t)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		fixture := newAuditorFixture(t, basePolicy())
		fixture.auditRepo.On("List", mock.Anything, 0, verifyTrailBatchSize, (*time.Time)(nil), (*time.Time)(nil)).
			Return(nil, errors.New("database unavailable")).
			Once()

		report, err := fixture.auditor.VerifyTrail(ctx, nil, nil)
		assert.Error(t, err)
		assert.Nil(t, report)
	})
}
