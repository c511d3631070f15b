package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	apikeyService "github.com/allisson/paytrust/internal/apikey/service"
	artifactHTTP "github.com/allisson/paytrust/internal/artifact/http"
	artifactRepository "github.com/allisson/paytrust/internal/artifact/repository"
	artifactUseCase "github.com/allisson/paytrust/internal/artifact/usecase"
	complianceDomain "github.com/allisson/paytrust/internal/compliance/domain"
	complianceHTTP "github.com/allisson/paytrust/internal/compliance/http"
	complianceRepository "github.com/allisson/paytrust/internal/compliance/repository"
	complianceService "github.com/allisson/paytrust/internal/compliance/service"
	complianceUseCase "github.com/allisson/paytrust/internal/compliance/usecase"
	cryptoService "github.com/allisson/paytrust/internal/crypto/service"
	"github.com/allisson/paytrust/internal/database"
	idempotencyService "github.com/allisson/paytrust/internal/idempotency/service"
	webhookHTTP "github.com/allisson/paytrust/internal/webhook/http"
)

// kmsUnwrapTimeout bounds the startup call to the external key service.
const kmsUnwrapTimeout = 10 * time.Second

// complianceComponents groups the compliance, crypto, and artifact wiring of
// the container.
type complianceComponents struct {
	encryptionSecret  []byte
	policies          *complianceDomain.PolicyHolder
	redactor          *complianceService.Redactor
	signatureVerifier *cryptoService.SignatureVerifier
	cryptoBox         *cryptoService.CryptoBox
	retention         *complianceService.RetentionPolicy
	keyGenerator      *idempotencyService.KeyGenerator
	apiKeyService     apikeyService.APIKeyService

	auditRepo    complianceUseCase.AuditEntryRepository
	artifactRepo artifactUseCase.ArtifactRepository

	auditor         complianceUseCase.ComplianceAuditor
	artifactUseCase artifactUseCase.ArtifactUseCase

	complianceHandler *complianceHTTP.ComplianceHandler
	auditEntryHandler *complianceHTTP.AuditEntryHandler
	artifactHandler   *artifactHTTP.ArtifactHandler
	webhookHandler    *webhookHTTP.WebhookHandler

	encryptionSecretInit  sync.Once
	policiesInit          sync.Once
	redactorInit          sync.Once
	signatureVerifierInit sync.Once
	cryptoBoxInit         sync.Once
	retentionInit         sync.Once
	keyGeneratorInit      sync.Once
	apiKeyServiceInit     sync.Once
	auditRepoInit         sync.Once
	artifactRepoInit      sync.Once
	auditorInit           sync.Once
	artifactUseCaseInit   sync.Once
	complianceHandlerInit sync.Once
	auditEntryHandlerInit sync.Once
	artifactHandlerInit   sync.Once
	webhookHandlerInit    sync.Once
}

// EncryptionSecret returns the service encryption secret. A KMS-wrapped secret
// takes precedence over the plain environment value and is unwrapped once at
// startup.
func (c *Container) EncryptionSecret() ([]byte, error) {
	c.complianceInit.encryptionSecretInit.Do(func() {
		secret, err := c.initEncryptionSecret()
		if err != nil {
			c.initErrors["encryptionSecret"] = err
			return
		}
		c.complianceInit.encryptionSecret = secret
	})
	if storedErr, exists := c.initErrors["encryptionSecret"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.encryptionSecret, nil
}

// PolicyHolder returns the active compliance policy holder built from
// configuration. Construction-time policy warnings are logged.
func (c *Container) PolicyHolder() (*complianceDomain.PolicyHolder, error) {
	c.complianceInit.policiesInit.Do(func() {
		policies, err := c.initPolicyHolder()
		if err != nil {
			c.initErrors["policyHolder"] = err
			return
		}
		c.complianceInit.policies = policies
	})
	if storedErr, exists := c.initErrors["policyHolder"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.policies, nil
}

// Redactor returns the shared payload redactor.
func (c *Container) Redactor() *complianceService.Redactor {
	c.complianceInit.redactorInit.Do(func() {
		c.complianceInit.redactor = complianceService.NewRedactor(c.Logger(), c.Notifier())
	})
	return c.complianceInit.redactor
}

// SignatureVerifier returns the webhook signature verifier.
func (c *Container) SignatureVerifier() *cryptoService.SignatureVerifier {
	c.complianceInit.signatureVerifierInit.Do(func() {
		c.complianceInit.signatureVerifier = cryptoService.NewSignatureVerifier()
	})
	return c.complianceInit.signatureVerifier
}

// CryptoBox returns the AES-256-GCM crypto box keyed with the service secret.
func (c *Container) CryptoBox() (*cryptoService.CryptoBox, error) {
	c.complianceInit.cryptoBoxInit.Do(func() {
		secret, err := c.EncryptionSecret()
		if err != nil {
			c.initErrors["cryptoBox"] = err
			return
		}

		cryptoBox, err := cryptoService.NewCryptoBox(secret)
		if err != nil {
			c.initErrors["cryptoBox"] = fmt.Errorf("failed to create crypto box: %w", err)
			return
		}
		c.complianceInit.cryptoBox = cryptoBox
	})
	if storedErr, exists := c.initErrors["cryptoBox"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.cryptoBox, nil
}

// RetentionPolicy returns the retention policy evaluator.
func (c *Container) RetentionPolicy() (*complianceService.RetentionPolicy, error) {
	c.complianceInit.retentionInit.Do(func() {
		policies, err := c.PolicyHolder()
		if err != nil {
			c.initErrors["retentionPolicy"] = err
			return
		}
		c.complianceInit.retention = complianceService.NewRetentionPolicy(policies)
	})
	if storedErr, exists := c.initErrors["retentionPolicy"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.retention, nil
}

// KeyGenerator returns the idempotency key generator.
func (c *Container) KeyGenerator() *idempotencyService.KeyGenerator {
	c.complianceInit.keyGeneratorInit.Do(func() {
		c.complianceInit.keyGenerator = idempotencyService.NewKeyGenerator(c.Redactor())
	})
	return c.complianceInit.keyGenerator
}

// APIKeyService returns the API key hashing service.
func (c *Container) APIKeyService() apikeyService.APIKeyService {
	c.complianceInit.apiKeyServiceInit.Do(func() {
		c.complianceInit.apiKeyService = apikeyService.NewAPIKeyService()
	})
	return c.complianceInit.apiKeyService
}

// AuditEntryRepository returns the audit entry repository instance.
func (c *Container) AuditEntryRepository() (complianceUseCase.AuditEntryRepository, error) {
	c.complianceInit.auditRepoInit.Do(func() {
		repo, err := c.initAuditEntryRepository()
		if err != nil {
			c.initErrors["auditEntryRepo"] = err
			return
		}
		c.complianceInit.auditRepo = repo
	})
	if storedErr, exists := c.initErrors["auditEntryRepo"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.auditRepo, nil
}

// ArtifactRepository returns the payment artifact repository instance.
func (c *Container) ArtifactRepository() (artifactUseCase.ArtifactRepository, error) {
	c.complianceInit.artifactRepoInit.Do(func() {
		repo, err := c.initArtifactRepository()
		if err != nil {
			c.initErrors["artifactRepo"] = err
			return
		}
		c.complianceInit.artifactRepo = repo
	})
	if storedErr, exists := c.initErrors["artifactRepo"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.artifactRepo, nil
}

// ComplianceAuditor returns the compliance auditor use case.
func (c *Container) ComplianceAuditor() (complianceUseCase.ComplianceAuditor, error) {
	c.complianceInit.auditorInit.Do(func() {
		auditor, err := c.initComplianceAuditor()
		if err != nil {
			c.initErrors["complianceAuditor"] = err
			return
		}
		c.complianceInit.auditor = auditor
	})
	if storedErr, exists := c.initErrors["complianceAuditor"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.auditor, nil
}

// ArtifactUseCase returns the payment artifact use case.
func (c *Container) ArtifactUseCase() (artifactUseCase.ArtifactUseCase, error) {
	c.complianceInit.artifactUseCaseInit.Do(func() {
		useCase, err := c.initArtifactUseCase()
		if err != nil {
			c.initErrors["artifactUseCase"] = err
			return
		}
		c.complianceInit.artifactUseCase = useCase
	})
	if storedErr, exists := c.initErrors["artifactUseCase"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.artifactUseCase, nil
}

// ComplianceHandler returns the compliance HTTP handler.
func (c *Container) ComplianceHandler() (*complianceHTTP.ComplianceHandler, error) {
	c.complianceInit.complianceHandlerInit.Do(func() {
		auditor, err := c.ComplianceAuditor()
		if err != nil {
			c.initErrors["complianceHandler"] = err
			return
		}
		c.complianceInit.complianceHandler = complianceHTTP.NewComplianceHandler(
			auditor,
			c.Redactor(),
			c.KeyGenerator(),
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["complianceHandler"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.complianceHandler, nil
}

// AuditEntryHandler returns the audit entry HTTP handler.
func (c *Container) AuditEntryHandler() (*complianceHTTP.AuditEntryHandler, error) {
	c.complianceInit.auditEntryHandlerInit.Do(func() {
		auditor, err := c.ComplianceAuditor()
		if err != nil {
			c.initErrors["auditEntryHandler"] = err
			return
		}
		auditRepo, err := c.AuditEntryRepository()
		if err != nil {
			c.initErrors["auditEntryHandler"] = err
			return
		}
		c.complianceInit.auditEntryHandler = complianceHTTP.NewAuditEntryHandler(auditor, auditRepo, c.Logger())
	})
	if storedErr, exists := c.initErrors["auditEntryHandler"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.auditEntryHandler, nil
}

// ArtifactHandler returns the payment artifact HTTP handler.
func (c *Container) ArtifactHandler() (*artifactHTTP.ArtifactHandler, error) {
	c.complianceInit.artifactHandlerInit.Do(func() {
		useCase, err := c.ArtifactUseCase()
		if err != nil {
			c.initErrors["artifactHandler"] = err
			return
		}
		c.complianceInit.artifactHandler = artifactHTTP.NewArtifactHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["artifactHandler"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.artifactHandler, nil
}

// WebhookHandler returns the payment-provider webhook HTTP handler.
func (c *Container) WebhookHandler() (*webhookHTTP.WebhookHandler, error) {
	c.complianceInit.webhookHandlerInit.Do(func() {
		if c.config.WebhookSecret == "" {
			c.initErrors["webhookHandler"] = fmt.Errorf("WEBHOOK_SECRET is required")
			return
		}
		auditor, err := c.ComplianceAuditor()
		if err != nil {
			c.initErrors["webhookHandler"] = err
			return
		}
		c.complianceInit.webhookHandler = webhookHTTP.NewWebhookHandler(
			c.SignatureVerifier(),
			[]byte(c.config.WebhookSecret),
			auditor,
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["webhookHandler"]; exists {
		return nil, storedErr
	}
	return c.complianceInit.webhookHandler, nil
}

// initEncryptionSecret resolves the service encryption secret from
// configuration, unwrapping it through the configured KMS keeper when a
// wrapped secret is provided.
func (c *Container) initEncryptionSecret() ([]byte, error) {
	if c.config.EncryptionSecretWrapped != "" && c.config.KMSKeyURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), kmsUnwrapTimeout)
		defer cancel()

		kms := cryptoService.NewKMSService()
		secret, err := kms.UnwrapSecret(ctx, c.config.KMSKeyURI, c.config.EncryptionSecretWrapped)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap encryption secret: %w", err)
		}

		c.Logger().Info("encryption secret unwrapped from KMS")
		return secret, nil
	}

	if c.config.EncryptionSecret == "" {
		return nil, fmt.Errorf("ENCRYPTION_SECRET is required")
	}

	return []byte(c.config.EncryptionSecret), nil
}

// initPolicyHolder builds the compliance policy from configuration and seeds
// the holder with it.
func (c *Container) initPolicyHolder() (*complianceDomain.PolicyHolder, error) {
	var methods []string
	for _, method := range strings.Split(c.config.AllowedPaymentMethods, ",") {
		if trimmed := strings.TrimSpace(method); trimmed != "" {
			methods = append(methods, trimmed)
		}
	}

	policy, warnings, err := complianceDomain.NewPolicy(complianceDomain.Policy{
		AllowedPaymentMethods:     methods,
		MerchantID:                c.config.MerchantID,
		MaxDataRetentionDays:      c.config.MaxDataRetentionDays,
		AutoDeleteExpiredData:     c.config.AutoDeleteExpiredData,
		EnforceStrongEncryption:   c.config.EnforceStrongEncryption,
		RequireTokenization:       c.config.RequireTokenization,
		EnableFraudDetection:      c.config.EnableFraudDetection,
		LogAllTransactions:        c.config.LogAllTransactions,
		AlertOnSuspiciousActivity: c.config.AlertOnSuspiciousActivity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build compliance policy: %w", err)
	}

	for _, warning := range warnings {
		c.Logger().Warn("compliance policy warning", slog.String("warning", warning))
	}

	return complianceDomain.NewPolicyHolder(policy), nil
}

// initAuditEntryRepository creates the audit entry repository instance.
func (c *Container) initAuditEntryRepository() (complianceUseCase.AuditEntryRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit entry repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return complianceRepository.NewMySQLAuditEntryRepository(db), nil
	case "postgres":
		return complianceRepository.NewPostgreSQLAuditEntryRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initArtifactRepository creates the payment artifact repository instance.
func (c *Container) initArtifactRepository() (artifactUseCase.ArtifactRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for artifact repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return artifactRepository.NewMySQLArtifactRepository(db), nil
	case "postgres":
		return artifactRepository.NewPostgreSQLArtifactRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initComplianceAuditor creates the compliance auditor with all its dependencies.
func (c *Container) initComplianceAuditor() (complianceUseCase.ComplianceAuditor, error) {
	policies, err := c.PolicyHolder()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy holder for compliance auditor: %w", err)
	}

	secret, err := c.EncryptionSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption secret for compliance auditor: %w", err)
	}

	auditRepo, err := c.AuditEntryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit entry repository for compliance auditor: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for compliance auditor: %w", err)
	}

	auditor := complianceUseCase.NewComplianceAuditor(
		policies,
		c.Redactor(),
		complianceService.NewAuditSigner(),
		secret,
		auditRepo,
		c.Notifier(),
		c.Logger(),
	)

	return complianceUseCase.NewComplianceAuditorWithMetrics(auditor, businessMetrics), nil
}

// initArtifactUseCase creates the payment artifact use case with all its dependencies.
func (c *Container) initArtifactUseCase() (artifactUseCase.ArtifactUseCase, error) {
	artifactRepo, err := c.ArtifactRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact repository for artifact use case: %w", err)
	}

	auditRepo, err := c.AuditEntryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit entry repository for artifact use case: %w", err)
	}

	cryptoBox, err := c.CryptoBox()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto box for artifact use case: %w", err)
	}

	retention, err := c.RetentionPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to get retention policy for artifact use case: %w", err)
	}

	policies, err := c.PolicyHolder()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy holder for artifact use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for artifact use case: %w", err)
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for artifact use case: %w", err)
	}

	useCase := artifactUseCase.NewArtifactUseCase(
		artifactRepo,
		auditRepo,
		cryptoBox,
		retention,
		policies,
		database.NewTxManager(db),
		c.Logger(),
	)

	return artifactUseCase.NewArtifactUseCaseWithMetrics(useCase, businessMetrics), nil
}
