// Package http provides HTTP handlers for encrypted payment artifact
// operations. Artifacts are encrypted at rest and removed by the retention
// sweep; they are never the permanent record.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/paytrust/internal/artifact/http/dto"
	artifactUseCase "github.com/allisson/paytrust/internal/artifact/usecase"
	cryptoDomain "github.com/allisson/paytrust/internal/crypto/domain"
	"github.com/allisson/paytrust/internal/httputil"
	customValidation "github.com/allisson/paytrust/internal/validation"
)

// ArtifactHandler handles HTTP requests for payment artifact operations.
type ArtifactHandler struct {
	artifactUseCase artifactUseCase.ArtifactUseCase
	logger          *slog.Logger
}

// NewArtifactHandler creates a new artifact handler with required dependencies.
func NewArtifactHandler(
	uc artifactUseCase.ArtifactUseCase,
	logger *slog.Logger,
) *ArtifactHandler {
	return &ArtifactHandler{
		artifactUseCase: uc,
		logger:          logger,
	}
}

// CreateHandler encrypts and stores a new payment artifact.
// POST /v1/artifacts
// Returns 201 Created with artifact metadata (excludes the value for security).
func (h *ArtifactHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	artifact, err := h.artifactUseCase.Store(c.Request.Context(), req.Kind, req.Value)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapArtifactToCreateResponse(artifact))
}

// GetHandler retrieves and decrypts a payment artifact by its identifier.
// GET /v1/artifacts/:id
// Returns 200 OK with the plaintext value. SECURITY: Plaintext is zeroed
// after the response is written.
func (h *ArtifactHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid id parameter: must be a valid UUID"),
			h.logger,
		)
		return
	}

	artifact, err := h.artifactUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// SECURITY: Zero plaintext after mapping to response
	defer cryptoDomain.Zero(artifact.Plaintext)

	c.JSON(http.StatusOK, dto.MapArtifactToGetResponse(artifact))
}

// DeleteHandler removes a payment artifact ahead of its retention expiry.
// DELETE /v1/artifacts/:id
// Returns 204 No Content.
func (h *ArtifactHandler) DeleteHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid id parameter: must be a valid UUID"),
			h.logger,
		)
		return
	}

	if err := h.artifactUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
