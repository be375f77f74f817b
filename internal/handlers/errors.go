package handlers

import (
	"errors"
	"net/http"

	"github.com/docuflow/ledgercore/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// errorBody is the envelope every non-2xx response carries.
type errorBody struct {
	Kind       string                `json:"kind"`
	Detail     string                `json:"detail"`
	Violations []apperrors.Violation `json:"violations,omitempty"`
}

// respondWithError translates service-layer errors into the HTTP error
// envelope. Unknown errors are reported as PERSISTENCE_FAILED without leaking
// internal details to the caller.
func respondWithError(c *gin.Context, err error) {
	var verrs *apperrors.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{
			Kind:       "VALIDATION_FAILED",
			Detail:     "transaction failed validation",
			Violations: verrs.Violations,
		}})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: "VALIDATION_FAILED", Detail: err.Error()}})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errorBody{Kind: "NOT_FOUND", Detail: err.Error()}})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": errorBody{Kind: "INVALID_STATE", Detail: err.Error()}})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": errorBody{Kind: "DUPLICATE", Detail: err.Error()}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorBody{Kind: "PERSISTENCE_FAILED", Detail: "transaction could not be persisted"}})
	}
}

// respondWithBindError reports a malformed request body or query string.
func respondWithBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: "VALIDATION_FAILED", Detail: "invalid request format: " + err.Error()}})
}
