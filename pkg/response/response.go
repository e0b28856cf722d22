package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"octofit.com/tracker/pkg/apperror"
	"octofit.com/tracker/pkg/dto"
	fmtValidator "octofit.com/tracker/pkg/validator"
)

// logger receives internal errors surfaced through ResponseError.
var logger = zap.NewNop()

// SetLogger replaces the logger used for internal error reporting.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		logger.Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// BindingError answers 400 for request binding and validation failures.
func BindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmtValidator.FormatValidationError(err)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// Data wraps list payloads as {"data": [...]}.
func Data(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, gin.H{"data": payload})
}

// Message answers 200 with a human readable message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// BindID binds and parses the :id path parameter. On failure the 400 has
// already been written and ok is false.
func BindID(c *gin.Context) (id uuid.UUID, ok bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		BindingError(c, err)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return uuid.Nil, false
	}
	return id, true
}
