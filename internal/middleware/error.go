package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/logger"
)

// ErrorHandler converts errors attached to the context into the JSON error
// envelope the client expects. AppErrors keep their code and status, binding
// validation failures collapse into INVALID_INPUT with the offending fields
// named, and anything else becomes a generic internal error so database and
// reconciliation details never reach the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("request error",
					"request_id", RequestID(c),
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
				)
			}
			respond(c, appErr)
			return
		}

		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fe.Field())
			}
			respond(c, apperrors.WithMessage(apperrors.ErrInvalidInput,
				"Invalid value for: "+strings.Join(fields, ", ")))
			return
		}

		logger.Get().Errorw("unexpected error",
			"request_id", RequestID(c),
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		respond(c, apperrors.ErrInternalServer)
	}
}

func respond(c *gin.Context, appErr *apperrors.AppError) {
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
