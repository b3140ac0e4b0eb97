package serverutils

import (
	"errors"

	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindValidationFailed,
		apperror.KindScopeMissing,
		apperror.KindDuplicateScope,
		apperror.KindCodeCollision:
		return fiber.StatusBadRequest
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleError writes err as a JSON error body. Server errors only expose the
// generic message; the cause goes to the log.
func HandleError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindServerError {
		log.Error("HTTP", "Request failed", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, apperror.MsgServerError))
	}

	status := StatusFor(appErr.Kind)
	return ctx.Status(status).JSON(ErrorResponse(status, appErr.Message))
}

// ErrorHandlerMiddleware is Fiber's last-resort error handler: fiber errors
// (404 route, 405, body too large) keep their status, anything else becomes a
// server error.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}
		return HandleError(ctx, log, err)
	}
}
