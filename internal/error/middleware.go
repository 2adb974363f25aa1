package middleware

import (
	"errors"

	"github.com/Behyna/pawn-services/internal/constants"
	"github.com/Behyna/pawn-services/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr, logger)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Response{
				Code:    fiberErrorCode(fiberErr.Code),
				Message: fiberErr.Message,
			})
		}

		logger.Error("Unhandled error",
			zap.String("path", c.Path()),
			zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(Response{
			Code:    constants.ErrCodeInternalError,
			Message: constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

// handleServiceError exposes the violated rule for client errors. Server
// errors only carry the generic message for their code.
func handleServiceError(c *fiber.Ctx, err service.Error, logger *zap.Logger) error {
	errorCode := err.Code

	status := constants.GetHTTPStatus(errorCode)
	if status >= fiber.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.Path()),
			zap.String("code", errorCode),
			zap.Error(err.Cause))

		return c.Status(status).JSON(Response{
			Code:    errorCode,
			Message: constants.GetErrorMessage(errorCode),
		})
	}

	return c.Status(status).JSON(Response{
		Code:    errorCode,
		Message: err.Error(),
	})
}

func fiberErrorCode(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return constants.ErrCodeUnauthorized
	case fiber.StatusForbidden:
		return constants.ErrCodeForbidden
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return constants.ErrCodeInvalidRequestBody
	case fiber.StatusTooManyRequests:
		return constants.ErrCodeRateLimited
	case fiber.StatusNotFound:
		return constants.ErrCodeRouteNotFound
	default:
		return constants.ErrCodeInternalError
	}
}
