package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

// specific codes win over the generic one of their kind
var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrProfileIncomplete, "PROFILE_INCOMPLETE"},
	{domain.ErrOnboardingRequired, "ONBOARDING_REQUIRED"},
	{domain.ErrInvalidTransition, "INVALID_TRANSITION"},
	{domain.ErrUsernameTaken, "USERNAME_TAKEN"},
	{domain.ErrEmailAlreadyExists, "EMAIL_EXISTS"},
	{domain.ErrUserNotFound, "USER_NOT_FOUND"},
}

var kindStatus = map[domain.Kind]struct {
	status int
	code   string
}{
	domain.KindValidation:   {fiber.StatusBadRequest, "VALIDATION"},
	domain.KindNotFound:     {fiber.StatusNotFound, "NOT_FOUND"},
	domain.KindConflict:     {fiber.StatusConflict, "CONFLICT"},
	domain.KindUnauthorized: {fiber.StatusUnauthorized, "UNAUTHORIZED"},
	domain.KindForbidden:    {fiber.StatusForbidden, "FORBIDDEN"},
	domain.KindInternal:     {fiber.StatusInternalServerError, "INTERNAL"},
}

func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Status: dto.StatusError, Code: code, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", message)
}

func unauthorized(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
}

// writeError maps a use case error onto the error envelope. Internal errors
// are logged and answered with a generic message.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	kind := domain.KindOf(err)
	m := kindStatus[kind]
	code := m.code
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			code = ec.code
			break
		}
	}
	if kind == domain.KindInternal {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("request failed")
		return errorJSON(c, m.status, code, "internal server error")
	}
	return errorJSON(c, m.status, code, err.Error())
}

// ErrorHandler renders fiber's own errors (unknown route, wrong verb, oversized
// body) and anything a handler returned unhandled with the same envelope.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			return writeError(c, log, err)
		}
		switch fe.Code {
		case fiber.StatusMethodNotAllowed:
			return errorJSON(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusNotFound:
			return errorJSON(c, fe.Code, "ROUTE_NOT_FOUND", fe.Message)
		case fiber.StatusRequestEntityTooLarge:
			return errorJSON(c, fe.Code, "BODY_TOO_LARGE", fe.Message)
		default:
			if fe.Code >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
			}
			return errorJSON(c, fe.Code, "HTTP_ERROR", fe.Message)
		}
	}
}
