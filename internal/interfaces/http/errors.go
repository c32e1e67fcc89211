package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Movimientos-api/internal/application/dto"
	"github.com/jhoicas/Movimientos-api/internal/domain"
)

// mapDomainError traduce un error de dominio a respuesta HTTP. Cada error de la
// taxonomía del motor tiene un status propio; lo no reconocido es un 500.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrIllegalTransition):
		return respond(c, fiber.StatusUnprocessableEntity, "ILLEGAL_TRANSITION", err)
	case errors.Is(err, domain.ErrReasonRequired):
		return respond(c, fiber.StatusUnprocessableEntity, "REASON_REQUIRED", err)
	case errors.Is(err, domain.ErrUnsupportedTransition):
		return respond(c, fiber.StatusBadRequest, "UNSUPPORTED_TRANSITION", err)
	case errors.Is(err, domain.ErrRemoteFailure):
		return respond(c, fiber.StatusBadGateway, "REMOTE_FAILURE", err)
	case errors.Is(err, domain.ErrStaleRequest):
		return respond(c, fiber.StatusConflict, "STALE_REQUEST", err)
	case errors.Is(err, domain.ErrNotDeletable):
		return respond(c, fiber.StatusConflict, "NOT_DELETABLE", err)
	case errors.Is(err, domain.ErrConflict):
		return respond(c, fiber.StatusConflict, "CONFLICT", err)
	case errors.Is(err, domain.ErrDuplicate):
		return respond(c, fiber.StatusConflict, "DUPLICATE", err)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, domain.ErrForbidden):
		return respond(c, fiber.StatusForbidden, "FORBIDDEN", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return respond(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err)
	case errors.Is(err, domain.ErrInvalidInput):
		return respond(c, fiber.StatusBadRequest, "INVALID_INPUT", err)
	default:
		return respond(c, fiber.StatusInternalServerError, "INTERNAL", err)
	}
}

// validationError responde 400 con el detalle de las reglas incumplidas.
func validationError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: verrs.Error(),
		})
	}
	return respond(c, fiber.StatusBadRequest, "VALIDATION", err)
}

func respond(c *fiber.Ctx, status int, code string, err error) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
