package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain"
)

// LocalError guarda el error interno para que RequestLogger lo registre.
const LocalError = "error"

// respondError traduce un error de dominio a status HTTP y cuerpo {code, message, details}.
// Los errores no clasificados responden 500 sin exponer el detalle.
func respondError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		c.Locals(LocalError, err)
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
		stock      *domain.InsufficientStockError
		numbering  *domain.NumberingConflictError
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code: "VALIDATION", Message: validation.Error(),
			Details: map[string]any{"field": validation.Field},
		}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.As(err, &notFound):
		return fiber.StatusNotFound, dto.ErrorResponse{
			Code: "NOT_FOUND", Message: notFound.Error(),
			Details: map[string]any{"entity": notFound.Entity, "id": notFound.ID},
		}
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.As(err, &stock):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: stock.Error(),
			Details: map[string]any{
				"productId":   stock.ProductID,
				"productName": stock.ProductName,
				"available":   stock.Available,
				"requested":   stock.Requested,
			},
		}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrIdempotencyInProgress):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.As(err, &numbering):
		return fiber.StatusInternalServerError, dto.ErrorResponse{
			Code: "NUMBERING_CONFLICT", Message: domain.ErrNumberingConflict.Error(),
			Details: map[string]any{"billNumber": numbering.BillNumber},
		}
	case errors.Is(err, domain.ErrNumberingConflict), errors.Is(err, domain.ErrMalformedBillNumber):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "NUMBERING_CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrTransientStorage):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{
			Code: "STORAGE_UNAVAILABLE", Message: "almacenamiento no disponible, reintente la operación",
		}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
