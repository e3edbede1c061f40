package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nfse-publica/internal/application/dto"
	"github.com/jhoicas/nfse-publica/internal/domain"
	"github.com/jhoicas/nfse-publica/internal/infrastructure/nfse/signer"
)

// writeError traduce errores de dominio y del firmador a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := fiber.StatusInternalServerError, "INTERNAL", err.Error()
	switch {
	case errors.Is(err, signer.ErrNotXML):
		status, code = fiber.StatusBadRequest, "NOT_XML"
	case signer.IsTagNotFound(err):
		status, code = fiber.StatusUnprocessableEntity, "TAG_NOT_FOUND"
	case errors.Is(err, signer.ErrEmptyNodeSet):
		status, code = fiber.StatusUnprocessableEntity, "EMPTY_NODE_SET"
	case errors.Is(err, signer.ErrMalformedSignature):
		status, code = fiber.StatusUnprocessableEntity, "MALFORMED_SIGNATURE"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", "documento no encontrado"
	case errors.Is(err, domain.ErrForbidden):
		status, code, msg = fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrCertificate):
		status, code = fiber.StatusServiceUnavailable, "CERTIFICATE_UNAVAILABLE"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
