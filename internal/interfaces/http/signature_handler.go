package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nfse-publica/internal/application/dto"
	"github.com/jhoicas/nfse-publica/internal/application/signing"
)

// SignatureHandler maneja las peticiones HTTP de firma y verificación (protegido).
type SignatureHandler struct {
	uc *signing.SignatureUseCase
}

// NewSignatureHandler construye el handler.
func NewSignatureHandler(uc *signing.SignatureUseCase) *SignatureHandler {
	return &SignatureHandler{uc: uc}
}

// Sign firma un XML.
// @Summary Firmar XML
// @Tags signatures
// @Accept json
// @Produce json
// @Param body body dto.SignRequest true "XML y nodo a firmar"
// @Success 201 {object} dto.SignResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/signatures/sign [post]
func (h *SignatureHandler) Sign(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SignRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Sign(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SignRps construye y firma un RPS.
// @Summary Construir y firmar RPS
// @Tags rps
// @Accept json
// @Produce json
// @Param body body dto.SignRpsRequest true "Datos del RPS"
// @Success 201 {object} dto.SignResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/rps/sign [post]
func (h *SignatureHandler) SignRps(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SignRpsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SignRps(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Verify verifica la firma de un XML. Digest o firma inválidos responden 200 con signed=false.
// @Summary Verificar firma
// @Tags signatures
// @Accept json
// @Produce json
// @Param body body dto.VerifyRequest true "XML firmado"
// @Success 200 {object} dto.VerifyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/signatures/verify [post]
func (h *SignatureHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Verify(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Remove quita la firma de un XML.
// @Summary Quitar firma
// @Tags signatures
// @Accept json
// @Produce json
// @Param body body dto.RemoveSignatureRequest true "XML firmado"
// @Success 200 {object} dto.RemoveSignatureResponse
// @Security BearerAuth
// @Router /api/signatures/remove [post]
func (h *SignatureHandler) Remove(c *fiber.Ctx) error {
	var in dto.RemoveSignatureRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RemoveSignature(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID devuelve un documento firmado de la empresa del token.
// @Summary Documento firmado
// @Tags signatures
// @Produce json
// @Param id path string true "ID del documento"
// @Success 200 {object} dto.SignedDocumentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/signatures/{id} [get]
func (h *SignatureHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Get(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List lista los documentos firmados de la empresa.
// @Summary Documentos firmados
// @Tags signatures
// @Produce json
// @Param limit query int false "máximo 100"
// @Param offset query int false "desplazamiento"
// @Success 200 {object} dto.SignedDocumentListResponse
// @Security BearerAuth
// @Router /api/signatures [get]
func (h *SignatureHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.List(c.Context(), companyID, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
