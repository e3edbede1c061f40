package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nfse-publica/internal/application/signing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SignatureUC *signing.SignatureUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	handler := NewSignatureHandler(deps.SignatureUC)
	canSign := RequireRole(RoleAdmin, RoleEmissor)
	anyRole := RequireRole(RoleAdmin, RoleEmissor, RoleAuditor)

	signatures := api.Group("/signatures")
	signatures.Post("/sign", canSign, handler.Sign)
	signatures.Post("/verify", anyRole, handler.Verify)
	signatures.Post("/remove", canSign, handler.Remove)
	signatures.Get("/", anyRole, handler.List)
	signatures.Get("/:id", anyRole, handler.GetByID)

	rps := api.Group("/rps")
	rps.Post("/sign", canSign, handler.SignRps)
}
