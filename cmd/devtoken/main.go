// devtoken emite un JWT para probar la API en local sin servicio de login.
//
// Uso: go run ./cmd/devtoken <company_id> [role] [user_id]
// role: admin | emissor | auditor (por defecto emissor). Usa JWT_SECRET, JWT_ISSUER y
// JWT_EXPIRATION_MINUTES de la configuración.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/nfse-publica/pkg/config"
	"github.com/jhoicas/nfse-publica/pkg/jwt"
)

var roles = map[string]bool{"admin": true, "emissor": true, "auditor": true}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg.JWT, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.JWTConfig, args []string, w io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("uso: devtoken <company_id> [role] [user_id]")
	}
	companyID := args[0]
	if _, err := uuid.Parse(companyID); err != nil {
		return fmt.Errorf("company_id inválido: %w", err)
	}
	role := "emissor"
	if len(args) > 1 {
		role = args[1]
	}
	if !roles[role] {
		return fmt.Errorf("role desconocido %q", role)
	}
	userID := uuid.NewString()
	if len(args) > 2 {
		if _, err := uuid.Parse(args[2]); err != nil {
			return fmt.Errorf("user_id inválido: %w", err)
		}
		userID = args[2]
	}

	token, err := jwt.Generate(cfg.Secret, userID, companyID, role, cfg.Issuer, cfg.Expiration)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, token)
	return nil
}
