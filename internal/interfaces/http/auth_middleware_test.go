package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nfse-publica/internal/application/dto"
	apphttp "github.com/jhoicas/nfse-publica/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/nfse-publica/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	otherCompany  = "00000000-0000-0000-0000-0000000000ff"
	testIssuer    = "nfse-publica-test"
	testExpMin    = 60
)

// tokenForRole genera un JWT de testCompanyID con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return bearer(t, testCompanyID, role, testExpMin)
}

func bearer(t *testing.T, companyID, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, companyID, role, testIssuer, expMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest envía body como JSON (nil = sin cuerpo) con el header Authorization dado.
func doRequest(t *testing.T, app *fiber.App, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// signedFixture firma xmlRps como emissor de testCompanyID.
func signedFixture(t *testing.T, app *fiber.App) dto.SignResponse {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/api/signatures/sign", tokenForRole(t, apphttp.RoleEmissor),
		dto.SignRequest{XML: xmlRps, Tag: "InfRps"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.SignResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos por rol sobre las rutas de firma
// ──────────────────────────────────────────────────────────────────────────────

func TestRutasDeFirma_PermisosPorRol(t *testing.T) {
	app := buildSignatureApp(t)
	signed := signedFixture(t, app)

	sign := dto.SignRequest{XML: xmlRps, Tag: "InfRps"}
	verify := dto.VerifyRequest{XML: signed.XML, Tag: "InfRps"}
	remove := dto.RemoveSignatureRequest{XML: signed.XML}
	rps := map[string]any{"numero": "1", "servico": map[string]any{"discriminacao": "x"}}

	cases := []struct {
		name   string
		role   string
		method string
		path   string
		body   any
		status int
	}{
		{"admin firma", apphttp.RoleAdmin, http.MethodPost, "/api/signatures/sign", sign, http.StatusCreated},
		{"emissor firma", apphttp.RoleEmissor, http.MethodPost, "/api/signatures/sign", sign, http.StatusCreated},
		{"auditor no firma", apphttp.RoleAuditor, http.MethodPost, "/api/signatures/sign", sign, http.StatusForbidden},
		{"auditor verifica", apphttp.RoleAuditor, http.MethodPost, "/api/signatures/verify", verify, http.StatusOK},
		{"emissor verifica", apphttp.RoleEmissor, http.MethodPost, "/api/signatures/verify", verify, http.StatusOK},
		{"emissor remueve", apphttp.RoleEmissor, http.MethodPost, "/api/signatures/remove", remove, http.StatusOK},
		{"auditor no remueve", apphttp.RoleAuditor, http.MethodPost, "/api/signatures/remove", remove, http.StatusForbidden},
		{"auditor no firma rps", apphttp.RoleAuditor, http.MethodPost, "/api/rps/sign", rps, http.StatusForbidden},
		{"auditor lista", apphttp.RoleAuditor, http.MethodGet, "/api/signatures", nil, http.StatusOK},
		{"auditor consulta", apphttp.RoleAuditor, http.MethodGet, "/api/signatures/" + signed.ID, nil, http.StatusOK},
		{"rol desconocido no verifica", "contador", http.MethodPost, "/api/signatures/verify", verify, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, tc.method, tc.path, tokenForRole(t, tc.role), tc.body)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.status == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)
			}
		})
	}
}

func TestRutasDeFirma_VerificacionDelAuditorSobreFirmaDelEmissor(t *testing.T) {
	app := buildSignatureApp(t)
	signed := signedFixture(t, app)

	resp := doRequest(t, app, http.MethodPost, "/api/signatures/verify", tokenForRole(t, apphttp.RoleAuditor),
		dto.VerifyRequest{XML: signed.XML, Tag: "InfRps"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	verdict := decode[dto.VerifyResponse](t, resp)
	assert.True(t, verdict.Signed)
	assert.Equal(t, signed.ReferenceURI, verdict.ReferenceURI)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestRutasDeFirma_TokenRechazado(t *testing.T) {
	app := buildSignatureApp(t)
	verify := dto.VerifyRequest{XML: xmlRps}

	expired := bearer(t, testCompanyID, apphttp.RoleAdmin, -1)
	otherSecret, err := pkgjwt.Generate("otro-secret-completamente-distinto", testUserID, testCompanyID, apphttp.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"token expirado", expired, "INVALID_TOKEN"},
		{"otro secret", "Bearer " + otherSecret, "INVALID_TOKEN"},
		{"sin rol", bearer(t, testCompanyID, "", testExpMin), "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, "/api/signatures/verify", tc.header, verify)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alcance por empresa
// ──────────────────────────────────────────────────────────────────────────────

func TestRutasDeFirma_ConsultaLimitadaALaEmpresa(t *testing.T) {
	app := buildSignatureApp(t)
	signed := signedFixture(t, app)
	path := "/api/signatures/" + signed.ID

	for _, role := range []string{apphttp.RoleAdmin, apphttp.RoleEmissor, apphttp.RoleAuditor} {
		t.Run(role, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, path, bearer(t, otherCompany, role, testExpMin), nil)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode, "otra empresa no accede al documento")
			resp.Body.Close()

			resp = doRequest(t, app, http.MethodGet, path, tokenForRole(t, role), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, signed.ID, decode[dto.SignedDocumentResponse](t, resp).ID)
		})
	}

	list := decode[dto.SignedDocumentListResponse](t,
		doRequest(t, app, http.MethodGet, "/api/signatures", bearer(t, otherCompany, apphttp.RoleAuditor, testExpMin), nil))
	assert.Empty(t, list.Items, "el listado sólo incluye documentos de la empresa del token")
}

func TestAuthMiddleware_ClaimsEnLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	body := decode[map[string]string](t, doRequest(t, app, http.MethodGet, "/me", tokenForRole(t, apphttp.RoleEmissor), nil))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, apphttp.RoleEmissor, body["role"])
}
