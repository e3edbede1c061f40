package jwt_test

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nfse-publica/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	token, err := jwt.Generate("secreto", "u1", "c1", "emissor", "nfse-publica", 10)
	require.NoError(t, err)

	claims, err := jwt.ParseClaims("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, "emissor", claims.Role)
	assert.Equal(t, "nfse-publica", claims.Issuer)
}

func TestParse_Rechaza(t *testing.T) {
	token, err := jwt.Generate("secreto", "u1", "c1", "admin", "", 10)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("otro", token)
	assert.Error(t, err, "firma con otro secreto")

	expired, err := jwt.Generate("secreto", "u1", "c1", "admin", "", -1)
	require.NoError(t, err)
	_, _, _, err = jwt.Parse("secreto", expired)
	assert.Error(t, err, "expirado")

	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, jwt.Claims{UserID: "u1"})
	raw, err := none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = jwt.ParseClaims("secreto", raw)
	assert.Error(t, err, "alg none")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u1", "c1", "admin", "", 10)
	assert.Error(t, err)
}
