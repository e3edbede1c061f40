package signer_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nfse-publica/internal/infrastructure/nfse/signer"
	"github.com/jhoicas/nfse-publica/internal/infrastructure/nfse/signer/signertest"
)

const rpsEjemplo = `<Rps><InfRps id="rps1"><DataEmissao>2024-01-01T00:00:00</DataEmissao></InfRps></Rps>`

// newTestCertificate certificado compartido por todos los tests del paquete.
func newTestCertificate(t *testing.T) *signer.Certificate {
	t.Helper()
	return signertest.Certificate(t)
}

func generateCertificate(commonName string) (*signer.Certificate, error) {
	return signertest.Generate(commonName)
}

var signatureValueRe = regexp.MustCompile(`<ds:SignatureValue>([^<]+)</ds:SignatureValue>`)

// tamperSignatureValue cambia el primer carácter del SignatureValue.
func tamperSignatureValue(t *testing.T, signed string) string {
	t.Helper()
	m := signatureValueRe.FindStringSubmatch(signed)
	require.Len(t, m, 2, "el XML firmado debe tener SignatureValue")
	value := m[1]
	replacement := "A"
	if value[0] == 'A' {
		replacement = "B"
	}
	return strings.Replace(signed, value, replacement+value[1:], 1)
}

func attrValue(t *testing.T, signed, pattern string) string {
	t.Helper()
	m := regexp.MustCompile(pattern).FindStringSubmatch(signed)
	require.Len(t, m, 2, "patrón %s no encontrado en %s", pattern, signed)
	return m[1]
}
