// Package signertest certificados autofirmados para tests de paquetes que firman.
package signertest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/nfse-publica/internal/infrastructure/nfse/signer"
)

var (
	once   sync.Once
	shared *signer.Certificate
	err    error
)

// Certificate devuelve un certificado RSA 2048 generado una vez por proceso.
func Certificate(t testing.TB) *signer.Certificate {
	t.Helper()
	once.Do(func() {
		shared, err = Generate("Prestador de Teste LTDA")
	})
	if err != nil {
		t.Fatalf("generar certificado de prueba: %v", err)
	}
	return shared
}

// Generate crea un certificado autofirmado nuevo con ese CN, válido por 24 horas.
func Generate(commonName string) (*signer.Certificate, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: commonName, Organization: []string{"NFS-e Testes"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}
	return signer.NewCertificate(tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key})
}
