// Carga del certificado del prestador desde .pfx/.p12 (PKCS#12) o par PEM.

package signer

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/pkcs12"
)

// Certificate llave privada RSA y certificado hoja. Inmutable una vez cargado; se puede
// compartir entre goroutines.
type Certificate struct {
	PrivateKey *rsa.PrivateKey
	Leaf       *x509.Certificate
}

// CertificateSummary datos del certificado para diagnóstico y logs.
type CertificateSummary struct {
	Subject           string
	Issuer            string
	SerialHex         string
	NotBefore         time.Time
	NotAfter          time.Time
	FingerprintSHA256 string
}

// NewCertificate valida que el par tenga llave RSA y certificado X.509.
func NewCertificate(cert tls.Certificate) (*Certificate, error) {
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signer: el certificado debe incluir llave privada RSA")
	}
	leaf := cert.Leaf
	if leaf == nil {
		if len(cert.Certificate) == 0 {
			return nil, fmt.Errorf("signer: el par no contiene certificado")
		}
		parsed, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return nil, fmt.Errorf("signer: parsear certificado: %w", err)
		}
		leaf = parsed
	}
	return &Certificate{PrivateKey: priv, Leaf: leaf}, nil
}

// LoadFromP12 carga certificado y llave desde un archivo .p12/.pfx.
// El password puede ser vacío si el archivo no está protegido.
func LoadFromP12(path, password string) (*Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer p12: %w", err)
	}
	return ParseP12(data, password)
}

// ParseP12 como LoadFromP12 pero desde memoria.
func ParseP12(data []byte, password string) (*Certificate, error) {
	priv, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return nil, fmt.Errorf("decodificar p12: %w", err)
	}
	// pkcs12.Decode devuelve sólo el certificado hoja; es el que va en KeyInfo.
	return NewCertificate(tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  priv,
		Leaf:        cert,
	})
}

// LoadFromPEM carga certificado y llave desde archivos PEM (separados o combinados).
func LoadFromPEM(certPath, keyPath string) (*Certificate, error) {
	if keyPath == "" {
		keyPath = certPath
	}
	pair, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("cargar PEM: %w", err)
	}
	return NewCertificate(pair)
}

// Load elige el formato por extensión: .pfx/.p12 como PKCS#12, el resto como PEM.
func Load(path, keyPath, password string) (*Certificate, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".pfx") || strings.HasSuffix(lower, ".p12") {
		return LoadFromP12(path, password)
	}
	return LoadFromPEM(path, keyPath)
}

// RawBase64 certificado DER en Base64, tal como va en X509Certificate.
func (c *Certificate) RawBase64() string {
	return base64.StdEncoding.EncodeToString(c.Leaf.Raw)
}

// Summary devuelve sujeto, emisor, serial, vigencia y huella SHA-256.
func (c *Certificate) Summary() CertificateSummary {
	sum := sha256.Sum256(c.Leaf.Raw)
	return CertificateSummary{
		Subject:           c.Leaf.Subject.String(),
		Issuer:            c.Leaf.Issuer.String(),
		SerialHex:         c.Leaf.SerialNumber.Text(16),
		NotBefore:         c.Leaf.NotBefore,
		NotAfter:          c.Leaf.NotAfter,
		FingerprintSHA256: hex.EncodeToString(sum[:]),
	}
}

// publicKeyFromContent obtiene la llave RSA del contenido de X509Certificate (Base64 DER,
// con o sin saltos de línea, o PEM completo).
func publicKeyFromContent(content string) (*rsa.PublicKey, error) {
	var der []byte
	if block, _ := pem.Decode([]byte(content)); block != nil {
		der = block.Bytes
	} else {
		cleaned := strings.Join(strings.Fields(content), "")
		decoded, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("%w: X509Certificate no es Base64: %v", ErrSignatureMismatch, err)
		}
		der = decoded
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("%w: X509Certificate inválido: %v", ErrSignatureMismatch, err)
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: el certificado no tiene llave pública RSA", ErrSignatureMismatch)
	}
	return pub, nil
}
