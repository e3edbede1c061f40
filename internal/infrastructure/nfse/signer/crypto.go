package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"strings"
)

// Algorithm algoritmo de firma soportado por el perfil: RSA con SHA-1 o SHA-256.
type Algorithm int

const (
	RSASHA1 Algorithm = iota
	RSASHA256
)

// ParseAlgorithm interpreta los nombres usados en configuración ("sha1", "rsa-sha256", ...).
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sha1", "rsa-sha1":
		return RSASHA1, nil
	case "sha256", "rsa-sha256":
		return RSASHA256, nil
	default:
		return RSASHA1, fmt.Errorf("signer: algoritmo %q no soportado", s)
	}
}

// String nombre aceptado por ParseAlgorithm.
func (a Algorithm) String() string {
	if a == RSASHA256 {
		return "sha256"
	}
	return "sha1"
}

// Hash función de resumen asociada (digest de la Reference y firma de SignedInfo).
func (a Algorithm) Hash() crypto.Hash {
	if a == RSASHA256 {
		return crypto.SHA256
	}
	return crypto.SHA1
}

// SignatureMethodURI URI del SignatureMethod.
func (a Algorithm) SignatureMethodURI() string {
	if a == RSASHA256 {
		return AlgRSASHA256
	}
	return AlgRSASHA1
}

// DigestMethodURI URI del DigestMethod.
func (a Algorithm) DigestMethodURI() string {
	if a == RSASHA256 {
		return AlgSHA256
	}
	return AlgSHA1
}

// algorithmForMethod algoritmo implícito en el SignatureMethod de un documento firmado.
func algorithmForMethod(signatureMethod string) Algorithm {
	if digestHashForMethod(signatureMethod) == crypto.SHA1 {
		return RSASHA1
	}
	return RSASHA256
}

// signBytes firma data con RSA PKCS#1 v1.5.
func signBytes(data []byte, key *rsa.PrivateKey, alg Algorithm) ([]byte, error) {
	h := alg.Hash().New()
	h.Write(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, alg.Hash(), h.Sum(nil))
	if err != nil {
		return nil, fmt.Errorf("signer: firmar SignedInfo: %w", err)
	}
	return sig, nil
}

// verifyBytes verifica sig sobre data con la llave pública.
func verifyBytes(data, sig []byte, pub *rsa.PublicKey, alg Algorithm) error {
	h := alg.Hash().New()
	h.Write(data)
	if err := rsa.VerifyPKCS1v15(pub, alg.Hash(), h.Sum(nil), sig); err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureMismatch, err)
	}
	return nil
}
