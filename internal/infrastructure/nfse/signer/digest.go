package signer

import (
	"crypto"
	_ "crypto/sha1"
	_ "crypto/sha256"
	"encoding/base64"

	"github.com/beevik/etree"
)

// computeDigest canonicaliza el nodo y devuelve el hash en Base64.
func computeDigest(el *etree.Element, hash crypto.Hash, p CanonicalParams) (string, error) {
	canonical, err := canonicalize(el, p)
	if err != nil {
		return "", err
	}
	h := hash.New()
	h.Write(canonical)
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// digestHashForMethod elige el hash a partir del SignatureMethod: RSA-SHA1 usa SHA-1,
// cualquier otro SHA-256.
func digestHashForMethod(signatureMethod string) crypto.Hash {
	if signatureMethod == AlgRSASHA1 {
		return crypto.SHA1
	}
	return crypto.SHA256
}
