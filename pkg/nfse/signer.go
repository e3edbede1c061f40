// Package nfse: puertos para firma y verificación XMLDSig de documentos NFS-e.

package nfse

import "github.com/jhoicas/nfse-publica/internal/infrastructure/nfse/signer"

// Signer firma un XML y devuelve el documento con ds:Signature como último hijo del nodo
// raíz de inserción.
type Signer interface {
	// Sign firma el nodo tagName (vacío = documento completo) con el certificado.
	Sign(cert *signer.Certificate, content, tagName string, opts signer.SignOptions) (string, error)
	// RemoveSignature quita la firma existente para poder volver a firmar.
	RemoveSignature(content string) (string, error)
}

// Verifier comprueba firmas embebidas.
type Verifier interface {
	ExistsSignature(content string) (bool, error)
	DigestCheck(content, tagName string, params *signer.CanonicalParams) (bool, error)
	SignatureCheck(content string, params *signer.CanonicalParams) (bool, error)
	IsSigned(content, tagName string, params *signer.CanonicalParams) (bool, error)
	// Describe lee Reference, método y certificado sin verificar.
	Describe(content string) (*signer.SignatureInfo, error)
}

// SignerVerifier agrupa ambos puertos; lo implementa signer.Service.
type SignerVerifier interface {
	Signer
	Verifier
}

var _ SignerVerifier = (*signer.Service)(nil)
