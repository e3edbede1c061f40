package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CanonicalRequest parámetros de canonicalización; nil = C14N exclusiva sin comentarios.
type CanonicalRequest struct {
	Exclusive           *bool    `json:"exclusive,omitempty"` // default true
	WithComments        bool     `json:"with_comments,omitempty"`
	XPath               string   `json:"xpath,omitempty"`
	InclusiveNamespaces []string `json:"inclusive_namespaces,omitempty"`
}

// SignRequest body para POST /api/signatures/sign.
type SignRequest struct {
	XML       string            `json:"xml"`
	Tag       string            `json:"tag"`                 // vacío = documento completo
	RootTag   string            `json:"root_tag,omitempty"`  // nodo donde se inserta la firma
	IDMarker  string            `json:"id_marker,omitempty"` // default de la configuración
	Algorithm string            `json:"algorithm,omitempty"` // sha1 | sha256
	Canonical *CanonicalRequest `json:"canonical,omitempty"`
}

// SignResponse documento firmado.
type SignResponse struct {
	ID           string `json:"id"`
	XML          string `json:"xml"`
	ReferenceURI string `json:"reference_uri"`
	DigestValue  string `json:"digest_value"`
	Algorithm    string `json:"algorithm"`
}

// VerifyRequest body para POST /api/signatures/verify.
type VerifyRequest struct {
	XML       string            `json:"xml"`
	Tag       string            `json:"tag,omitempty"`
	Canonical *CanonicalRequest `json:"canonical,omitempty"`
}

// VerifyResponse resultado por etapa. Code se informa cuando Signed es false.
type VerifyResponse struct {
	Signed           bool   `json:"signed"`
	SignaturePresent bool   `json:"signature_present"`
	DigestValid      bool   `json:"digest_valid"`
	SignatureValid   bool   `json:"signature_valid"`
	ReferenceURI     string `json:"reference_uri,omitempty"`
	Algorithm        string `json:"algorithm,omitempty"`
	Code             string `json:"code,omitempty"` // NO_SIGNATURE | DIGEST_MISMATCH | SIGNATURE_MISMATCH | MALFORMED_SIGNATURE
	Message          string `json:"message,omitempty"`
}

// RemoveSignatureRequest body para POST /api/signatures/remove.
type RemoveSignatureRequest struct {
	XML string `json:"xml"`
}

// RemoveSignatureResponse XML sin firma; Removed indica si había una.
type RemoveSignatureResponse struct {
	XML     string `json:"xml"`
	Removed bool   `json:"removed"`
}

// SignedDocumentResponse documento firmado almacenado.
type SignedDocumentResponse struct {
	ID           string              `json:"id"`
	Kind         string              `json:"kind"`
	TargetTag    string              `json:"target_tag,omitempty"`
	ReferenceURI string              `json:"reference_uri"`
	Algorithm    string              `json:"algorithm"`
	DigestValue  string              `json:"digest_value"`
	RpsNumero    string              `json:"rps_numero,omitempty"`
	Amount       decimal.NullDecimal `json:"amount"`
	XML          string              `json:"xml,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// SignedDocumentListResponse listado paginado.
type SignedDocumentListResponse struct {
	Items []SignedDocumentResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
