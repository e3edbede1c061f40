// Verificación de documentos firmados: presencia de Signature, digest de la Reference y
// SignatureValue contra el certificado embebido. La primera comprobación que falla termina
// la verificación.

package signer

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ExistsSignature indica si el documento contiene un bloque Signature.
func (s *Service) ExistsSignature(content string) (bool, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return false, err
	}
	return findFirstByTag(doc.Root(), tagSignature) != nil, nil
}

// IsSigned devuelve false si no hay firma; si la hay exige que digest y SignatureValue
// sean válidos, devolviendo el error específico de la comprobación que falle.
func (s *Service) IsSigned(content, tagName string, params *CanonicalParams) (bool, error) {
	exists, err := s.ExistsSignature(content)
	if err != nil || !exists {
		return false, err
	}
	if ok, err := s.DigestCheck(content, tagName, params); !ok {
		return false, err
	}
	return s.SignatureCheck(content, params)
}

// DigestCheck recalcula el digest del nodo referenciado y lo compara con el DigestValue.
// Con tagName vacío el nodo se deduce: la raíz si la URI es vacía, o el dueño del primer
// atributo Id del documento.
func (s *Service) DigestCheck(content, tagName string, params *CanonicalParams) (bool, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return false, err
	}
	root := doc.Root()
	signature := findFirstByTag(root, tagSignature)
	if signature == nil {
		return false, ErrSignatureNotFound
	}
	reference := findFirstDescendantByTag(signature, tagReference)
	if reference == nil {
		return false, malformed(tagReference)
	}
	uri := reference.SelectAttrValue("URI", "")

	if tagName == "" {
		if uri == "" {
			tagName = root.FullTag()
		} else if owner, _ := findFirstWithAttr(root, DefaultIDMarker); owner != nil {
			tagName = owner.FullTag()
		}
	}
	node := findFirstByTag(root, tagName)
	if node == nil {
		return false, &TagNotFoundError{Tag: tagName}
	}

	method, err := signatureMethod(signature)
	if err != nil {
		return false, err
	}
	informed, ok := childText(reference, tagDigestValue)
	if !ok {
		return false, malformed(tagDigestValue)
	}

	// Transformada enveloped: la firma no forma parte de lo firmado.
	if uri == "" || isDescendant(signature, node) {
		detach(signature)
	}
	calculated, err := computeDigest(node, digestHashForMethod(method), paramsOrDefault(params))
	if err != nil {
		return false, err
	}
	if calculated != informed {
		return false, fmt.Errorf("%w: calculado %s, informado %q", ErrDigestMismatch, calculated, informed)
	}
	return true, nil
}

// SignatureCheck verifica el SignatureValue sobre el SignedInfo canonicalizado con la llave
// pública del X509Certificate embebido.
func (s *Service) SignatureCheck(content string, params *CanonicalParams) (bool, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return false, err
	}
	signature := findFirstByTag(doc.Root(), tagSignature)
	if signature == nil {
		return false, ErrSignatureNotFound
	}
	method, err := signatureMethod(signature)
	if err != nil {
		return false, err
	}
	certContent, ok := childText(signature, tagX509Certificate)
	if !ok {
		return false, malformed(tagX509Certificate)
	}
	pub, err := publicKeyFromContent(certContent)
	if err != nil {
		return false, err
	}
	signedInfo := findFirstDescendantByTag(signature, tagSignedInfo)
	if signedInfo == nil {
		return false, malformed(tagSignedInfo)
	}
	canonical, err := canonicalize(signedInfo, paramsOrDefault(params).signedInfoParams())
	if err != nil {
		return false, err
	}
	if len(canonical) == 0 {
		return false, fmt.Errorf("%w: SignedInfo", ErrEmptyNodeSet)
	}
	value, ok := childText(signature, tagSignatureValue)
	if !ok {
		return false, malformed(tagSignatureValue)
	}
	value = strings.NewReplacer("\r", "", "\n", "").Replace(value)
	decoded, err := base64.StdEncoding.Strict().DecodeString(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%w: SignatureValue no es Base64: %v", ErrSignatureMismatch, err)
	}
	if err := verifyBytes(canonical, decoded, pub, algorithmForMethod(method)); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveSignature quita el primer bloque Signature y devuelve el documento serializado.
// Si no hay firma devuelve content sin cambios, por lo que es idempotente.
func (s *Service) RemoveSignature(content string) (string, error) {
	exists, err := s.ExistsSignature(content)
	if err != nil {
		return "", err
	}
	if !exists {
		return content, nil
	}
	doc, err := parseDocument(content)
	if err != nil {
		return "", err
	}
	if signature := findFirstDescendantByTag(doc.Root(), tagSignature); signature != nil {
		detach(signature)
	}
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("signer: serializar XML: %w", err)
	}
	return out, nil
}

func signatureMethod(signature *etree.Element) (string, error) {
	el := findFirstDescendantByTag(signature, tagSignatureMethod)
	if el == nil {
		return "", malformed(tagSignatureMethod)
	}
	return el.SelectAttrValue("Algorithm", ""), nil
}

// SignatureInfo datos de la Reference y del certificado de una firma embebida.
type SignatureInfo struct {
	ReferenceURI    string
	DigestValue     string
	SignatureMethod string
	Algorithm       Algorithm
	Certificate     string // Base64 DER tal como aparece en X509Certificate
}

// Describe lee la firma existente sin verificarla.
func (s *Service) Describe(content string) (*SignatureInfo, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}
	signature := findFirstByTag(doc.Root(), tagSignature)
	if signature == nil {
		return nil, ErrSignatureNotFound
	}
	reference := findFirstDescendantByTag(signature, tagReference)
	if reference == nil {
		return nil, malformed(tagReference)
	}
	method, err := signatureMethod(signature)
	if err != nil {
		return nil, err
	}
	digest, _ := childText(reference, tagDigestValue)
	certContent, _ := childText(signature, tagX509Certificate)
	return &SignatureInfo{
		ReferenceURI:    reference.SelectAttrValue("URI", ""),
		DigestValue:     strings.TrimSpace(digest),
		SignatureMethod: method,
		Algorithm:       algorithmForMethod(method),
		Certificate:     strings.TrimSpace(certContent),
	}, nil
}
