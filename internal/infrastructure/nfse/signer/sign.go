// Firma XMLDSig enveloped para NFS-e: una sola Reference al nodo indicado, certificado
// embebido en KeyInfo y bloque Signature como último hijo del nodo raíz de inserción.

package signer

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// Service firma y verifica documentos. No guarda estado: cada llamada trabaja sobre su
// propio árbol, así que puede usarse concurrentemente.
type Service struct{}

// NewService crea el servicio.
func NewService() *Service {
	return &Service{}
}

// SignOptions parámetros opcionales de Sign. Los valores cero equivalen a los valores por
// defecto del perfil: marcador "Id", RSA-SHA1, C14N exclusiva sin comentarios y el elemento
// raíz del documento como destino de la firma.
type SignOptions struct {
	IDMarker  string
	Algorithm Algorithm
	Canonical *CanonicalParams
	RootTag   string
}

func (o SignOptions) idMarker() string {
	if o.IDMarker == "" {
		return DefaultIDMarker
	}
	return o.IDMarker
}

// Sign firma el nodo tagName de content. Con tagName vacío se firma el documento completo
// (Reference URI=""). Devuelve el XML firmado sin declaración.
func (s *Service) Sign(cert *Certificate, content, tagName string, opts SignOptions) (string, error) {
	params := paramsOrDefault(opts.Canonical)

	doc, err := parseDocument(content)
	if err != nil {
		return "", err
	}
	root := doc.Root()
	if opts.RootTag != "" {
		root = findFirstByTag(doc.Root(), opts.RootTag)
	}

	var target *etree.Element
	if tagName != "" {
		target = findFirstByTag(doc.Root(), tagName)
		if target == nil || root == nil {
			return "", &TagNotFoundError{Tag: tagName}
		}
	} else if root == nil {
		return "", &TagNotFoundError{Tag: opts.RootTag}
	}

	// El digest se calcula antes de insertar la firma (transformada enveloped).
	uri := ""
	digestNode := doc.Root()
	if target != nil {
		uri = "#" + ensureID(target, opts.idMarker())
		digestNode = target
	}
	digest, err := computeDigest(digestNode, opts.Algorithm.Hash(), params)
	if err != nil {
		return "", err
	}

	block := buildSignature(uri, digest, opts.Algorithm, params)
	root.AddChild(block.signature)

	// SignedInfo se canonicaliza ya dentro del documento, con el mismo contexto de
	// namespaces que verá el verificador.
	canonical, err := canonicalize(block.signedInfo, params.signedInfoParams())
	if err != nil {
		return "", err
	}
	if len(canonical) == 0 {
		return "", fmt.Errorf("%w: SignedInfo", ErrEmptyNodeSet)
	}
	value, err := signBytes(canonical, cert.PrivateKey, opts.Algorithm)
	if err != nil {
		return "", err
	}
	block.signatureValue.SetText(base64.StdEncoding.EncodeToString(value))
	block.x509Certificate.SetText(cert.RawBase64())

	return serializeRoot(doc)
}

// ensureID devuelve el Id del nodo. Respeta el existente (también si difiere sólo en
// mayúsculas, p. ej. id="rps1" con marcador "Id") y si no hay genera uno nuevo.
func ensureID(el *etree.Element, marker string) string {
	if attr := selectAttrFold(el, marker); attr != nil && attr.Value != "" {
		return attr.Value
	}
	id := idPrefix + uuid.NewString()
	el.CreateAttr(marker, id)
	return id
}

// signatureBlock nodos del bloque ds:Signature que se rellenan después de firmar.
type signatureBlock struct {
	signature       *etree.Element
	signedInfo      *etree.Element
	signatureValue  *etree.Element
	x509Certificate *etree.Element
}

// buildSignature arma ds:Signature con SignedInfo completo y SignatureValue/X509Certificate
// vacíos.
func buildSignature(uri, digest string, alg Algorithm, params CanonicalParams) signatureBlock {
	ds := func(tag string) string { return dsPrefix + ":" + tag }

	signature := etree.NewElement(ds(tagSignature))
	signature.CreateAttr("xmlns:"+dsPrefix, NamespaceDS)

	signedInfo := signature.CreateElement(ds(tagSignedInfo))
	signedInfo.CreateElement(ds("CanonicalizationMethod")).CreateAttr("Algorithm", params.methodURI())
	signedInfo.CreateElement(ds(tagSignatureMethod)).CreateAttr("Algorithm", alg.SignatureMethodURI())

	reference := signedInfo.CreateElement(ds(tagReference))
	reference.CreateAttr("URI", uri)
	transforms := reference.CreateElement(ds("Transforms"))
	transforms.CreateElement(ds("Transform")).CreateAttr("Algorithm", TransformEnveloped)
	c14nTransform := transforms.CreateElement(ds("Transform"))
	c14nTransform.CreateAttr("Algorithm", params.methodURI())
	if params.Exclusive && len(params.InclusiveNamespaces) > 0 {
		inclusive := c14nTransform.CreateElement("ec:InclusiveNamespaces")
		inclusive.CreateAttr("xmlns:ec", NamespaceExc)
		inclusive.CreateAttr("PrefixList", strings.Join(params.InclusiveNamespaces, " "))
	}
	reference.CreateElement(ds("DigestMethod")).CreateAttr("Algorithm", alg.DigestMethodURI())
	reference.CreateElement(ds(tagDigestValue)).SetText(digest)

	return signatureBlock{
		signature:       signature,
		signedInfo:      signedInfo,
		signatureValue:  signature.CreateElement(ds(tagSignatureValue)),
		x509Certificate: signature.CreateElement(ds("KeyInfo")).CreateElement(ds("X509Data")).CreateElement(ds(tagX509Certificate)),
	}
}
