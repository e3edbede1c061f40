// Constantes del perfil XMLDSig usado por la NFS-e (firma enveloped, una sola Reference).

package signer

// Namespaces y algoritmos XMLDSig.
const (
	NamespaceDS  = "http://www.w3.org/2000/09/xmldsig#"
	NamespaceExc = "http://www.w3.org/2001/10/xml-exc-c14n#"

	AlgExcC14N             = "http://www.w3.org/2001/10/xml-exc-c14n#"
	AlgExcC14NWithComments = "http://www.w3.org/2001/10/xml-exc-c14n#WithComments"
	AlgC14N                = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgC14NWithComments    = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315#WithComments"

	AlgRSASHA1   = "http://www.w3.org/2000/09/xmldsig#rsa-sha1"
	AlgRSASHA256 = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	AlgSHA1      = "http://www.w3.org/2000/09/xmldsig#sha1"
	AlgSHA256    = "http://www.w3.org/2001/04/xmlenc#sha256"

	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)

// Prefijo del bloque de firma y nombres de los elementos que se buscan en el documento.
const (
	dsPrefix = "ds"

	tagSignature       = "Signature"
	tagSignedInfo      = "SignedInfo"
	tagSignatureMethod = "SignatureMethod"
	tagReference       = "Reference"
	tagDigestValue     = "DigestValue"
	tagSignatureValue  = "SignatureValue"
	tagX509Certificate = "X509Certificate"
)

// DefaultIDMarker atributo del nodo firmado que ancla la URI de la Reference.
const DefaultIDMarker = "Id"

// idPrefix prefijo de los Id generados cuando el nodo no trae uno propio.
const idPrefix = "pfx"
