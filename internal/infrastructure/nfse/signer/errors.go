package signer

import (
	"errors"
	"fmt"
)

// Errores del subsistema de firma. Todos son terminales para la operación que los produce.
var (
	// ErrNotXML el contenido está vacío o no es un XML bien formado.
	ErrNotXML = errors.New("signer: el contenido no es un XML válido")
	// ErrDigestMismatch el digest recalculado no coincide con el DigestValue informado.
	ErrDigestMismatch = errors.New("signer: el digest calculado no coincide con el informado")
	// ErrSignatureMismatch el SignatureValue no se verifica con la llave pública del certificado.
	ErrSignatureMismatch = errors.New("signer: la firma no corresponde al SignedInfo")
	// ErrSignatureNotFound el documento no contiene bloque Signature.
	ErrSignatureNotFound = errors.New("signer: el documento no contiene Signature")
	// ErrMalformedSignature al bloque Signature le falta un elemento obligatorio.
	ErrMalformedSignature = errors.New("signer: bloque Signature incompleto")
	// ErrEmptyNodeSet la canonicalización no produjo bytes (path sin coincidencias).
	ErrEmptyNodeSet = errors.New("signer: el path no selecciona ningún nodo")
)

// TagNotFoundError no se encontró el nodo requerido para firmar o verificar.
type TagNotFoundError struct {
	Tag string
}

func (e *TagNotFoundError) Error() string {
	return fmt.Sprintf("signer: tag %q no encontrado en el documento", e.Tag)
}

// IsTagNotFound indica si err (o alguno de los errores que envuelve) es un TagNotFoundError.
func IsTagNotFound(err error) bool {
	var tnf *TagNotFoundError
	return errors.As(err, &tnf)
}

func malformed(element string) error {
	return fmt.Errorf("%w: falta %s", ErrMalformedSignature, element)
}
