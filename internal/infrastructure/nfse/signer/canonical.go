package signer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
	"github.com/russellhaering/goxmldsig/etreeutils"
)

// CanonicalParams parámetros de canonicalización: exclusiva o inclusiva, con o sin
// comentarios, restricción opcional por path y lista de prefijos inclusivos (sólo C14N
// exclusiva).
type CanonicalParams struct {
	Exclusive           bool
	WithComments        bool
	XPath               string
	InclusiveNamespaces []string
}

// DefaultCanonical C14N exclusiva sin comentarios.
var DefaultCanonical = CanonicalParams{Exclusive: true}

func (p CanonicalParams) prefixList() string {
	return strings.Join(p.InclusiveNamespaces, " ")
}

// methodURI URI del algoritmo que corresponde a los parámetros (CanonicalizationMethod y
// Transform de la Reference).
func (p CanonicalParams) methodURI() string {
	switch {
	case p.Exclusive && p.WithComments:
		return AlgExcC14NWithComments
	case p.Exclusive:
		return AlgExcC14N
	case p.WithComments:
		return AlgC14NWithComments
	default:
		return AlgC14N
	}
}

// signedInfoParams parámetros para canonicalizar SignedInfo: mismo método que la
// Reference, sin path ni PrefixList (CanonicalizationMethod no los declara).
func (p CanonicalParams) signedInfoParams() CanonicalParams {
	return CanonicalParams{Exclusive: p.Exclusive, WithComments: p.WithComments}
}

func paramsOrDefault(p *CanonicalParams) CanonicalParams {
	if p == nil {
		return DefaultCanonical
	}
	return *p
}

// canonicalize devuelve la forma canónica del subárbol de el. No modifica el árbol: trabaja
// sobre una copia que arrastra los namespaces declarados en los ancestros.
func canonicalize(el *etree.Element, p CanonicalParams) ([]byte, error) {
	if p.XPath == "" {
		return canonicalizeElement(el, p)
	}
	path, err := etree.CompilePath(p.XPath)
	if err != nil {
		return nil, fmt.Errorf("signer: path %q inválido: %w", p.XPath, err)
	}
	matches := el.FindElementsPath(path)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyNodeSet, p.XPath)
	}
	var out bytes.Buffer
	for _, match := range matches {
		b, err := canonicalizeElement(match, p)
		if err != nil {
			return nil, err
		}
		out.Write(b)
	}
	return out.Bytes(), nil
}

func canonicalizeElement(el *etree.Element, p CanonicalParams) ([]byte, error) {
	ctx, err := etreeutils.NSBuildParentContext(el)
	if err != nil {
		return nil, fmt.Errorf("signer: contexto de namespaces: %w", err)
	}
	detached, err := etreeutils.NSDetatch(ctx, el)
	if err != nil {
		return nil, fmt.Errorf("signer: copiar nodo: %w", err)
	}

	var canon dsig.Canonicalizer
	switch {
	case p.Exclusive && p.WithComments:
		canon = dsig.MakeC14N10ExclusiveWithCommentsCanonicalizerWithPrefixList(p.prefixList())
	case p.Exclusive:
		canon = dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList(p.prefixList())
	case p.WithComments:
		canon = dsig.MakeC14N10WithCommentsCanonicalizer()
	default:
		canon = dsig.MakeC14N10RecCanonicalizer()
	}
	out, err := canon.Canonicalize(detached)
	if err != nil {
		return nil, fmt.Errorf("signer: canonicalizar: %w", err)
	}
	return out, nil
}
