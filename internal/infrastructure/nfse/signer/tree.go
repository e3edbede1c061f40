// Consultas tipadas sobre el árbol etree: búsquedas en orden de documento (pre-orden),
// primera coincidencia gana.

package signer

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// parseDocument valida que content sea XML bien formado con un único elemento raíz y lo
// carga en un árbol nuevo, propiedad exclusiva de la llamada.
func parseDocument(content string) (*etree.Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrNotXML
	}
	if err := validateXML(content); err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromString(content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotXML, err)
	}
	if doc.Root() == nil {
		return nil, ErrNotXML
	}
	return doc, nil
}

// validateXML recorre los tokens con el decoder estricto: detecta etiquetas sin cerrar o
// cruzadas y documentos con más de una raíz, que etree tolera.
func validateXML(content string) error {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.CharsetReader = charsetReader
	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("%w: texto fuera del elemento raíz", ErrNotXML)
			}
		}
	}
	if roots != 1 {
		return fmt.Errorf("%w: se esperaba un único elemento raíz, hay %d", ErrNotXML, roots)
	}
	return nil
}

// tagMatches compara por nombre local ("Signature" encuentra ds:Signature) o, si tag trae
// prefijo, por nombre calificado.
func tagMatches(el *etree.Element, tag string) bool {
	if strings.Contains(tag, ":") {
		return el.FullTag() == tag
	}
	return el.Tag == tag
}

// findFirstByTag devuelve el primer elemento (incluido root) con ese nombre, o nil.
func findFirstByTag(root *etree.Element, tag string) *etree.Element {
	if root == nil || tag == "" {
		return nil
	}
	if tagMatches(root, tag) {
		return root
	}
	for _, child := range root.ChildElements() {
		if found := findFirstByTag(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// findFirstDescendantByTag como findFirstByTag pero excluye a root.
func findFirstDescendantByTag(root *etree.Element, tag string) *etree.Element {
	for _, child := range root.ChildElements() {
		if found := findFirstByTag(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// findFirstWithAttr devuelve el primer elemento que tenga un atributo sin prefijo llamado
// name, comparando sin distinguir mayúsculas ("Id", "id", "ID").
func findFirstWithAttr(root *etree.Element, name string) (*etree.Element, *etree.Attr) {
	if root == nil {
		return nil, nil
	}
	if attr := selectAttrFold(root, name); attr != nil {
		return root, attr
	}
	for _, child := range root.ChildElements() {
		if el, attr := findFirstWithAttr(child, name); el != nil {
			return el, attr
		}
	}
	return nil, nil
}

// selectAttrFold busca primero el nombre exacto y luego ignorando mayúsculas.
func selectAttrFold(el *etree.Element, name string) *etree.Attr {
	if attr := el.SelectAttr(name); attr != nil && attr.Space == "" {
		return attr
	}
	for i := range el.Attr {
		attr := &el.Attr[i]
		if attr.Space == "" && strings.EqualFold(attr.Key, name) {
			return attr
		}
	}
	return nil
}

// isDescendant indica si el está dentro del subárbol de ancestor (o es ancestor).
func isDescendant(el, ancestor *etree.Element) bool {
	for cur := el; cur != nil; cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// detach saca el elemento de su padre; no hace nada si ya está suelto.
func detach(el *etree.Element) {
	if parent := el.Parent(); parent != nil {
		parent.RemoveChild(el)
	}
}

// childText texto del primer descendiente con ese nombre.
func childText(root *etree.Element, tag string) (string, bool) {
	el := findFirstDescendantByTag(root, tag)
	if el == nil {
		return "", false
	}
	return el.Text(), true
}

// serializeRoot escribe sólo el elemento raíz, sin declaración XML.
func serializeRoot(doc *etree.Document) (string, error) {
	out := etree.NewDocument()
	out.WriteSettings = doc.WriteSettings
	out.SetRoot(doc.Root())
	s, err := out.WriteToString()
	if err != nil {
		return "", fmt.Errorf("signer: serializar XML: %w", err)
	}
	return s, nil
}
