package signer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// charsetReader decodifica los XML declarados en Latin-1 (frecuentes en los web services
// municipales de NFS-e) para que etree y el decoder trabajen siempre en UTF-8.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToUpper(strings.TrimSpace(charset)) {
	case "", "UTF-8", "UTF8", "US-ASCII", "ASCII":
		return input, nil
	case "ISO-8859-1", "ISO8859-1", "LATIN1", "LATIN-1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("signer: charset %q no soportado", charset)
	}
}
