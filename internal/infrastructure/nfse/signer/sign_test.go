package signer_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nfse-publica/internal/infrastructure/nfse/signer"
)

// ──────────────────────────────────────────────────────────────────────────────
// Firma
// ──────────────────────────────────────────────────────────────────────────────

// TestSign_EjemploRps el caso de referencia: InfRps id="rps1" firmado, Signature como
// último hijo de Rps y Reference URI="#rps1".
func TestSign_EjemploRps(t *testing.T) {
	svc := signer.NewService()
	cert := newTestCertificate(t)

	signed, err := svc.Sign(cert, rpsEjemplo, "InfRps", signer.SignOptions{})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(signed))
	root := doc.Root()
	require.Equal(t, "Rps", root.Tag)
	children := root.ChildElements()
	require.Len(t, children, 2)
	assert.Equal(t, "Signature", children[len(children)-1].Tag, "la firma debe ser el último hijo de Rps")

	ref := root.FindElement(".//Reference")
	require.NotNil(t, ref)
	assert.Equal(t, "#rps1", ref.SelectAttrValue("URI", ""))
	assert.Nil(t, root.FindElement("./InfRps").SelectAttr("Id"), "no debe añadir un Id nuevo si ya existe id")

	ok, err := svc.IsSigned(signed, "InfRps", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestSign_Concurrente el mismo Service y certificado desde varias goroutines.
func TestSign_Concurrente(t *testing.T) {
	svc := signer.NewService()
	cert := newTestCertificate(t)

	const n = 16
	results := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			xml := fmt.Sprintf(`<Rps><InfRps id="rps%d"><Numero>%d</Numero></InfRps></Rps>`, i, i)
			results[i], errs[i] = svc.Sign(cert, xml, "InfRps", signer.SignOptions{Algorithm: signer.RSASHA256})
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Contains(t, results[i], fmt.Sprintf(`URI="#rps%d"`, i))
		ok, err := svc.IsSigned(results[i], "InfRps", nil)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestSign_SinDeclaracionXML(t *testing.T) {
	svc := signer.NewService()
	signed, err := svc.Sign(newTestCertificate(t), `<?xml version="1.0" encoding="UTF-8"?>`+rpsEjemplo, "InfRps", signer.SignOptions{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "<Rps>"), "la salida no debe llevar declaración XML")
}

func TestSign_EstructuraDelBloque(t *testing.T) {
	svc := signer.NewService()
	signed, err := svc.Sign(newTestCertificate(t), rpsEjemplo, "InfRps", signer.SignOptions{})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(signed))
	sig := doc.FindElement("//Signature")
	require.NotNil(t, sig)
	assert.Equal(t, signer.NamespaceDS, sig.SelectAttrValue("xmlns:ds", ""))

	assert.Equal(t, signer.AlgExcC14N, sig.FindElement(".//CanonicalizationMethod").SelectAttrValue("Algorithm", ""))
	assert.Len(t, sig.FindElements(".//Reference"), 1, "el perfil admite una sola Reference")

	transforms := sig.FindElements(".//Transform")
	require.Len(t, transforms, 2)
	assert.Equal(t, signer.TransformEnveloped, transforms[0].SelectAttrValue("Algorithm", ""))
	assert.Equal(t, signer.AlgExcC14N, transforms[1].SelectAttrValue("Algorithm", ""))

	assert.NotEmpty(t, sig.FindElement(".//SignatureValue").Text())
	assert.Equal(t, newTestCertificate(t).RawBase64(), sig.FindElement(".//KeyInfo/X509Data/X509Certificate").Text())
}

// TestSign_SeleccionDeAlgoritmo RSA-SHA1 (por defecto) y RSA-SHA256 producen los URIs
// correspondientes y el verificador elige el hash correcto.
func TestSign_SeleccionDeAlgoritmo(t *testing.T) {
	cases := []struct {
		name         string
		alg          signer.Algorithm
		sigMethod    string
		digestMethod string
		digestLen    int
	}{
		{"sha1", signer.RSASHA1, signer.AlgRSASHA1, signer.AlgSHA1, 28},
		{"sha256", signer.RSASHA256, signer.AlgRSASHA256, signer.AlgSHA256, 44},
	}
	svc := signer.NewService()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signed, err := svc.Sign(newTestCertificate(t), rpsEjemplo, "InfRps", signer.SignOptions{Algorithm: tc.alg})
			require.NoError(t, err)

			assert.Equal(t, tc.sigMethod, attrValue(t, signed, `SignatureMethod Algorithm="([^"]+)"`))
			assert.Equal(t, tc.digestMethod, attrValue(t, signed, `DigestMethod Algorithm="([^"]+)"`))
			assert.Len(t, attrValue(t, signed, `<ds:DigestValue>([^<]+)</ds:DigestValue>`), tc.digestLen)

			ok, err := svc.DigestCheck(signed, "InfRps", nil)
			require.NoError(t, err)
			assert.True(t, ok)
			ok, err = svc.SignatureCheck(signed, nil)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestSign_TagInexistente(t *testing.T) {
	svc := signer.NewService()
	_, err := svc.Sign(newTestCertificate(t), rpsEjemplo, "NoSuchTag", signer.SignOptions{})
	require.Error(t, err)

	var tnf *signer.TagNotFoundError
	require.True(t, errors.As(err, &tnf), "debe ser TagNotFoundError, fue %v", err)
	assert.Equal(t, "NoSuchTag", tnf.Tag)
}

func TestSign_RootTagInexistente(t *testing.T) {
	svc := signer.NewService()
	_, err := svc.Sign(newTestCertificate(t), rpsEjemplo, "InfRps", signer.SignOptions{RootTag: "LoteRps"})
	assert.True(t, signer.IsTagNotFound(err))
}

func TestSign_NoEsXML(t *testing.T) {
	svc := signer.NewService()
	for name, content := range map[string]string{
		"vacío":         "",
		"espacios":      "   \n",
		"texto":         "isto não é xml",
		"sin cerrar":    "<Rps><InfRps></Rps>",
		"dos raíces":    "<A/><B/>",
		"texto externo": "<A/>sobra",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Sign(newTestCertificate(t), content, "InfRps", signer.SignOptions{})
			assert.ErrorIs(t, err, signer.ErrNotXML)
		})
	}
}

// TestSign_GeneraIdSiNoExiste el nodo sin atributo marcador recibe un Id generado.
func TestSign_GeneraIdSiNoExiste(t *testing.T) {
	svc := signer.NewService()
	content := `<Lote><Dados><Valor>10.00</Valor></Dados></Lote>`

	signed, err := svc.Sign(newTestCertificate(t), content, "Dados", signer.SignOptions{})
	require.NoError(t, err)

	id := attrValue(t, signed, `<Dados Id="([^"]+)"`)
	assert.True(t, strings.HasPrefix(id, "pfx"))
	assert.Equal(t, "#"+id, attrValue(t, signed, `Reference URI="([^"]*)"`))

	ok, err := svc.IsSigned(signed, "Dados", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSign_RespetaIdExistenteYMarcador(t *testing.T) {
	svc := signer.NewService()

	signed, err := svc.Sign(newTestCertificate(t), `<Lote><Dados Id="abc"/></Lote>`, "Dados", signer.SignOptions{})
	require.NoError(t, err)
	assert.Equal(t, "#abc", attrValue(t, signed, `Reference URI="([^"]*)"`))

	signed, err = svc.Sign(newTestCertificate(t), `<Lote><Dados/></Lote>`, "Dados", signer.SignOptions{IDMarker: "Codigo"})
	require.NoError(t, err)
	id := attrValue(t, signed, `<Dados Codigo="([^"]+)"`)
	assert.Equal(t, "#"+id, attrValue(t, signed, `Reference URI="([^"]*)"`))
}

// TestSign_DocumentoCompleto sin tag se firma todo el documento con URI vacía.
func TestSign_DocumentoCompleto(t *testing.T) {
	svc := signer.NewService()
	signed, err := svc.Sign(newTestCertificate(t), rpsEjemplo, "", signer.SignOptions{})
	require.NoError(t, err)
	assert.Contains(t, signed, `<ds:Reference URI="">`)

	ok, err := svc.IsSigned(signed, "", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestSign_RootTag la firma se inserta en el nodo indicado y no en la raíz.
func TestSign_RootTag(t *testing.T) {
	svc := signer.NewService()
	content := `<EnviarLoteRpsEnvio><LoteRps Id="lote1"><ListaRps>` + rpsEjemplo + `</ListaRps></LoteRps></EnviarLoteRpsEnvio>`

	signed, err := svc.Sign(newTestCertificate(t), content, "InfRps", signer.SignOptions{RootTag: "Rps"})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(signed))
	rps := doc.FindElement("//Rps")
	require.NotNil(t, rps)
	last := rps.ChildElements()[len(rps.ChildElements())-1]
	assert.Equal(t, "Signature", last.Tag)
	assert.Nil(t, doc.Root().SelectElement("Signature"))

	ok, err := svc.IsSigned(signed, "InfRps", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestSign_FirmaDentroDelNodoFirmado el nodo firmado es también el nodo de inserción:
// el verificador debe aplicar la transformada enveloped.
func TestSign_FirmaDentroDelNodoFirmado(t *testing.T) {
	svc := signer.NewService()
	signed, err := svc.Sign(newTestCertificate(t), `<LoteRps Id="lote1"><Numero>1</Numero></LoteRps>`, "LoteRps", signer.SignOptions{})
	require.NoError(t, err)

	ok, err := svc.IsSigned(signed, "", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSign_ConNamespaces(t *testing.T) {
	svc := signer.NewService()
	content := `<EnviarLoteRpsEnvio xmlns="http://www.abrasf.org.br/nfse.xsd" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<Rps><InfRps id="rps7"><DataEmissao>2024-03-01T10:00:00</DataEmissao></InfRps></Rps></EnviarLoteRpsEnvio>`

	for _, alg := range []signer.Algorithm{signer.RSASHA1, signer.RSASHA256} {
		signed, err := svc.Sign(newTestCertificate(t), content, "InfRps", signer.SignOptions{Algorithm: alg, RootTag: "Rps"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(signed, `<EnviarLoteRpsEnvio xmlns="http://www.abrasf.org.br/nfse.xsd"`))

		ok, err := svc.IsSigned(signed, "InfRps", nil)
		require.NoError(t, err, alg.String())
		assert.True(t, ok)
	}
}

func TestSign_ParametrosCanonicos(t *testing.T) {
	cases := map[string]signer.CanonicalParams{
		"exclusiva con comentarios": {Exclusive: true, WithComments: true},
		"inclusiva":                 {Exclusive: false},
		"inclusiva con comentarios": {Exclusive: false, WithComments: true},
		"prefijos inclusivos":       {Exclusive: true, InclusiveNamespaces: []string{"xsi"}},
	}
	svc := signer.NewService()
	content := `<Rps xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"><InfRps id="rps2"><!-- nota --><Status>1</Status></InfRps></Rps>`
	for name, params := range cases {
		params := params
		t.Run(name, func(t *testing.T) {
			signed, err := svc.Sign(newTestCertificate(t), content, "InfRps", signer.SignOptions{Canonical: &params})
			require.NoError(t, err)

			ok, err := svc.IsSigned(signed, "InfRps", &params)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestSign_PrefijosInclusivosEnTransform(t *testing.T) {
	svc := signer.NewService()
	params := signer.CanonicalParams{Exclusive: true, InclusiveNamespaces: []string{"xsi", "xsd"}}
	signed, err := svc.Sign(newTestCertificate(t), rpsEjemplo, "InfRps", signer.SignOptions{Canonical: &params})
	require.NoError(t, err)
	assert.Contains(t, signed, `PrefixList="xsi xsd"`)
}

func TestSign_EntradaLatin1(t *testing.T) {
	svc := signer.NewService()
	// "Serviço" en ISO-8859-1: ç = 0xE7.
	content := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><Rps><InfRps id=\"rps3\"><Discriminacao>Servi\xe7o</Discriminacao></InfRps></Rps>"

	signed, err := svc.Sign(newTestCertificate(t), content, "InfRps", signer.SignOptions{})
	require.NoError(t, err)
	assert.Contains(t, signed, "Serviço")

	ok, err := svc.IsSigned(signed, "InfRps", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := signer.ParseAlgorithm("SHA256")
	require.NoError(t, err)
	assert.Equal(t, signer.RSASHA256, alg)

	alg, err = signer.ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, signer.RSASHA1, alg)

	_, err = signer.ParseAlgorithm("md5")
	assert.Error(t, err)

	for _, a := range []signer.Algorithm{signer.RSASHA1, signer.RSASHA256} {
		parsed, err := signer.ParseAlgorithm(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
}
