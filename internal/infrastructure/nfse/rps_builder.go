package nfse

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nfse-publica/internal/domain/entity"
)

// Formato de DataEmissao en el layout ABRASF (hora local, sin zona).
const dataEmissaoLayout = "2006-01-02T15:04:05"

// RpsBuilderService construye el XML <Rps> sin firma.
type RpsBuilderService struct{}

// NewRpsBuilderService crea el servicio.
func NewRpsBuilderService() *RpsBuilderService {
	return &RpsBuilderService{}
}

// Build genera <Rps><InfRps id="rps{Numero}">…</InfRps></Rps> sin declaración XML.
// Los campos obligatorios se emiten siempre; los opcionales sólo si tienen valor.
// prestador puede ser nil.
func (s *RpsBuilderService) Build(rps *entity.Rps, prestador *entity.Prestador) (string, error) {
	if rps == nil {
		return "", fmt.Errorf("nfse: rps nil")
	}
	doc := etree.NewDocument()
	root := doc.CreateElement("Rps")
	inf := root.CreateElement("InfRps")
	inf.CreateAttr("id", rps.InfRpsID())

	ident := inf.CreateElement("IdentificacaoRps")
	addChild(ident, "Numero", rps.Identificacao.Numero, true)
	addChild(ident, "Serie", rps.Identificacao.Serie, true)
	addChild(ident, "Tipo", rps.Identificacao.Tipo, true)

	addChild(inf, "DataEmissao", rps.DataEmissao.Format(dataEmissaoLayout), true)
	addChild(inf, "NaturezaOperacao", itoa(rps.NaturezaOperacao), true)
	addChild(inf, "OptanteSimplesNacional", itoa(rps.OptanteSimplesNacional), true)
	addChild(inf, "IncentivadorCultural", itoa(rps.IncentivadorCultural), true)
	addChild(inf, "Status", itoa(rps.Status), true)

	s.writeServico(inf, &rps.Servico)
	if prestador != nil {
		node := inf.CreateElement("Prestador")
		addChild(node, "Cnpj", prestador.Cnpj, false)
		addChild(node, "InscricaoMunicipal", prestador.InscricaoMunicipal, true)
	}
	if rps.Tomador != nil {
		s.writeTomador(inf, rps.Tomador)
	}
	if rps.Intermediario != nil {
		s.writeIntermediario(inf, rps.Intermediario)
	}

	return doc.WriteToString()
}

func (s *RpsBuilderService) writeServico(parent *etree.Element, serv *entity.Servico) {
	node := parent.CreateElement("Servico")
	v := serv.Valores
	val := node.CreateElement("Valores")
	addChild(val, "ValorServicos", money(v.ValorServicos), true)
	addMoney(val, "ValorDeducoes", v.ValorDeducoes)
	addMoney(val, "ValorPis", v.ValorPis)
	addMoney(val, "ValorCofins", v.ValorCofins)
	addMoney(val, "ValorInss", v.ValorInss)
	addMoney(val, "ValorIr", v.ValorIr)
	addMoney(val, "ValorCsll", v.ValorCsll)
	addChild(val, "IssRetido", itoa(v.IssRetido), true)
	addMoney(val, "ValorIss", v.ValorIss)
	addMoney(val, "ValorIssRetido", v.ValorIssRetido)
	addMoney(val, "OutrasRetencoes", v.OutrasRetencoes)
	addMoney(val, "BaseCalculo", v.BaseCalculo)
	addRaw(val, "Aliquota", v.Aliquota)
	addRaw(val, "ValorLiquidoNfse", v.ValorLiquidoNfse)
	addMoney(val, "DescontoIncondicionado", v.DescontoIncondicionado)
	addMoney(val, "DescontoCondicionado", v.DescontoCondicionado)

	addChild(node, "ResponsavelRetencao", serv.ResponsavelRetencao, false)
	addChild(node, "ItemListaServico", serv.ItemListaServico, true)
	addChild(node, "Discriminacao", serv.Discriminacao, true)
	addChild(node, "InformacoesComplementares", serv.InformacoesComplementares, false)
	addChild(node, "CodigoMunicipio", serv.CodigoMunicipio, true)
	addChild(node, "CodigoPais", serv.CodigoPais, false)
}

func (s *RpsBuilderService) writeTomador(parent *etree.Element, tom *entity.Tomador) {
	node := parent.CreateElement("Tomador")
	ide := node.CreateElement("IdentificacaoTomador")
	writeCpfCnpj(ide, tom.Cnpj, tom.Cpf)
	addChild(ide, "InscricaoMunicipal", tom.InscricaoMunicipal, false)
	addChild(node, "RazaoSocial", tom.RazaoSocial, true)

	if end := tom.Endereco; end != nil {
		e := node.CreateElement("Endereco")
		addChild(e, "Endereco", end.Endereco, true)
		addChild(e, "Numero", end.Numero, true)
		addChild(e, "Complemento", end.Complemento, false)
		addChild(e, "Bairro", end.Bairro, true)
		addChild(e, "CodigoMunicipio", end.CodigoMunicipio, true)
		addChild(e, "Uf", end.Uf, true)
		addChild(e, "CodigoPais", end.CodigoPais, false)
		addChild(e, "Cep", end.Cep, true)
	}
	if tom.Telefone != "" || tom.Email != "" {
		contato := node.CreateElement("Contato")
		addChild(contato, "Telefone", tom.Telefone, false)
		addChild(contato, "Email", tom.Email, false)
	}
}

func (s *RpsBuilderService) writeIntermediario(parent *etree.Element, in *entity.Intermediario) {
	node := parent.CreateElement("IntermediarioServico")
	addChild(node, "RazaoSocial", in.RazaoSocial, true)
	writeCpfCnpj(node, in.Cnpj, in.Cpf)
	addChild(node, "InscricaoMunicipal", in.InscricaoMunicipal, false)
}

// writeCpfCnpj Cnpj si viene informado, si no Cpf.
func writeCpfCnpj(parent *etree.Element, cnpj, cpf string) {
	node := parent.CreateElement("CpfCnpj")
	if cnpj != "" {
		addChild(node, "Cnpj", cnpj, true)
		return
	}
	addChild(node, "Cpf", cpf, true)
}

// addChild agrega <name>value</name>; si no es obligatorio y value es vacío no agrega nada.
func addChild(parent *etree.Element, name, value string, required bool) {
	if value == "" && !required {
		return
	}
	parent.CreateElement(name).SetText(value)
}

func addMoney(parent *etree.Element, name string, v decimal.NullDecimal) {
	if v.Valid {
		addChild(parent, name, money(v.Decimal), true)
	}
}

func addRaw(parent *etree.Element, name string, v decimal.NullDecimal) {
	if v.Valid {
		addChild(parent, name, v.Decimal.String(), true)
	}
}

// money dos decimales con punto, sin separador de miles.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
