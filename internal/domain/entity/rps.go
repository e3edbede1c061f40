package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Códigos usados en el RPS (layout ABRASF, NFS-e Pública).
const (
	RpsTipoRps        = "1"
	RpsStatusNormal   = 1
	RpsStatusCanceled = 2
	SimNaoSim         = 1
	SimNaoNao         = 2
)

// Rps Recibo Provisório de Serviços: documento que el prestador emite y luego se
// convierte en NFS-e.
type Rps struct {
	Identificacao          RpsIdentificacao
	DataEmissao            time.Time
	NaturezaOperacao       int
	OptanteSimplesNacional int // 1 = sim, 2 = não
	IncentivadorCultural   int // 1 = sim, 2 = não
	Status                 int // 1 = normal, 2 = cancelado
	Servico                Servico
	Tomador                *Tomador       // nil = sin tomador
	Intermediario          *Intermediario // nil = sin intermediario
}

// RpsIdentificacao número, serie y tipo del RPS.
type RpsIdentificacao struct {
	Numero string
	Serie  string
	Tipo   string
}

// Servico descripción y valores del servicio prestado.
type Servico struct {
	Valores                   Valores
	ResponsavelRetencao       string
	ItemListaServico          string
	Discriminacao             string
	InformacoesComplementares string
	CodigoMunicipio           string // código IBGE
	CodigoPais                string
}

// Valores montos del servicio. Los opcionales con Valid=false no se emiten.
type Valores struct {
	ValorServicos          decimal.Decimal
	ValorDeducoes          decimal.NullDecimal
	ValorPis               decimal.NullDecimal
	ValorCofins            decimal.NullDecimal
	ValorInss              decimal.NullDecimal
	ValorIr                decimal.NullDecimal
	ValorCsll              decimal.NullDecimal
	IssRetido              int // 1 = sim, 2 = não
	ValorIss               decimal.NullDecimal
	ValorIssRetido         decimal.NullDecimal
	OutrasRetencoes        decimal.NullDecimal
	BaseCalculo            decimal.NullDecimal
	Aliquota               decimal.NullDecimal // se emite tal cual, sin redondeo
	ValorLiquidoNfse       decimal.NullDecimal // se emite tal cual, sin redondeo
	DescontoIncondicionado decimal.NullDecimal
	DescontoCondicionado   decimal.NullDecimal
}

// Tomador cliente que recibe el servicio. Cnpj tiene prioridad sobre Cpf.
type Tomador struct {
	Cnpj               string
	Cpf                string
	InscricaoMunicipal string
	RazaoSocial        string
	Endereco           *Endereco
	Telefone           string
	Email              string
}

// Endereco dirección del tomador.
type Endereco struct {
	Endereco        string
	Numero          string
	Complemento     string
	Bairro          string
	CodigoMunicipio string
	Uf              string
	CodigoPais      string
	Cep             string
}

// Intermediario intermediario del servicio.
type Intermediario struct {
	RazaoSocial        string
	Cnpj               string
	Cpf                string
	InscricaoMunicipal string
}

// Prestador emisor del RPS; sale de la configuración de la empresa, no del request.
type Prestador struct {
	Cnpj               string
	InscricaoMunicipal string
}

// InfRpsID valor del atributo id de InfRps, referenciado por la firma.
func (r *Rps) InfRpsID() string {
	return "rps" + r.Identificacao.Numero
}
