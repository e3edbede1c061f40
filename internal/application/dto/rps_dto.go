package dto

import "github.com/shopspring/decimal"

// SignRpsRequest body para POST /api/rps/sign. El prestador sale de la configuración.
type SignRpsRequest struct {
	Numero                 string                `json:"numero"`
	Serie                  string                `json:"serie"`
	Tipo                   string                `json:"tipo,omitempty"`         // default "1"
	DataEmissao            string                `json:"data_emissao,omitempty"` // 2006-01-02T15:04:05; vacío = ahora
	NaturezaOperacao       int                   `json:"natureza_operacao"`
	OptanteSimplesNacional int                   `json:"optante_simples_nacional"`
	IncentivadorCultural   int                   `json:"incentivador_cultural"`
	Status                 int                   `json:"status,omitempty"` // default 1
	Servico                ServicoRequest        `json:"servico"`
	Tomador                *TomadorRequest       `json:"tomador,omitempty"`
	Intermediario          *IntermediarioRequest `json:"intermediario,omitempty"`
	Algorithm              string                `json:"algorithm,omitempty"`
}

// ServicoRequest servicio prestado.
type ServicoRequest struct {
	Valores                   ValoresRequest `json:"valores"`
	ResponsavelRetencao       string         `json:"responsavel_retencao,omitempty"`
	ItemListaServico          string         `json:"item_lista_servico"`
	Discriminacao             string         `json:"discriminacao"`
	InformacoesComplementares string         `json:"informacoes_complementares,omitempty"`
	CodigoMunicipio           string         `json:"codigo_municipio"`
	CodigoPais                string         `json:"codigo_pais,omitempty"`
}

// ValoresRequest montos; null u omitido = no se emite.
type ValoresRequest struct {
	ValorServicos          decimal.Decimal     `json:"valor_servicos"`
	ValorDeducoes          decimal.NullDecimal `json:"valor_deducoes"`
	ValorPis               decimal.NullDecimal `json:"valor_pis"`
	ValorCofins            decimal.NullDecimal `json:"valor_cofins"`
	ValorInss              decimal.NullDecimal `json:"valor_inss"`
	ValorIr                decimal.NullDecimal `json:"valor_ir"`
	ValorCsll              decimal.NullDecimal `json:"valor_csll"`
	IssRetido              int                 `json:"iss_retido"`
	ValorIss               decimal.NullDecimal `json:"valor_iss"`
	ValorIssRetido         decimal.NullDecimal `json:"valor_iss_retido"`
	OutrasRetencoes        decimal.NullDecimal `json:"outras_retencoes"`
	BaseCalculo            decimal.NullDecimal `json:"base_calculo"`
	Aliquota               decimal.NullDecimal `json:"aliquota"`
	ValorLiquidoNfse       decimal.NullDecimal `json:"valor_liquido_nfse"`
	DescontoIncondicionado decimal.NullDecimal `json:"desconto_incondicionado"`
	DescontoCondicionado   decimal.NullDecimal `json:"desconto_condicionado"`
}

// TomadorRequest cliente del servicio.
type TomadorRequest struct {
	Cnpj               string           `json:"cnpj,omitempty"`
	Cpf                string           `json:"cpf,omitempty"`
	InscricaoMunicipal string           `json:"inscricao_municipal,omitempty"`
	RazaoSocial        string           `json:"razao_social"`
	Endereco           *EnderecoRequest `json:"endereco,omitempty"`
	Telefone           string           `json:"telefone,omitempty"`
	Email              string           `json:"email,omitempty"`
}

// EnderecoRequest dirección del tomador.
type EnderecoRequest struct {
	Endereco        string `json:"endereco"`
	Numero          string `json:"numero"`
	Complemento     string `json:"complemento,omitempty"`
	Bairro          string `json:"bairro"`
	CodigoMunicipio string `json:"codigo_municipio"`
	Uf              string `json:"uf"`
	CodigoPais      string `json:"codigo_pais,omitempty"`
	Cep             string `json:"cep"`
}

// IntermediarioRequest intermediario del servicio.
type IntermediarioRequest struct {
	RazaoSocial        string `json:"razao_social"`
	Cnpj               string `json:"cnpj,omitempty"`
	Cpf                string `json:"cpf,omitempty"`
	InscricaoMunicipal string `json:"inscricao_municipal,omitempty"`
}
