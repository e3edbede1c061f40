package signing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nfse-publica/internal/application/dto"
	"github.com/jhoicas/nfse-publica/internal/domain"
	"github.com/jhoicas/nfse-publica/internal/domain/entity"
)

const dataEmissaoLayout = "2006-01-02T15:04:05"

// rpsFromRequest valida los campos obligatorios del layout y arma la entidad.
func (uc *SignatureUseCase) rpsFromRequest(in dto.SignRpsRequest) (*entity.Rps, error) {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s es obligatorio", domain.ErrInvalidInput, field)
	}
	switch {
	case strings.TrimSpace(in.Numero) == "":
		return nil, missing("numero")
	case strings.TrimSpace(in.Servico.ItemListaServico) == "":
		return nil, missing("servico.item_lista_servico")
	case strings.TrimSpace(in.Servico.Discriminacao) == "":
		return nil, missing("servico.discriminacao")
	case strings.TrimSpace(in.Servico.CodigoMunicipio) == "":
		return nil, missing("servico.codigo_municipio")
	}
	if !in.Servico.Valores.ValorServicos.IsPositive() {
		return nil, fmt.Errorf("%w: servico.valores.valor_servicos debe ser mayor que cero", domain.ErrInvalidInput)
	}

	emissao := uc.now()
	if in.DataEmissao != "" {
		t, err := time.Parse(dataEmissaoLayout, in.DataEmissao)
		if err != nil {
			return nil, fmt.Errorf("%w: data_emissao debe tener el formato %s", domain.ErrInvalidInput, dataEmissaoLayout)
		}
		emissao = t
	}
	tipo := in.Tipo
	if tipo == "" {
		tipo = entity.RpsTipoRps
	}
	status := in.Status
	if status == 0 {
		status = entity.RpsStatusNormal
	}

	v := in.Servico.Valores
	rps := &entity.Rps{
		Identificacao:          entity.RpsIdentificacao{Numero: in.Numero, Serie: in.Serie, Tipo: tipo},
		DataEmissao:            emissao,
		NaturezaOperacao:       in.NaturezaOperacao,
		OptanteSimplesNacional: in.OptanteSimplesNacional,
		IncentivadorCultural:   in.IncentivadorCultural,
		Status:                 status,
		Servico: entity.Servico{
			Valores: entity.Valores{
				ValorServicos:          v.ValorServicos,
				ValorDeducoes:          v.ValorDeducoes,
				ValorPis:               v.ValorPis,
				ValorCofins:            v.ValorCofins,
				ValorInss:              v.ValorInss,
				ValorIr:                v.ValorIr,
				ValorCsll:              v.ValorCsll,
				IssRetido:              v.IssRetido,
				ValorIss:               v.ValorIss,
				ValorIssRetido:         v.ValorIssRetido,
				OutrasRetencoes:        v.OutrasRetencoes,
				BaseCalculo:            v.BaseCalculo,
				Aliquota:               v.Aliquota,
				ValorLiquidoNfse:       v.ValorLiquidoNfse,
				DescontoIncondicionado: v.DescontoIncondicionado,
				DescontoCondicionado:   v.DescontoCondicionado,
			},
			ResponsavelRetencao:       in.Servico.ResponsavelRetencao,
			ItemListaServico:          in.Servico.ItemListaServico,
			Discriminacao:             in.Servico.Discriminacao,
			InformacoesComplementares: in.Servico.InformacoesComplementares,
			CodigoMunicipio:           in.Servico.CodigoMunicipio,
			CodigoPais:                in.Servico.CodigoPais,
		},
	}

	if t := in.Tomador; t != nil {
		if t.Cnpj == "" && t.Cpf == "" {
			return nil, missing("tomador.cnpj o tomador.cpf")
		}
		if strings.TrimSpace(t.RazaoSocial) == "" {
			return nil, missing("tomador.razao_social")
		}
		rps.Tomador = &entity.Tomador{
			Cnpj:               t.Cnpj,
			Cpf:                t.Cpf,
			InscricaoMunicipal: t.InscricaoMunicipal,
			RazaoSocial:        t.RazaoSocial,
			Telefone:           t.Telefone,
			Email:              t.Email,
		}
		if e := t.Endereco; e != nil {
			rps.Tomador.Endereco = &entity.Endereco{
				Endereco:        e.Endereco,
				Numero:          e.Numero,
				Complemento:     e.Complemento,
				Bairro:          e.Bairro,
				CodigoMunicipio: e.CodigoMunicipio,
				Uf:              e.Uf,
				CodigoPais:      e.CodigoPais,
				Cep:             e.Cep,
			}
		}
	}
	if i := in.Intermediario; i != nil {
		if i.Cnpj == "" && i.Cpf == "" {
			return nil, missing("intermediario.cnpj o intermediario.cpf")
		}
		rps.Intermediario = &entity.Intermediario{
			RazaoSocial:        i.RazaoSocial,
			Cnpj:               i.Cnpj,
			Cpf:                i.Cpf,
			InscricaoMunicipal: i.InscricaoMunicipal,
		}
	}
	return rps, nil
}

func rpsAmount(r *entity.Rps) decimal.NullDecimal {
	return decimal.NewNullDecimal(r.Servico.Valores.ValorServicos)
}
