package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento firmado.
const (
	DocumentKindXML = "XML" // XML arbitrario enviado por el cliente
	DocumentKindRPS = "RPS" // RPS construido por el sistema
)

// SignedDocument registro de una firma emitida.
type SignedDocument struct {
	ID           string
	CompanyID    string
	UserID       string
	Kind         string // ver DocumentKind*
	TargetTag    string // vacío = documento completo
	ReferenceURI string
	Algorithm    string
	DigestValue  string
	SignedXML    string
	RpsNumero    string
	Amount       decimal.NullDecimal // ValorServicos en RPS
	CreatedAt    time.Time
}
