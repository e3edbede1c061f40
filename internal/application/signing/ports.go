package signing

import (
	"github.com/jhoicas/nfse-publica/internal/domain/entity"
	"github.com/jhoicas/nfse-publica/internal/infrastructure/nfse/signer"
)

// RpsBuilder construye el XML del RPS sin firma.
type RpsBuilder interface {
	Build(rps *entity.Rps, prestador *entity.Prestador) (string, error)
}

// Config parámetros de firma tomados de la configuración.
type Config struct {
	Algorithm signer.Algorithm
	IDMarker  string
	Prestador entity.Prestador
}
