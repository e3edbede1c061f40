package repository

import "github.com/jhoicas/nfse-publica/internal/domain/entity"

// SignedDocumentRepository define el puerto de persistencia para documentos firmados.
type SignedDocumentRepository interface {
	Create(doc *entity.SignedDocument) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(id string) (*entity.SignedDocument, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.SignedDocument, error)
}
