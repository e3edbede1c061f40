package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/nfse-publica/internal/domain"
	"github.com/jhoicas/nfse-publica/internal/domain/entity"
	"github.com/jhoicas/nfse-publica/internal/domain/repository"
)

var _ repository.SignedDocumentRepository = (*SignedDocumentRepo)(nil)

// SignedDocumentRepo implementación de SignedDocumentRepository (usable con pool o tx).
type SignedDocumentRepo struct {
	q Querier
}

// NewSignedDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSignedDocumentRepository(q Querier) *SignedDocumentRepo {
	return &SignedDocumentRepo{q: q}
}

const signedDocumentColumns = `id, company_id, user_id, kind, target_tag, reference_uri, algorithm,
		       digest_value, signed_xml, rps_numero, amount, created_at`

// Create persiste el documento firmado.
func (r *SignedDocumentRepo) Create(doc *entity.SignedDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO signed_documents (` + signedDocumentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.CompanyID, doc.UserID, doc.Kind, nullIfEmpty(doc.TargetTag), doc.ReferenceURI,
		doc.Algorithm, doc.DigestValue, doc.SignedXML, nullIfEmpty(doc.RpsNumero), doc.Amount,
		doc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("rps %s ya firmado: %w", doc.RpsNumero, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert signed document: %w", err)
	}
	return nil
}

// GetByID obtiene un documento firmado; nil, nil si no existe.
func (r *SignedDocumentRepo) GetByID(id string) (*entity.SignedDocument, error) {
	query := `SELECT ` + signedDocumentColumns + ` FROM signed_documents WHERE id = $1`
	doc, err := scanSignedDocument(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get signed document: %w", err)
	}
	return doc, nil
}

// ListByCompany lista los documentos de la empresa, más recientes primero.
func (r *SignedDocumentRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.SignedDocument, error) {
	query := `SELECT ` + signedDocumentColumns + `
		FROM signed_documents
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list signed documents: %w", err)
	}
	defer rows.Close()

	var list []*entity.SignedDocument
	for rows.Next() {
		doc, err := scanSignedDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan signed document: %w", err)
		}
		list = append(list, doc)
	}
	return list, rows.Err()
}

func scanSignedDocument(row pgx.Row) (*entity.SignedDocument, error) {
	var doc entity.SignedDocument
	var targetTag, rpsNumero *string
	err := row.Scan(
		&doc.ID, &doc.CompanyID, &doc.UserID, &doc.Kind, &targetTag, &doc.ReferenceURI,
		&doc.Algorithm, &doc.DigestValue, &doc.SignedXML, &rpsNumero, &doc.Amount,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.TargetTag = derefStr(targetTag)
	doc.RpsNumero = derefStr(rpsNumero)
	return &doc, nil
}
