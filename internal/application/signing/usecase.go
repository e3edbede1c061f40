package signing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/nfse-publica/internal/application/dto"
	"github.com/jhoicas/nfse-publica/internal/domain"
	"github.com/jhoicas/nfse-publica/internal/domain/entity"
	"github.com/jhoicas/nfse-publica/internal/domain/repository"
	"github.com/jhoicas/nfse-publica/internal/infrastructure/nfse/signer"
	"github.com/jhoicas/nfse-publica/pkg/logger"
	"github.com/jhoicas/nfse-publica/pkg/nfse"
)

// Códigos de resultado de la verificación.
const (
	CodeNoSignature        = "NO_SIGNATURE"
	CodeDigestMismatch     = "DIGEST_MISMATCH"
	CodeSignatureMismatch  = "SIGNATURE_MISMATCH"
	CodeMalformedSignature = "MALFORMED_SIGNATURE"
)

// SignatureUseCase firma, verifica y guarda documentos NFS-e.
type SignatureUseCase struct {
	svc     nfse.SignerVerifier
	builder RpsBuilder
	repo    repository.SignedDocumentRepository
	cert    *signer.Certificate // nil = firma deshabilitada; verificar sigue funcionando
	cfg     Config
	log     *logger.Logger
	now     func() time.Time
}

// NewSignatureUseCase construye el caso de uso. cert puede ser nil.
func NewSignatureUseCase(
	svc nfse.SignerVerifier,
	builder RpsBuilder,
	repo repository.SignedDocumentRepository,
	cert *signer.Certificate,
	cfg Config,
	log *logger.Logger,
) *SignatureUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SignatureUseCase{
		svc:     svc,
		builder: builder,
		repo:    repo,
		cert:    cert,
		cfg:     cfg,
		log:     log.Named("signing"),
		now:     time.Now,
	}
}

// Sign firma el XML recibido y guarda el resultado a nombre de la empresa.
func (uc *SignatureUseCase) Sign(ctx context.Context, companyID, userID string, in dto.SignRequest) (*dto.SignResponse, error) {
	opts, err := uc.signOptions(in.Algorithm, in.IDMarker, in.Canonical)
	if err != nil {
		return nil, err
	}
	opts.RootTag = in.RootTag
	return uc.signAndStore(ctx, &entity.SignedDocument{
		CompanyID: companyID,
		UserID:    userID,
		Kind:      entity.DocumentKindXML,
		TargetTag: in.Tag,
	}, in.XML, opts)
}

// SignRps construye el RPS con el prestador configurado, firma InfRps y lo guarda.
func (uc *SignatureUseCase) SignRps(ctx context.Context, companyID, userID string, in dto.SignRpsRequest) (*dto.SignResponse, error) {
	rps, err := uc.rpsFromRequest(in)
	if err != nil {
		return nil, err
	}
	content, err := uc.builder.Build(rps, &uc.cfg.Prestador)
	if err != nil {
		return nil, fmt.Errorf("construir rps: %w", err)
	}
	// El id de InfRps es minúscula en el layout; se reutiliza sin importar el marcador.
	opts, err := uc.signOptions(in.Algorithm, "", nil)
	if err != nil {
		return nil, err
	}
	return uc.signAndStore(ctx, &entity.SignedDocument{
		CompanyID: companyID,
		UserID:    userID,
		Kind:      entity.DocumentKindRPS,
		TargetTag: "InfRps",
		RpsNumero: rps.Identificacao.Numero,
		Amount:    rpsAmount(rps),
	}, content, opts)
}

func (uc *SignatureUseCase) signAndStore(ctx context.Context, doc *entity.SignedDocument, content string, opts signer.SignOptions) (*dto.SignResponse, error) {
	if uc.cert == nil {
		return nil, domain.ErrCertificate
	}
	signed, err := uc.svc.Sign(uc.cert, content, doc.TargetTag, opts)
	if err != nil {
		uc.log.Warn().Err(err).Str("company_id", doc.CompanyID).Str("tag", doc.TargetTag).Msg("firma rechazada")
		return nil, err
	}
	info, err := uc.svc.Describe(signed)
	if err != nil {
		return nil, fmt.Errorf("leer firma emitida: %w", err)
	}

	doc.ID = uuid.New().String()
	doc.ReferenceURI = info.ReferenceURI
	doc.Algorithm = info.Algorithm.String()
	doc.DigestValue = info.DigestValue
	doc.SignedXML = signed
	doc.CreatedAt = uc.now().UTC()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(doc); err != nil {
		return nil, fmt.Errorf("guardar documento firmado: %w", err)
	}

	uc.log.Info().
		Str("id", doc.ID).
		Str("company_id", doc.CompanyID).
		Str("kind", doc.Kind).
		Str("reference_uri", doc.ReferenceURI).
		Str("algorithm", doc.Algorithm).
		Msg("documento firmado")

	return &dto.SignResponse{
		ID:           doc.ID,
		XML:          signed,
		ReferenceURI: doc.ReferenceURI,
		DigestValue:  doc.DigestValue,
		Algorithm:    doc.Algorithm,
	}, nil
}

// Verify recorre Parsed → firma presente → digest → SignatureValue. Los fallos de
// verificación se devuelven en el resultado; sólo XML inválido, tag inexistente o
// parámetros inválidos vuelven como error.
func (uc *SignatureUseCase) Verify(ctx context.Context, in dto.VerifyRequest) (*dto.VerifyResponse, error) {
	params, err := canonicalParams(in.Canonical)
	if err != nil {
		return nil, err
	}
	out := &dto.VerifyResponse{}

	present, err := uc.svc.ExistsSignature(in.XML)
	if err != nil {
		return nil, err
	}
	if !present {
		out.Code = CodeNoSignature
		out.Message = "el documento no tiene firma"
		return out, nil
	}
	out.SignaturePresent = true
	if info, err := uc.svc.Describe(in.XML); err == nil {
		out.ReferenceURI = info.ReferenceURI
		out.Algorithm = info.Algorithm.String()
	}

	if _, err := uc.svc.DigestCheck(in.XML, in.Tag, params); err != nil {
		return verifyFailure(out, err)
	}
	out.DigestValid = true

	if _, err := uc.svc.SignatureCheck(in.XML, params); err != nil {
		return verifyFailure(out, err)
	}
	out.SignatureValid = true
	out.Signed = true
	return out, ctx.Err()
}

func verifyFailure(out *dto.VerifyResponse, err error) (*dto.VerifyResponse, error) {
	switch {
	case errors.Is(err, signer.ErrDigestMismatch):
		out.Code = CodeDigestMismatch
	case errors.Is(err, signer.ErrSignatureMismatch):
		out.Code = CodeSignatureMismatch
	case errors.Is(err, signer.ErrMalformedSignature):
		out.Code = CodeMalformedSignature
	default:
		return nil, err
	}
	out.Message = err.Error()
	return out, nil
}

// RemoveSignature devuelve el XML sin firma.
func (uc *SignatureUseCase) RemoveSignature(ctx context.Context, in dto.RemoveSignatureRequest) (*dto.RemoveSignatureResponse, error) {
	present, err := uc.svc.ExistsSignature(in.XML)
	if err != nil {
		return nil, err
	}
	stripped, err := uc.svc.RemoveSignature(in.XML)
	if err != nil {
		return nil, err
	}
	return &dto.RemoveSignatureResponse{XML: stripped, Removed: present}, ctx.Err()
}

// Get devuelve un documento firmado de la empresa.
func (uc *SignatureUseCase) Get(ctx context.Context, companyID, id string) (*dto.SignedDocumentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	doc, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	resp := toResponse(doc)
	resp.XML = doc.SignedXML
	return &resp, ctx.Err()
}

// List lista los documentos firmados de la empresa, sin el XML.
func (uc *SignatureUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.SignedDocumentListResponse, error) {
	page.DefaultPage()
	docs, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.SignedDocumentListResponse{
		Items: make([]dto.SignedDocumentResponse, 0, len(docs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, d := range docs {
		out.Items = append(out.Items, toResponse(d))
	}
	return out, ctx.Err()
}

func toResponse(d *entity.SignedDocument) dto.SignedDocumentResponse {
	return dto.SignedDocumentResponse{
		ID:           d.ID,
		Kind:         d.Kind,
		TargetTag:    d.TargetTag,
		ReferenceURI: d.ReferenceURI,
		Algorithm:    d.Algorithm,
		DigestValue:  d.DigestValue,
		RpsNumero:    d.RpsNumero,
		Amount:       d.Amount,
		CreatedAt:    d.CreatedAt,
	}
}

func (uc *SignatureUseCase) signOptions(algorithm, idMarker string, canonical *dto.CanonicalRequest) (signer.SignOptions, error) {
	opts := signer.SignOptions{Algorithm: uc.cfg.Algorithm, IDMarker: uc.cfg.IDMarker}
	if algorithm != "" {
		alg, err := signer.ParseAlgorithm(algorithm)
		if err != nil {
			return opts, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		opts.Algorithm = alg
	}
	if idMarker != "" {
		opts.IDMarker = idMarker
	}
	params, err := canonicalParams(canonical)
	if err != nil {
		return opts, err
	}
	opts.Canonical = params
	return opts, nil
}

func canonicalParams(in *dto.CanonicalRequest) (*signer.CanonicalParams, error) {
	if in == nil {
		return nil, nil
	}
	p := signer.CanonicalParams{
		Exclusive:           true,
		WithComments:        in.WithComments,
		XPath:               strings.TrimSpace(in.XPath),
		InclusiveNamespaces: in.InclusiveNamespaces,
	}
	if in.Exclusive != nil {
		p.Exclusive = *in.Exclusive
	}
	if !p.Exclusive && len(p.InclusiveNamespaces) > 0 {
		return nil, fmt.Errorf("%w: inclusive_namespaces sólo aplica a C14N exclusiva", domain.ErrInvalidInput)
	}
	return &p, nil
}
