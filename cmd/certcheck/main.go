// certcheck diagnostica el certificado NFS-e configurado: lo carga con la misma ruta que la
// API, muestra sus datos y hace un ciclo firmar/verificar sobre un RPS de ejemplo.
//
// Uso: certcheck [ruta] [password]  (sin argumentos usa NFSE_CERT_PATH / NFSE_CERT_PASSWORD)
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nfse-publica/internal/domain/entity"
	"github.com/jhoicas/nfse-publica/internal/infrastructure/nfse"
	"github.com/jhoicas/nfse-publica/internal/infrastructure/nfse/signer"
	"github.com/jhoicas/nfse-publica/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	nfseCfg := cfg.NFSe
	if len(os.Args) > 1 {
		nfseCfg.CertPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		nfseCfg.CertPassword = os.Args[2]
	}
	if err := run(nfseCfg, os.Stdout); err != nil {
		os.Exit(1)
	}
}

func run(cfg config.NFSeConfig, w io.Writer) error {
	fmt.Fprintln(w, "🔍 DIAGNÓSTICO DE CERTIFICADO NFS-e")
	fmt.Fprintln(w, "----------------------------------")
	if !cfg.Enabled() {
		fmt.Fprintln(w, "❌ NFSE_CERT_PATH vacío")
		return fmt.Errorf("certcheck: sin certificado")
	}
	fmt.Fprintf(w, "📂 Leyendo: %s\n", cfg.CertPath)

	info, err := os.Stat(cfg.CertPath)
	if err != nil {
		fmt.Fprintln(w, "\n❌ ERROR DE ARCHIVO:")
		fmt.Fprintf(w, "   Detalle técnico: %v\n", err)
		return err
	}
	fmt.Fprintf(w, "✅ Archivo encontrado. Tamaño: %d bytes\n", info.Size())

	cert, err := signer.Load(cfg.CertPath, cfg.CertKeyPath, cfg.CertPassword)
	if err != nil {
		fmt.Fprintln(w, "\n❌ ERROR DE CONTRASEÑA O FORMATO:")
		fmt.Fprintf(w, "   Detalle técnico: %v\n", err)
		return err
	}

	sum := cert.Summary()
	fmt.Fprintf(w, "\n🔐 Sujeto:   %s\n", sum.Subject)
	fmt.Fprintf(w, "   Emisor:   %s\n", sum.Issuer)
	fmt.Fprintf(w, "   Serial:   %s\n", sum.SerialHex)
	fmt.Fprintf(w, "   Vigencia: %s → %s\n", sum.NotBefore.Format(time.DateOnly), sum.NotAfter.Format(time.DateOnly))
	fmt.Fprintf(w, "   SHA-256:  %s\n", sum.FingerprintSHA256)
	if time.Now().After(sum.NotAfter) {
		fmt.Fprintln(w, "⚠️  El certificado está vencido")
	}

	alg, err := signer.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		fmt.Fprintf(w, "\n❌ NFSE_ALGORITHM: %v\n", err)
		return err
	}
	if err := selfTest(cert, alg); err != nil {
		fmt.Fprintln(w, "\n❌ ERROR EN FIRMA/VERIFICACIÓN:")
		fmt.Fprintf(w, "   Detalle técnico: %v\n", err)
		return err
	}

	fmt.Fprintf(w, "\n✨ ¡ÉXITO! Firma %s y verificación de un RPS de prueba correctas.\n", alg)
	return nil
}

// selfTest firma InfRps de un RPS de ejemplo y lo verifica.
func selfTest(cert *signer.Certificate, alg signer.Algorithm) error {
	xml, err := nfse.NewRpsBuilderService().Build(&entity.Rps{
		Identificacao:          entity.RpsIdentificacao{Numero: "1", Serie: "TESTE", Tipo: entity.RpsTipoRps},
		DataEmissao:            time.Now(),
		NaturezaOperacao:       1,
		OptanteSimplesNacional: entity.SimNaoNao,
		IncentivadorCultural:   entity.SimNaoNao,
		Status:                 entity.RpsStatusNormal,
		Servico: entity.Servico{
			Valores:          entity.Valores{ValorServicos: decimal.NewFromInt(1), IssRetido: entity.SimNaoNao},
			ItemListaServico: "0107",
			Discriminacao:    "Teste de certificado",
			CodigoMunicipio:  "0000000",
		},
	}, nil)
	if err != nil {
		return err
	}
	svc := signer.NewService()
	signed, err := svc.Sign(cert, xml, "InfRps", signer.SignOptions{Algorithm: alg})
	if err != nil {
		return err
	}
	_, err = svc.IsSigned(signed, "InfRps", nil)
	return err
}
