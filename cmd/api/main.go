// @title NFS-e Pública API
// @version 1.0
// @description Firma y verificación XMLDSig de documentos NFS-e (layout ABRASF).
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/nfse-publica/docs"
	"github.com/jhoicas/nfse-publica/internal/application/signing"
	"github.com/jhoicas/nfse-publica/internal/domain/entity"
	"github.com/jhoicas/nfse-publica/internal/infrastructure/nfse"
	"github.com/jhoicas/nfse-publica/internal/infrastructure/nfse/signer"
	"github.com/jhoicas/nfse-publica/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/nfse-publica/internal/interfaces/http"
	"github.com/jhoicas/nfse-publica/pkg/config"
	"github.com/jhoicas/nfse-publica/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	algorithm, err := signer.ParseAlgorithm(cfg.NFSe.Algorithm)
	if err != nil {
		log.Fatal().Err(err).Msg("NFSE_ALGORITHM")
	}

	// Sin certificado la API sólo verifica; firmar responde 503.
	var cert *signer.Certificate
	if cfg.NFSe.Enabled() {
		cert, err = signer.Load(cfg.NFSe.CertPath, cfg.NFSe.CertKeyPath, cfg.NFSe.CertPassword)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.NFSe.CertPath).Msg("cargar certificado NFS-e")
		}
		sum := cert.Summary()
		log.Info().
			Str("subject", sum.Subject).
			Time("not_after", sum.NotAfter).
			Str("fingerprint", sum.FingerprintSHA256).
			Msg("certificado NFS-e cargado")
		if time.Now().After(sum.NotAfter) {
			log.Warn().Time("not_after", sum.NotAfter).Msg("certificado NFS-e vencido")
		}
	} else {
		log.Warn().Msg("NFSE_CERT_PATH vacío: firma deshabilitada")
	}

	signatureUC := signing.NewSignatureUseCase(
		signer.NewService(),
		nfse.NewRpsBuilderService(),
		postgres.NewSignedDocumentRepository(pool),
		cert,
		signing.Config{
			Algorithm: algorithm,
			IDMarker:  cfg.NFSe.IDMarker,
			Prestador: entity.Prestador{Cnpj: cfg.NFSe.Cnpj, InscricaoMunicipal: cfg.NFSe.IM},
		},
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    8 * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "NFS-e Pública API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "signing": cert != nil})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SignatureUC: signatureUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
