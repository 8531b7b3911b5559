// Package server wires the configured storage backend, mailer, media signer
// and services into the HTTP server and runs it until the process is
// signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/HazimBhatt/sharefolio/internal/dbx"
	"github.com/HazimBhatt/sharefolio/internal/logging"
	"github.com/HazimBhatt/sharefolio/internal/server/auth"
	"github.com/HazimBhatt/sharefolio/internal/server/config"
	"github.com/HazimBhatt/sharefolio/internal/server/mail"
	"github.com/HazimBhatt/sharefolio/internal/server/media"
	"github.com/HazimBhatt/sharefolio/internal/server/repositories/repomanager"
	"github.com/HazimBhatt/sharefolio/internal/server/rest"
	"github.com/HazimBhatt/sharefolio/internal/server/services"
)

// memoryDSN selects the in-process store instead of PostgreSQL.
const memoryDSN = "memory"

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

// openPostgres is a seam for tests.
var openPostgres = repomanager.OpenPostgres

func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)
	ctx := context.Background()

	rm, tx, db, err := openStore(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	issuer := auth.NewSessionIssuer(c.SecretKey, c.SessionTTL)
	hasher := auth.NewBcryptHasher(c.PasswordHashCost)

	us := services.NewUserService(tx, rm, issuer, hasher, newMailer(ctx, c, logger), c.ResetCodeTTL, logger)
	ps := services.NewPortfolioService(tx, rm, logger)
	ms := services.NewMediaService(newSigner(c), c.MediaFolder, logger)

	opts := rest.Options{
		Production:         c.Production,
		SessionTTL:         issuer.TTL(),
		CORSAllowedOrigins: c.CORSAllowedOrigins,
		AuthRateLimit:      c.AuthRateLimit,
		AuthRateWindow:     c.AuthRateWindow,
	}
	if db != nil {
		opts.Ping = db.PingContext
	}

	handler := rest.NewHandler(us, ps, ms, issuer, opts, logger)
	srv := rest.NewServer(c.HTTPAddr, rest.NewRouter(handler, opts), logger, c.ShutdownTimeout)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

// openStore returns the repositories and transaction manager for the
// configured DSN. db is nil for the memory store.
func openStore(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, dbx.TxManager, *sql.DB, error) {
	if strings.EqualFold(c.DatabaseDSN, memoryDSN) {
		logger.Warn(ctx, "using in-memory store, data is lost on restart")
		rm := repomanager.NewMemoryRepositoryManager()
		return rm, rm.Store(), nil, nil
	}

	db, err := openPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("db migration error: %w", err)
	}

	return rm, dbx.NewSQLTxManager(db, nil), db, nil
}

func newMailer(ctx context.Context, c *config.Config, logger logging.Logger) mail.Mailer {
	if c.SMTPHost == "" {
		logger.Warn(ctx, "SMTP host not configured, reset codes will be written to the log")
		return mail.NewLogMailer(logger)
	}

	smtp := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:        c.SMTPHost,
		Port:        c.SMTPPort,
		User:        c.SMTPUser,
		Password:    c.SMTPPassword,
		From:        c.SMTPFrom,
		FromName:    c.SMTPFromName,
		ImplicitTLS: c.SMTPImplicitTLS,
	})
	return mail.NewBreakerMailer(smtp, mail.BreakerConfig{}, logger)
}

func newSigner(c *config.Config) media.Signer {
	if c.MediaProvider == "s3" {
		return media.NewS3Presigner(media.S3Config{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	}
	return media.NewCloudinarySigner(media.CloudinaryConfig{
		CloudName: c.CloudinaryCloudName,
		APIKey:    c.CloudinaryAPIKey,
		APISecret: c.CloudinaryAPISecret,
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or the process receives SIGINT/SIGTERM.
// The database handle is closed after the server has stopped.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
	}

	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil {
			app.logger.Error(ctx, "closing db", "error", cerr)
		}
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
