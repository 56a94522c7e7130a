// Package server wires the CodeHunt backend together: it opens the database,
// runs migrations and serves the gRPC API next to the HTTP endpoints until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	"github.com/dmitrijs2005/codehunt/internal/server/config"
	"github.com/dmitrijs2005/codehunt/internal/server/httpapi"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/codehunt/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/codehunt/internal/server/grpc"
)

// maxConnectWait bounds how long startup waits for the database.
const maxConnectWait = time.Minute

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	rowService     *services.RowService
	listingService *services.ListingService
	avatarService  *services.AvatarService
}

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := waitForDB(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db unreachable: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	mailer := services.NewLogMailer(logger)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		userService:    services.NewUserService(db, rm, mailer, logger, c),
		rowService:     services.NewRowService(db, rm),
		listingService: services.NewListingService(db, rm),
		avatarService:  services.NewAvatarService(c),
	}, nil
}

// waitForDB pings the database with exponential backoff, so the server can
// start before Postgres is ready.
func waitForDB(ctx context.Context, db *sql.DB, logger logging.Logger) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxConnectWait

	return backoff.RetryNotify(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		logger.Warn(ctx, "database not ready", "error", err, "retry_in", next)
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves gRPC and HTTP until a signal arrives or either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, gs.Services{
		Users:    app.userService,
		Rows:     app.rowService,
		Listings: app.listingService,
		Avatars:  app.avatarService,
		DB:       app.db,
	}, app.config.SecretKey)
	httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP, app.userService, app.db, app.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.Run(ctx) })
	g.Go(func() error { return httpServer.Run(ctx) })

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Warn(context.Background(), "closing database", "error", cerr)
	}
	return err
}
