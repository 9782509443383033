package app

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brieflab/brief-analyzer/internal/analyzer"
	"github.com/brieflab/brief-analyzer/internal/auth"
	"github.com/brieflab/brief-analyzer/internal/basecamp"
	"github.com/brieflab/brief-analyzer/internal/config"
	"github.com/brieflab/brief-analyzer/internal/handler"
	"github.com/brieflab/brief-analyzer/internal/logger"
	"github.com/brieflab/brief-analyzer/internal/middleware"
	"github.com/brieflab/brief-analyzer/internal/proto"
	"github.com/brieflab/brief-analyzer/internal/service"
	"github.com/brieflab/brief-analyzer/internal/storage"
	"github.com/brieflab/brief-analyzer/internal/storage/file"
	"github.com/brieflab/brief-analyzer/internal/storage/memory"
	"github.com/brieflab/brief-analyzer/internal/storage/postgres"
	"github.com/brieflab/brief-analyzer/internal/worker"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	handler    http.Handler
	grpcServer *grpc.Server
	pool       *worker.DeliveryWorkerPool
	pgStorage  *postgres.Storage
}

// NewApp wires storage, analysis, delivery and transport together.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger()

	app := &App{config: cfg}

	briefStorage := app.initStorage(cfg)

	an := analyzer.New(cfg)
	bc := basecamp.NewClient(cfg)

	briefService := service.NewBriefService(briefStorage, an, bc)

	pool := worker.NewDeliveryWorkerPool(briefService, worker.DefaultConfig())
	briefService.SetRetryQueue(pool)
	app.pool = pool

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	var pinger handler.DBPinger
	if app.pgStorage != nil {
		pinger = app.pgStorage
	}

	httpHandler := handler.NewHandler(briefService, pinger, pool, authMiddleware, cfg.MaxUploadBytes)
	app.handler = httpHandler.RegisterRoutes()

	if cfg.GRPCAddress != "" {
		grpcAuth := middleware.NewGRPCAuthMiddleware(jwtService)
		app.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(grpcAuth.UnaryInterceptor))
		proto.RegisterAnalyzerServiceServer(app.grpcServer, handler.NewAnalyzerGRPCServer(briefService))
	}

	return app
}

// initStorage picks the storage backend: postgres when a DSN is configured,
// the JSONL file when a path is configured, memory otherwise.
func (a *App) initStorage(cfg *config.Config) storage.BriefStorage {
	if cfg.DatabaseDSN != "" {
		pgStorage, err := postgres.NewStorage(cfg.DatabaseDSN)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize postgres storage, falling back to file storage")
		} else {
			log.Info().Msg("Using postgres storage")
			a.pgStorage = pgStorage
			return pgStorage
		}
	}

	if cfg.FileStoragePath != "" {
		fileStorage, err := file.NewStorage(cfg.FileStoragePath)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.FileStoragePath).Msg("Failed to initialize file storage, falling back to memory")
		} else {
			log.Info().Str("path", cfg.FileStoragePath).Msg("Using file storage")
			return fileStorage
		}
	}

	log.Info().Msg("Using in-memory storage")
	return memory.NewStorage()
}

// Run starts the HTTP server and, when configured, the gRPC server, then
// blocks until shutdown.
func (a *App) Run() error {
	a.pool.Start()

	server := &http.Server{
		Addr:    a.config.ServerAddress,
		Handler: a.handler,
	}

	errChan := make(chan error, 2)

	go func() {
		log.Info().Str("address", a.config.ServerAddress).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	if a.grpcServer != nil {
		go func() {
			listener, err := net.Listen("tcp", a.config.GRPCAddress)
			if err != nil {
				errChan <- err
				return
			}
			log.Info().Str("address", a.config.GRPCAddress).Msg("Starting gRPC server")
			if err := a.grpcServer.Serve(listener); err != nil {
				errChan <- err
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case err := <-errChan:
		runErr = err
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	if a.grpcServer != nil {
		a.grpcServer.GracefulStop()
	}

	if err := a.pool.Shutdown(shutdownTimeout); err != nil {
		log.Warn().Err(err).Msg("Delivery worker pool did not drain in time")
	}

	if a.pgStorage != nil {
		a.pgStorage.Close()
	}

	return runErr
}
