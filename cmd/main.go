package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/portfolio-server/internal/api/grpc/context"
	grpcrouter "github.com/dtroode/portfolio-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/portfolio-server/internal/api/grpc/server"
	httphandler "github.com/dtroode/portfolio-server/internal/api/http/handler"
	httprouter "github.com/dtroode/portfolio-server/internal/api/http/router"
	httpServer "github.com/dtroode/portfolio-server/internal/api/http/server"
	"github.com/dtroode/portfolio-server/internal/config"
	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
	"github.com/dtroode/portfolio-server/internal/repository/postgres"
	"github.com/dtroode/portfolio-server/internal/repository/sqlite"
	"github.com/dtroode/portfolio-server/internal/server"
	"github.com/dtroode/portfolio-server/internal/service"
	storage "github.com/dtroode/portfolio-server/internal/storage/minio"
	"github.com/dtroode/portfolio-server/internal/telemetry"
	"github.com/dtroode/portfolio-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

type documentBackend interface {
	model.DocumentStore
	httphandler.Pinger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName, buildVersion)
	if err != nil {
		logger.Fatal("failed to initialize tracing", "error", err)
	}

	docs, closeDocs, err := openDocuments(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer closeDocs()

	imageStore, err := storage.NewImageStore(ctx, storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		logger.Fatal("failed to initialize image storage", "error", err)
	}

	images := service.NewImageResolver(imageStore, logger)
	alerts := service.NewAlerts(service.DefaultAlertLimit, logger)
	remoteTimeout := service.WithRemoteTimeout(cfg.Database.Timeout)
	profileService := service.NewProfile(docs, images, alerts, logger, remoteTimeout)
	skillService := service.NewSkills(docs, images, alerts, logger, remoteTimeout)
	projectService := service.NewProjects(docs, images, alerts, logger, remoteTimeout)
	tokenManager := token.NewJWT(cfg.JWT.Secret)
	authService := service.NewAuth(cfg.Admin.Email, cfg.Admin.PasswordHash, tokenManager, logger)

	if err := profileService.Fetch(ctx); err != nil {
		logger.Error("initial profile fetch failed", "error", err)
	}
	if err := skillService.Fetch(ctx); err != nil {
		logger.Error("initial skills fetch failed", "error", err)
	}
	if err := projectService.Fetch(ctx); err != nil {
		logger.Error("initial projects fetch failed", "error", err)
	}

	grpcSrv := registerGRPCServer(logger, grpcrouter.Services{
		Auth:     authService,
		Profile:  profileService,
		Skills:   skillService,
		Projects: projectService,
		Alerts:   alerts,
	}, authService, fmt.Sprintf(":%s", cfg.GRPC.Port))

	public := httphandler.NewPublic(profileService, skillService, projectService, logger)
	events := httphandler.NewEvents(profileService, skillService, projectService, cfg.HTTP.CORSOrigins, logger)
	httpSrv := httpServer.NewHTTPServer(
		httprouter.New(public, events, docs, cfg.HTTP.CORSOrigins, logger).Register(),
		fmt.Sprintf(":%s", cfg.HTTP.Port),
	)

	sl := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	var wg sync.WaitGroup
	for _, s := range []model.Server{grpcSrv, httpSrv} {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			err := s.Start(sl)
			if err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
			}
		}(s)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range []model.Server{httpSrv, grpcSrv} {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("error during tracer shutdown", "error", err)
	}
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func openDocuments(ctx context.Context, cfg config.Database) (documentBackend, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewDocumentRepository(db), func() { _ = db.Close() }, nil
	default:
		db, err := postgres.NewConection(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewDocumentRepository(db), func() { _ = db.Close() }, nil
	}
}

func registerGRPCServer(
	logger *logger.Logger,
	services grpcrouter.Services,
	tokenService *service.Auth,
	addr string,
) *grpcServer.GRPCServer {
	r := grpcrouter.New(services, tokenService, grpcctx.NewManager(), logger)
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, addr)
}
