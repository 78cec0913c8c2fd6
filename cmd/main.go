package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	grpcctx "github.com/dtroode/hurtle-auth/internal/api/grpc/context"
	"github.com/dtroode/hurtle-auth/internal/api/grpc/router"
	grpcServer "github.com/dtroode/hurtle-auth/internal/api/grpc/server"
	"github.com/dtroode/hurtle-auth/internal/api/rest"
	"github.com/dtroode/hurtle-auth/internal/config"
	"github.com/dtroode/hurtle-auth/internal/hash"
	"github.com/dtroode/hurtle-auth/internal/logger"
	"github.com/dtroode/hurtle-auth/internal/metrics"
	"github.com/dtroode/hurtle-auth/internal/model"
	"github.com/dtroode/hurtle-auth/internal/oauth"
	"github.com/dtroode/hurtle-auth/internal/repository/postgres"
	"github.com/dtroode/hurtle-auth/internal/repository/sqlite"
	"github.com/dtroode/hurtle-auth/internal/server"
	"github.com/dtroode/hurtle-auth/internal/service"
	"github.com/dtroode/hurtle-auth/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// storage bundles the account store with its lifecycle.
type storage struct {
	model.AccountStore
	rest.Pinger
	io.Closer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	store, err := openStorage(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err, "driver", cfg.Database.Driver)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	tokenService := service.NewTokenService(token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), collector, logger)
	authService := service.NewAuth(store, hash.NewBcrypt(cfg.Bcrypt.Cost), tokenService, collector, logger)

	var google rest.IdentityProvider
	if cfg.GoogleEnabled() {
		google = oauth.NewGoogle(oauth.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			CallbackURL:  cfg.Google.CallbackURL,
		})
	} else {
		logger.Info("Google sign-in disabled: GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set")
	}

	grpcRouter := router.New(authService, tokenService, grpcctx.NewManager(), logger)
	grpcSrv := grpcServer.NewGRPCServer(grpcRouter.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	httpSrv := rest.NewHTTPServer(rest.NewRouter(rest.RouterDeps{
		AuthService: authService,
		Google:      google,
		AuthConfig: rest.AuthConfig{
			CookieDomain:    cfg.Client.Domain,
			CookieSecure:    cfg.HTTP.CookieSecure,
			AuthRedirect:    cfg.Client.AuthRedirect,
			FailureRedirect: cfg.Client.FailureRedirect,
		},
		Storage: store,
		Metrics: metrics.Handler(registry),
		Logger:  logger,
	}), fmt.Sprintf(":%s", cfg.HTTP.Port))

	sl := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	servers := []model.Server{grpcSrv, httpSrv}

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	grpcRouter.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func openStorage(ctx context.Context, cfg config.Database) (*storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &storage{AccountStore: store, Pinger: store, Closer: store}, nil
	default:
		conn, err := postgres.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &storage{AccountStore: postgres.NewAccountRepository(conn), Pinger: conn, Closer: conn}, nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
