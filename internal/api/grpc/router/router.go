package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/hurtle-auth/internal/api/grpc/authapi"
	"github.com/dtroode/hurtle-auth/internal/api/grpc/handler"
	"github.com/dtroode/hurtle-auth/internal/api/grpc/middleware"
	"github.com/dtroode/hurtle-auth/internal/logger"
	"github.com/dtroode/hurtle-auth/internal/model"
)

// Router represents a gRPC router for authentication operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	authService    handler.AuthService
	tokens         middleware.TokenValidator
	contextManager model.ContextManager
	logger         *logger.Logger
	health         *health.Server
}

// New creates new gRPC Router instance.
//
// Parameters:
//   - authService: The authentication service
//   - tokens: Session token validator used by the authentication interceptor
//   - contextManager: Stores the authenticated account on request contexts
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	authService handler.AuthService,
	tokens middleware.TokenValidator,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
		health:         health.NewServer(),
	}
}

// requiresAuth selects the methods that need a session token.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return c.FullMethod() == authapi.ProfileMethod
}

// Register registers all gRPC services and middleware.
// It sets up panic recovery, request logging and authentication interceptors.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.NewRecovery(r.logger),
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)
	r.registerAuthRoutes(s)
	r.registerHealth(s)

	return s
}

// Shutdown marks every service as not serving.
func (r *Router) Shutdown() {
	r.health.Shutdown()
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)
	authapi.RegisterAuthServer(server, authHandler)
}

func (r *Router) registerHealth(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, r.health)
	r.health.SetServingStatus(authapi.ServiceName, healthpb.HealthCheckResponse_SERVING)
}
