// Package grpc exposes the account service over gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/snapshots"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// AccountService is the part of services.AccountService the transport uses.
type AccountService interface {
	Register(ctx context.Context, userName, email, password string) (*models.Account, error)
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)
	Authenticate(ctx context.Context, token string) (*models.Account, error)
}

// VerificationService is the part of services.VerificationService the
// transport uses.
type VerificationService interface {
	Confirm(ctx context.Context, code string) (*models.Account, error)
	Resend(ctx context.Context, email string) (time.Time, error)
}

type GRPCServer struct {
	address      string
	accounts     AccountService
	verification VerificationService
	exporter     snapshots.Exporter
	logger       logging.Logger
}

var _ api.AccountServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, as AccountService, vs VerificationService, exp snapshots.Exporter) *GRPCServer {
	return &GRPCServer{
		address:      a,
		logger:       l.With("module", "grpc_server"),
		accounts:     as,
		verification: vs,
		exporter:     exp,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	api.RegisterAccountServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
