package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request")

	account, err := s.accounts.Register(ctx, req.UserName, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "account_id", account.ID)
	return &api.RegisterResponse{Account: toAPIAccount(account)}, nil
}

func (s *GRPCServer) Confirm(ctx context.Context, req *api.ConfirmRequest) (*api.ConfirmResponse, error) {

	account, err := s.verification.Confirm(ctx, req.Code)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.ConfirmResponse{Account: toAPIAccount(account)}, nil
}

func (s *GRPCServer) ResendVerification(ctx context.Context, req *api.ResendVerificationRequest) (*api.ResendVerificationResponse, error) {

	expiresAt, err := s.verification.Resend(ctx, req.Email)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.ResendVerificationResponse{ExpiresAt: expiresAt}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	token, err := s.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.LoginResponse{Token: token.Token, ExpiresIn: token.ExpiresIn}, nil
}

func (s *GRPCServer) ListAccounts(ctx context.Context, req *api.ListAccountsRequest) (*api.ListAccountsResponse, error) {

	list, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.ListAccountsResponse{Accounts: toAPIAccounts(list)}, nil
}

func (s *GRPCServer) Me(ctx context.Context, req *api.MeRequest) (*api.MeResponse, error) {

	account, ok := AccountFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	return &api.MeResponse{Account: toAPIAccount(account)}, nil
}

func (s *GRPCServer) ExportAccounts(ctx context.Context, req *api.ExportAccountsRequest) (*api.ExportAccountsResponse, error) {

	if s.exporter == nil {
		return nil, status.Error(codes.Unimplemented, "snapshots are not configured")
	}

	key, err := s.exporter.Export(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.ExportAccountsResponse{Key: key}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}
