package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type errorMapping struct {
	target error
	code   codes.Code
	// detailed mappings return the full wrapped message; the rest only the
	// sentinel text, so storage details stay server-side.
	detailed bool
}

var errorMappings = []errorMapping{
	{common.ErrValidation, codes.InvalidArgument, true},
	{common.ErrConflict, codes.AlreadyExists, true},
	{common.ErrorNotFound, codes.NotFound, false},
	{common.ErrExpired, codes.FailedPrecondition, false},
	{common.ErrAlreadyVerified, codes.FailedPrecondition, false},
	{common.ErrInvalidCredentials, codes.Unauthenticated, false},
	{common.ErrInvalidToken, codes.Unauthenticated, false},
	{common.ErrTokenExpired, codes.Unauthenticated, false},
	{common.ErrorUnauthorized, codes.Unauthenticated, false},
	{common.ErrAccountDisabled, codes.PermissionDenied, false},
	{common.ErrVersionConflict, codes.Aborted, false},
	{common.ErrUnavailable, codes.Unavailable, false},
}

// toStatus converts a service error into a gRPC status error.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.code == codes.Unavailable {
			s.logger.Error(ctx, "storage error", "error", err.Error())
		}
		if m.detailed {
			return status.Error(m.code, err.Error())
		}
		return status.Error(m.code, m.target.Error())
	}

	s.logger.Error(ctx, "internal error", "error", err.Error())
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}
