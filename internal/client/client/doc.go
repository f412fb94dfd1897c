// Package client talks to the gophauth account service over gRPC.
//
// GRPCClient keeps the session token returned by Login and attaches it to
// every outgoing call through a unary interceptor. gRPC status codes are
// mapped to the sentinel errors in errors.go so callers can use errors.Is.
package client
