// Package api describes the gophauth account service wire contract shared by
// the gRPC server and client: request/response messages, the JSON codec and
// the service descriptor.
package api
