// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration and the gRPC client into a small REPL:
//   - register / confirm / resend: create an account and verify its email
//   - login / logout / me: session handling
//   - list / export: account listing and S3 snapshots (requires login)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
