// Package client talks to the CodeHunt backend.
//
// GRPCClient implements Client over gRPC with the JSON codec from the rpc
// package. It keeps the signed-in session in memory and in the local
// metadata table, attaches the access token to every call, refreshes it
// once when the server reports it expired and announces every session change
// to subscribers.
//
// Errors are mapped to ErrUnavailable, ErrUnauthorized, ErrNotFound or a
// *RejectedError carrying the backend's message. InitDatabase opens the local
// SQLite file and applies the embedded goose migrations.
package client
