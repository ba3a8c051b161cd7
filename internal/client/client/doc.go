// Package client is the gRPC client of the gophid identity service.
//
// GRPCClient dials the server with the JSON codec, remembers the last access
// token it received and attaches it to every call as an
// "authorization: Bearer <token>" metadata entry. gRPC status codes are
// mapped to sentinel errors that callers match with errors.Is:
// common.ErrDuplicateIdentity, common.ErrInvalidCredentials,
// common.ErrUnauthenticated, common.ErrNotFound, common.ErrInvalidArgument
// and ErrUnavailable.
package client
