package common

// AuthorizationHeaderName is the gRPC metadata key and HTTP header used to
// carry the bearer token.
const AuthorizationHeaderName = "authorization"

// BearerScheme prefixes the token in AuthorizationHeaderName.
const BearerScheme = "Bearer"
