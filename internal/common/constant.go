package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// session token on outbound requests.
const AccessTokenHeaderName = "access_token"

// JSONContentSubtype is the gRPC content-subtype of the account API codec.
const JSONContentSubtype = "json"
