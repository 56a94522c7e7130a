package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// MinPasswordLength is enforced by the client before any call and again by the server.
const MinPasswordLength = 8

// Tables reachable through the generic row API.
const (
	TableProfiles    = "profiles"
	TablePreferences = "user_preferences"
)
