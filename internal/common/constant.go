// Package common contains shared constants and sentinel errors used across
// the console packages.
package common

// AuthorizationHeaderName carries the bearer access token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName is stamped on every outbound request for log correlation.
const RequestIDHeaderName = "X-Request-ID"

// Keys under which the session is persisted in the local key/value store.
const (
	KeyAccessToken    = "authToken"
	KeyRefreshToken   = "refreshToken"
	KeyTokenExpiredAt = "tokenExpiredAt"
	KeyUsername       = "username"
	KeyRole           = "role"
)

// SessionKeys lists every persisted session key.
var SessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyTokenExpiredAt, KeyUsername, KeyRole}
