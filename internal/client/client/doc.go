// Package client is the HTTP client of the knowledge-base platform API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface and its
//     per-area parts AuthAPI, KnowledgeBaseAPI, FileAPI, ChatAPI, UserAPI).
//  2. A concrete implementation (see HTTPClient) whose transport runs every
//     outgoing request through the Authenticator: public auth endpoints pass
//     untouched, protected ones get "Authorization: Bearer <token>", an
//     expired token is refreshed once, and an unrecoverable session is
//     cleared and reported through the LogoutHandler.
//  3. Response decoding that unwraps the backend's {status, message, data}
//     envelope when present and decodes raw bodies otherwise.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrNeedsVerification, ErrSessionExpired,
// ErrNoSession. Server answers are *APIError (message verbatim) or
// *ValidationError (per-field messages), matched with errors.As.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Concurrent requests that observe
// the same expired token share one refresh call. All operations accept a
// context.Context; nothing is cancelled on logout.
package client
