// Package api is the REST client for the portal backend.
//
// # Overview
//
// The package provides:
//  1. A Client that dispatches requests against a base URL, always sending
//     the shared cookie jar (the session cookie is the credential), a
//     per-request id, and the most recently observed anti-forgery token as
//     a header on every call.
//  2. Typed endpoint methods for the identity flows (Register, Login,
//     VerifyOTP, ResendOTP, password reset, Logout, Profile, UpdateProfile),
//     the blog content resource (posts, moderation, comments, likes, stats)
//     and notifications.
//  3. A Form builder for multipart uploads. Multipart requests rely on the
//     encoder-computed content type so the boundary is never lost.
//
// # Error Handling
//
// HTTP failures surface as *APIError with the status code and the first
// human-readable detail from the server payload. APIError unwraps to the
// sentinels ErrUnauthorized (401/403), ErrNotFound (404) and ErrUnavailable
// (5xx and transport failures), so callers can match with errors.Is.
//
// Concurrency & Contexts
//
// Client is safe for concurrent use. All operations accept context.Context
// and honor cancellation/timeouts.
package api
