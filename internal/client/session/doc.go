// Package session holds the client-side session state machine.
//
// States: uninitialized -> loading -> authenticated | anonymous. The store
// is the single owner of the authenticated user record; at most one user
// value is live at any time and all mutations run through named transition
// functions under one mutex.
//
// Identity checks are asynchronous, so every check takes a monotonic
// sequence token at start (BeginIdentityCheck) and presents it on
// completion. Transitions that outrank in-flight checks (ReplaceUser,
// ForceAnonymous) advance the sequence, which makes stale completions
// no-ops — a logout can never be undone by a slow profile fetch resolving
// afterwards.
//
// The persistent cache is advisory only: it pre-seeds the user on startup
// to avoid an anonymous flash and is replaced or cleared as the session
// transitions, but the live profile fetch always wins on mismatch.
package session
