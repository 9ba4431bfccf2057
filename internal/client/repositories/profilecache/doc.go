// Package profilecache persists the last-known authenticated user record
// between runs so the UI does not flash "logged out" while the first
// identity check is in flight. The cache is a best-effort mirror: a missing,
// stale or corrupt entry is never an error condition, and the live profile
// fetch always wins.
package profilecache
