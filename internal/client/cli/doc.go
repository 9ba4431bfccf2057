// Package cli provides the interactive portal command-line client.
//
// It wires configuration, the local profile cache, the REST API services and
// an interactive REPL. Typical flow: restore the cached session, refresh the
// live identity from the server, start the notification poller, and execute
// user commands.
//
// Key features:
//   - Register / Login (with email OTP verification) / Logout
//   - Write, submit and moderate blog posts
//   - Comments, likes and dashboard statistics
//   - Background notification polling while signed in
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
