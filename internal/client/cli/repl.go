package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isStaff() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	VerifyEmail(ctx context.Context) error
	GoogleLogin(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	EditProfile(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	NewPost(ctx context.Context) error
	SubmitPost(ctx context.Context) error
	Review(ctx context.Context) error
	DeletePost(ctx context.Context) error
	Comment(ctx context.Context) error
	Like(ctx context.Context) error
	Stats(ctx context.Context) error
	Notifications(ctx context.Context) error
	MarkRead(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the portal CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not signed in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - verify         — confirm the emailed verification code
//	  - google         — print the Google sign-in URL
//	  - forgot | reset — password recovery
//	  - list | show    — browse published posts
//	  - exit | quit    — leave the program
//
//	Signed in, additionally:
//	  - new            — write a post (draft or submit for review)
//	  - submit         — submit a draft or rejected post for review
//	  - review         — approve or reject a pending post (staff)
//	  - delete         — delete a post (with confirmation)
//	  - comment        — comment on a post
//	  - like           — toggle a like
//	  - stats          — dashboard statistics
//	  - whoami/profile — inspect and edit the profile
//	  - (n)otifications, read, logout
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("portal %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				help := "Available commands: (l)ist, show, new, submit, delete, comment, like, stats, (n)otifications, read, whoami, profile, logout, exit"
				if a.isStaff() {
					help += ", review"
				}
				printlnFn(help)
			} else {
				printlnFn("Available commands: register, login, verify, google, forgot, reset, (l)ist, show, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "verify":
			_ = a.VerifyEmail(ctx)

		case "google":
			_ = a.GoogleLogin(ctx)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "profile":
			_ = a.EditProfile(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx)

		case "new":
			_ = a.NewPost(ctx)

		case "submit":
			_ = a.SubmitPost(ctx)

		case "review":
			_ = a.Review(ctx)

		case "delete":
			_ = a.DeletePost(ctx)

		case "comment":
			_ = a.Comment(ctx)

		case "like":
			_ = a.Like(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "n", "notifications":
			_ = a.Notifications(ctx)

		case "read":
			_ = a.MarkRead(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
