package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/technoheaven/portal-client/internal/client/api"
	"github.com/technoheaven/portal-client/internal/client/config"
	"github.com/technoheaven/portal-client/internal/client/guard"
	"github.com/technoheaven/portal-client/internal/client/localdb"
	"github.com/technoheaven/portal-client/internal/client/models"
	"github.com/technoheaven/portal-client/internal/client/repositories/profilecache"
	"github.com/technoheaven/portal-client/internal/client/services"
	"github.com/technoheaven/portal-client/internal/client/session"
	"github.com/technoheaven/portal-client/internal/logging"
)

// notifier is the slice of NotificationService the CLI needs; tests can
// provide a stub.
type notifier interface {
	Bind(ctx context.Context) func()
	Latest() []models.Notification
	UnreadCount() int
	Refresh(ctx context.Context)
	MarkRead(ctx context.Context, id int64) error
}

type App struct {
	config        *config.Config
	auth          services.AuthService
	content       services.ContentService
	notifications notifier
	store         *session.Store
	log           logging.Logger
	reader        *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, cfg.CachePath)
	if err != nil {
		log.Error(ctx, "error initializing local database", "error", err)
		return nil, err
	}

	apiClient, err := api.New(cfg.APIBaseURL, log)
	if err != nil {
		return nil, err
	}

	var cache profilecache.Repository = profilecache.NewSQLiteRepository(db)
	store := session.NewStore(cache, log)

	as := services.NewAuthService(apiClient, store, log, services.AuthOptions{
		IdentityTimeout: cfg.IdentityTimeout,
		GoogleLoginURL:  cfg.GoogleLoginURL,
		FrontendOrigin:  cfg.FrontendOrigin,
	})
	cs := services.NewContentService(apiClient, store, log)
	ns := services.NewNotificationService(apiClient, store, log, cfg.NotificationPollInterval)

	return &App{
		config:        cfg,
		auth:          as,
		content:       cs,
		notifications: ns,
		store:         store,
		log:           log,
		reader:        bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the cached session, resolves the live identity, starts the
// notification poller and enters the REPL. It blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	a.store.LoadCached(ctx)

	teardown := a.notifications.Bind(ctx)
	defer teardown()

	if err := a.auth.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "could not verify session with server", "error", err)
	}

	fmt.Println("Portal CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().IsAuthenticated()
}

func (a *App) isStaff() bool {
	snap := a.store.Snapshot()
	return snap.IsAuthenticated() && snap.User.IsStaff
}

// guardView gates a command the way a protected view is gated: resolving
// sessions wait, anonymous users are pointed at sign-in, non-staff users at
// the dashboard.
func (a *App) guardView(required guard.Role, path string) bool {
	decision := guard.Decide(a.store.Snapshot(), required, path)
	switch decision.Outcome {
	case guard.OutcomeWait:
		printlnFn("Still checking your session, try again in a moment...")
		return false
	case guard.OutcomeRedirect:
		if decision.Target == guard.SignInPath {
			printlnFn("Please sign in first (command: login)")
		} else {
			printlnFn("Staff permission required")
		}
		return false
	}
	return true
}

func (a *App) getStatus() string {
	snap := a.store.Snapshot()
	if !snap.IsAuthenticated() {
		return ""
	}
	s := snap.User.Username
	if snap.User.IsStaff {
		s += " staff"
	}
	if unread := a.notifications.UnreadCount(); unread > 0 {
		s = fmt.Sprintf("%s, %d unread", s, unread)
	}
	return fmt.Sprintf("(%s)", s)
}
