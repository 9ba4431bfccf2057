package services

import (
	"context"
	"sync"
	"time"

	"github.com/technoheaven/portal-client/internal/client/api"
	"github.com/technoheaven/portal-client/internal/client/models"
	"github.com/technoheaven/portal-client/internal/client/session"
	"github.com/technoheaven/portal-client/internal/logging"
)

// NotificationService polls the notification resource on a fixed interval
// while a user is signed in. The poller is scoped to the authenticated
// session: it starts on transition to authenticated and is torn down
// deterministically on transition to anonymous, so no authenticated-only
// call can fire after logout.
type NotificationService struct {
	api      *api.Client
	store    *session.Store
	log      logging.Logger
	interval time.Duration

	mu            sync.Mutex
	cancel        context.CancelFunc
	done          chan struct{}
	notifications []models.Notification
}

func NewNotificationService(client *api.Client, store *session.Store, log logging.Logger, interval time.Duration) *NotificationService {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &NotificationService{
		api:      client,
		store:    store,
		log:      log.With("component", "notifications"),
		interval: interval,
	}
}

// Bind subscribes the poller to the session store and starts it immediately
// if a user is already signed in. The returned function unsubscribes and
// stops any running poller.
func (n *NotificationService) Bind(ctx context.Context) func() {
	unsubscribe := n.store.Subscribe(func(snap session.Snapshot) {
		if snap.IsAuthenticated() {
			n.start(ctx)
		} else {
			n.stop()
		}
	})

	if n.store.Snapshot().IsAuthenticated() {
		n.start(ctx)
	}

	return func() {
		unsubscribe()
		n.stop()
	}
}

// Running reports whether the poll loop is live.
func (n *NotificationService) Running() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cancel != nil
}

// Latest returns the most recently fetched notifications.
func (n *NotificationService) Latest() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.Notification, len(n.notifications))
	copy(out, n.notifications)
	return out
}

// UnreadCount counts the unread notifications in the last fetch.
func (n *NotificationService) UnreadCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, notification := range n.notifications {
		if !notification.Read {
			count++
		}
	}
	return count
}

// Refresh fetches the notification list once. Failures are logged, never
// surfaced; a failed poll must not disturb anything else.
func (n *NotificationService) Refresh(ctx context.Context) {
	notifications, err := n.api.Notifications(ctx)
	if err != nil {
		n.log.Warn(ctx, "failed to load notifications", "error", err)
		return
	}

	n.mu.Lock()
	n.notifications = notifications
	n.mu.Unlock()
}

// MarkRead flips a notification's read flag on the server and mirrors the
// change locally.
func (n *NotificationService) MarkRead(ctx context.Context, id int64) error {
	if err := n.api.MarkNotificationRead(ctx, id); err != nil {
		return err
	}

	n.mu.Lock()
	for i := range n.notifications {
		if n.notifications[i].ID == id {
			n.notifications[i].Read = true
		}
	}
	n.mu.Unlock()
	return nil
}

func (n *NotificationService) start(parent context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	n.cancel = cancel
	n.done = make(chan struct{})
	go n.run(ctx, n.done)
}

func (n *NotificationService) stop() {
	n.mu.Lock()
	cancel, done := n.cancel, n.done
	n.cancel, n.done = nil, nil
	n.notifications = nil
	n.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (n *NotificationService) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	n.Refresh(ctx)

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n.Refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}
