package session

import (
	"context"
	"sync"

	"github.com/technoheaven/portal-client/internal/client/models"
	"github.com/technoheaven/portal-client/internal/logging"
)

// State is the lifecycle phase of the client-side session.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Snapshot is an immutable view of the session. During StateLoading the
// user may be the advisory cached record; it is never authoritative until
// the state is StateAuthenticated.
type Snapshot struct {
	State State
	User  *models.User
}

// IsAuthenticated reports whether a user is live.
func (s Snapshot) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// Cache is the advisory persistent mirror of the last-known user record.
// It exists to avoid an anonymous flash on startup; on mismatch the live
// profile fetch always wins.
type Cache interface {
	Load(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Clear(ctx context.Context) error
}

// Store owns the session. All mutations go through the named transition
// functions below under a single-writer mutex, and every session-affecting
// operation is guarded by a monotonic sequence token so a stale in-flight
// completion can never clobber a newer transition (in particular, a slow
// profile fetch can never resurrect a session after logout).
type Store struct {
	mu      sync.Mutex
	state   State
	user    *models.User
	latest  uint64
	cache   Cache
	log     logging.Logger
	subs    map[int]func(Snapshot)
	nextSub int
}

func NewStore(cache Cache, log logging.Logger) *Store {
	return &Store{
		state: StateUninitialized,
		cache: cache,
		log:   log.With("component", "session"),
		subs:  make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current state and user.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, User: s.user}
}

// Subscribe registers fn to be called with a snapshot after every
// transition. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notifyLocked snapshots the subscriber set under the lock; callers invoke
// the returned closure after unlocking so subscribers never run under the
// store mutex.
func (s *Store) notifyLocked() func() {
	snap := Snapshot{State: s.state, User: s.user}
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

// LoadCached seeds the store from the advisory cache without changing the
// lifecycle state. Cache errors are swallowed; the cache is never a
// correctness dependency.
func (s *Store) LoadCached(ctx context.Context) {
	if s.cache == nil {
		return
	}
	user, err := s.cache.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "profile cache unavailable", "error", err)
		return
	}
	if user == nil {
		return
	}

	s.mu.Lock()
	if s.state == StateUninitialized || s.state == StateLoading {
		s.user = user
	}
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// BeginIdentityCheck moves the store to StateLoading and issues the
// sequence token the completion must present. The last-known user is kept
// so guards can keep rendering a neutral waiting view.
func (s *Store) BeginIdentityCheck(ctx context.Context) uint64 {
	s.mu.Lock()
	s.latest++
	token := s.latest
	s.state = StateLoading
	notify := s.notifyLocked()
	s.mu.Unlock()

	s.log.Debug(ctx, "identity check started", "seq", token)
	notify()
	return token
}

// CompleteAuthenticated applies a successful identity check. Returns false
// if the token is stale, in which case nothing changes.
func (s *Store) CompleteAuthenticated(ctx context.Context, token uint64, user *models.User) bool {
	s.mu.Lock()
	if token != s.latest {
		s.mu.Unlock()
		s.log.Debug(ctx, "stale identity result dropped", "seq", token)
		return false
	}
	s.state = StateAuthenticated
	s.user = user
	notify := s.notifyLocked()
	s.mu.Unlock()

	s.persist(ctx, user)
	s.log.Info(ctx, "session authenticated", "username", user.Username)
	notify()
	return true
}

// CompleteAnonymous applies a deterministic rejection (401/403) of an
// identity check: the user is dropped and the cache cleared. Returns false
// if the token is stale.
func (s *Store) CompleteAnonymous(ctx context.Context, token uint64) bool {
	s.mu.Lock()
	if token != s.latest {
		s.mu.Unlock()
		s.log.Debug(ctx, "stale identity result dropped", "seq", token)
		return false
	}
	s.state = StateAnonymous
	s.user = nil
	notify := s.notifyLocked()
	s.mu.Unlock()

	s.clearCache(ctx)
	s.log.Info(ctx, "session anonymous")
	notify()
	return true
}

// CompleteDegraded applies a transient identity-check failure (network,
// 5xx): the last-known cached state is trusted rather than forcing a
// logout, and the loading flag clears. Returns false if the token is stale.
func (s *Store) CompleteDegraded(ctx context.Context, token uint64) bool {
	s.mu.Lock()
	if token != s.latest {
		s.mu.Unlock()
		return false
	}
	if s.user != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateAnonymous
	}
	notify := s.notifyLocked()
	state := s.state
	s.mu.Unlock()

	// Could mask a genuinely expired session until the next clean 401;
	// keep it observable.
	s.log.Warn(ctx, "identity check degraded, trusting cached state", "state", state.String())
	notify()
	return true
}

// ReplaceUser installs an authenticated user unconditionally (login, OTP
// verify, profile update). Any in-flight identity check is invalidated.
func (s *Store) ReplaceUser(ctx context.Context, user *models.User) {
	s.mu.Lock()
	s.latest++
	s.state = StateAuthenticated
	s.user = user
	notify := s.notifyLocked()
	s.mu.Unlock()

	s.persist(ctx, user)
	s.log.Info(ctx, "session authenticated", "username", user.Username)
	notify()
}

// ForceAnonymous ends the session unconditionally (logout). Any in-flight
// identity check is invalidated, so its eventual result is dropped.
func (s *Store) ForceAnonymous(ctx context.Context) {
	s.mu.Lock()
	s.latest++
	s.state = StateAnonymous
	s.user = nil
	notify := s.notifyLocked()
	s.mu.Unlock()

	s.clearCache(ctx)
	s.log.Info(ctx, "session anonymous")
	notify()
}

func (s *Store) persist(ctx context.Context, user *models.User) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(ctx, user); err != nil {
		s.log.Warn(ctx, "failed to persist profile cache", "error", err)
	}
}

func (s *Store) clearCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear profile cache", "error", err)
	}
}
