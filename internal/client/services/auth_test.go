package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technoheaven/portal-client/internal/client/api"
	"github.com/technoheaven/portal-client/internal/client/session"
	"github.com/technoheaven/portal-client/internal/common"
	"github.com/technoheaven/portal-client/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

type fixture struct {
	api   *api.Client
	store *session.Store
}

func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, testLogger())
	require.NoError(t, err)
	return &fixture{api: client, store: session.NewStore(nil, testLogger())}
}

func (f *fixture) auth(opts AuthOptions) AuthService {
	return NewAuthService(f.api, f.store, testLogger(), opts)
}

func writeJSON(w http.ResponseWriter, v any) {
	json.NewEncoder(w).Encode(v)
}

func TestRefresh_AuthenticatesFromProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/status/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"csrf_token": "tok"})
	})
	mux.HandleFunc("GET /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"user": map[string]any{"id": 5, "username": "rosa"}})
	})

	f := newFixture(t, mux)
	require.NoError(t, f.auth(AuthOptions{}).Refresh(context.Background()))

	snap := f.store.Snapshot()
	assert.Equal(t, session.StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, "rosa", snap.User.Username)
	assert.Equal(t, "tok", f.api.CSRFToken())
}

func TestRefresh_UnauthorizedMeansAnonymousNotError(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
	}))

	require.NoError(t, f.auth(AuthOptions{}).Refresh(context.Background()))
	assert.Equal(t, session.StateAnonymous, f.store.Snapshot().State)
}

func TestRefresh_ServerFailureKeepsCachedUser(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))

	// Simulate a previous session, then a second refresh against a dead backend.
	f.store.ReplaceUser(context.Background(), &userFixture)

	err := f.auth(AuthOptions{}).Refresh(context.Background())
	require.ErrorIs(t, err, api.ErrUnavailable)

	snap := f.store.Snapshot()
	assert.Equal(t, session.StateAuthenticated, snap.State, "transient failure must not bounce the user out")
	require.NotNil(t, snap.User)
}

func TestRefresh_StaleProfileFetchCannotOutliveLogout(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/status/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"csrf_token": "tok"})
	})
	mux.HandleFunc("GET /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(w, map[string]any{"user": map[string]any{"id": 5, "username": "rosa"}})
	})
	mux.HandleFunc("POST /auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"detail": "bye"})
	})

	f := newFixture(t, mux)
	svc := f.auth(AuthOptions{})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.Refresh(ctx)
	}()

	// Wait for the identity check to be in flight, then log out underneath it.
	require.Eventually(t, func() bool {
		return f.store.Snapshot().State == session.StateLoading
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, svc.Logout(ctx))

	close(release)
	wg.Wait()

	snap := f.store.Snapshot()
	assert.Equal(t, session.StateAnonymous, snap.State, "the late profile response must not resurrect the session")
	assert.Nil(t, snap.User)
}

func TestLogin_VerificationRequiredLeavesSessionUntouched(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"detail": "Verify your email first.", "requires_verification": true})
	}))

	result, err := f.auth(AuthOptions{}).Login(context.Background(), "rosa@example.org", []byte("pw"))
	require.NoError(t, err)
	assert.True(t, result.RequiresVerification)
	assert.Equal(t, session.StateUninitialized, f.store.Snapshot().State)
}

func TestLogin_RoutesIdentifierByShape(t *testing.T) {
	var gotBody map[string]string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody = nil
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, map[string]any{"user": map[string]any{"id": 5, "username": "rosa"}})
	}))
	svc := f.auth(AuthOptions{})
	ctx := context.Background()

	_, err := svc.Login(ctx, "rosa@example.org", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "rosa@example.org", gotBody["email"])
	assert.Empty(t, gotBody["username"])

	_, err = svc.Login(ctx, "rosa", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "rosa", gotBody["username"])
	assert.Empty(t, gotBody["email"])

	assert.True(t, f.store.Snapshot().IsAuthenticated())
}

func TestVerifyOTP_RejectsMalformedCodeWithoutNetwork(t *testing.T) {
	hits := 0
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	svc := f.auth(AuthOptions{})
	ctx := context.Background()

	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		err := svc.VerifyOTP(ctx, "rosa@example.org", code)
		require.ErrorIs(t, err, common.ErrorInvalidOTPFormat)
	}
	assert.Zero(t, hits)
}

func TestVerifyOTP_EstablishesSession(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"user": map[string]any{"id": 5, "username": "rosa"}})
	}))

	require.NoError(t, f.auth(AuthOptions{}).VerifyOTP(context.Background(), "rosa@example.org", "123456"))
	assert.True(t, f.store.Snapshot().IsAuthenticated())
}

func TestRegister_PasswordMismatchFailsFast(t *testing.T) {
	hits := 0
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	_, err := f.auth(AuthOptions{}).Register(context.Background(), api.RegisterPayload{
		Username: "rosa", Email: "rosa@example.org", Password: "one", ConfirmPassword: "two",
	})
	require.ErrorIs(t, err, common.ErrorPasswordMismatch)
	assert.Zero(t, hits)
}

func TestResetPassword_MismatchFailsFast(t *testing.T) {
	hits := 0
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	err := f.auth(AuthOptions{}).ResetPassword(context.Background(),
		"rosa@example.org", "123456", []byte("one"), []byte("two"))
	require.ErrorIs(t, err, common.ErrorPasswordMismatch)
	assert.Zero(t, hits)
}

func TestLogout_ServerFailureStillEndsSession(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))
	ctx := context.Background()

	f.store.ReplaceUser(ctx, &userFixture)
	f.api.SetCSRFToken("tok")

	require.NoError(t, f.auth(AuthOptions{}).Logout(ctx))
	assert.Equal(t, session.StateAnonymous, f.store.Snapshot().State)
	assert.Empty(t, f.api.CSRFToken())
}

func TestUpdateProfile_RequiresSession(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	first := "Ana"
	err := f.auth(AuthOptions{}).UpdateProfile(context.Background(), api.ProfileUpdatePayload{FirstName: &first})
	require.ErrorIs(t, err, common.ErrorNotAuthenticated)
}

func TestUpdateProfile_ReplacesLiveUser(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"user": map[string]any{"id": 5, "username": "rosa", "first_name": "Ana"}})
	}))
	ctx := context.Background()

	f.store.ReplaceUser(ctx, &userFixture)

	first := "Ana"
	require.NoError(t, f.auth(AuthOptions{}).UpdateProfile(ctx, api.ProfileUpdatePayload{FirstName: &first}))
	assert.Equal(t, "Ana", f.store.Snapshot().User.FirstName)
}
