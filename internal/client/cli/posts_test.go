package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/technoheaven/portal-client/internal/client/api"
	"github.com/technoheaven/portal-client/internal/client/models"
	"github.com/technoheaven/portal-client/internal/client/session"
	"github.com/technoheaven/portal-client/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func stubMultiline(t *testing.T, answer string) {
	t.Helper()
	orig := getMultiline
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		return answer, nil
	}
	t.Cleanup(func() { getMultiline = orig })
}

// testStore returns a session store in the given shape: nil user means
// anonymous.
func testStore(user *models.User) *session.Store {
	store := session.NewStore(nil, testLogger())
	if user != nil {
		store.ReplaceUser(context.Background(), user)
	} else {
		store.ForceAnonymous(context.Background())
	}
	return store
}

type fakeContent struct {
	calls []string

	posts    []models.BlogPost
	post     models.BlogPost
	drafted  *api.CreatePostPayload
	created  *api.CreatePostPayload
	rejected string
	deleted  string
}

func (f *fakeContent) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeContent) ListPosts(context.Context) ([]models.BlogPost, error) {
	f.record("list")
	return f.posts, nil
}
func (f *fakeContent) GetPost(_ context.Context, idOrSlug string) (*models.BlogPost, error) {
	f.record("get")
	return &f.post, nil
}
func (f *fakeContent) SaveDraft(_ context.Context, p api.CreatePostPayload) (*models.BlogPost, error) {
	f.record("draft")
	f.drafted = &p
	return &models.BlogPost{Status: models.StatusDraft}, nil
}
func (f *fakeContent) SubmitNew(_ context.Context, p api.CreatePostPayload) (*models.BlogPost, error) {
	f.record("submitnew")
	f.created = &p
	return &models.BlogPost{Status: models.StatusPending}, nil
}
func (f *fakeContent) UpdatePost(_ context.Context, post *models.BlogPost, _ api.UpdatePostPayload) (*models.BlogPost, error) {
	f.record("update")
	return post, nil
}
func (f *fakeContent) SubmitForReview(_ context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	f.record("submit")
	return &models.BlogPost{ID: post.ID, Status: models.StatusPending}, nil
}
func (f *fakeContent) Approve(_ context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	f.record("approve")
	return &models.BlogPost{ID: post.ID, Status: models.StatusPublished}, nil
}
func (f *fakeContent) Reject(_ context.Context, post *models.BlogPost, reason string) (*models.BlogPost, error) {
	f.record("reject")
	f.rejected = reason
	return &models.BlogPost{ID: post.ID, Status: models.StatusRejected}, nil
}
func (f *fakeContent) Delete(_ context.Context, slug string) error {
	f.record("delete")
	f.deleted = slug
	return nil
}
func (f *fakeContent) Comments(context.Context, string) ([]models.Comment, error) {
	f.record("comments")
	return nil, nil
}
func (f *fakeContent) AddComment(_ context.Context, _ string, content string) (*models.Comment, error) {
	f.record("comment")
	return &models.Comment{Content: content}, nil
}
func (f *fakeContent) Likes(context.Context, string) (*models.LikeStatus, error) {
	f.record("likes")
	return &models.LikeStatus{}, nil
}
func (f *fakeContent) ToggleLike(context.Context, string) (*models.LikeStatus, error) {
	f.record("toggle")
	return &models.LikeStatus{Liked: true, LikesCount: 1}, nil
}
func (f *fakeContent) Stats(context.Context) (*models.DashboardStats, error) {
	f.record("stats")
	return &models.DashboardStats{}, nil
}

var memberUser = models.User{ID: 1, Username: "rosa"}
var staffUser = models.User{ID: 2, Username: "mod", IsStaff: true}

func TestNewPost_SavesDraftByDefault(t *testing.T) {
	silencePrintln(t)
	stubText(t, "My Title", "go, notes")
	stubMultiline(t, "body text")
	stubConfirmation(t, false)

	f := &fakeContent{}
	a := &App{content: f, store: testStore(&memberUser)}

	if err := a.NewPost(context.Background()); err != nil {
		t.Fatalf("NewPost err: %v", err)
	}
	if f.drafted == nil {
		t.Fatal("SaveDraft not called")
	}
	if f.created != nil {
		t.Fatal("SubmitNew must not be called without confirmation")
	}
	if f.drafted.Title != "My Title" || f.drafted.Content != "body text" {
		t.Fatalf("payload mismatch: %+v", f.drafted)
	}
	if len(f.drafted.Tags) != 2 || f.drafted.Tags[0] != "go" || f.drafted.Tags[1] != "notes" {
		t.Fatalf("tags mismatch: %v", f.drafted.Tags)
	}
}

func TestNewPost_SubmitsWhenConfirmed(t *testing.T) {
	silencePrintln(t)
	stubText(t, "My Title", "")
	stubMultiline(t, "body text")
	stubConfirmation(t, true)

	f := &fakeContent{}
	a := &App{content: f, store: testStore(&memberUser)}

	if err := a.NewPost(context.Background()); err != nil {
		t.Fatalf("NewPost err: %v", err)
	}
	if f.created == nil {
		t.Fatal("SubmitNew not called")
	}
	if f.drafted != nil {
		t.Fatal("SaveDraft must not be called when submitting")
	}
}

func TestNewPost_BlockedWhenAnonymous(t *testing.T) {
	silencePrintln(t)

	f := &fakeContent{}
	a := &App{content: f, store: testStore(nil)}

	if err := a.NewPost(context.Background()); err != nil {
		t.Fatalf("NewPost err: %v", err)
	}
	if len(f.calls) != 0 {
		t.Fatalf("unexpected service calls: %v", f.calls)
	}
}

func TestDeletePost_CancelledMakesNoCall(t *testing.T) {
	silencePrintln(t)
	stubText(t, "my-post")
	stubConfirmation(t, false)

	f := &fakeContent{}
	a := &App{content: f, store: testStore(&memberUser)}

	if err := a.DeletePost(context.Background()); err != nil {
		t.Fatalf("DeletePost err: %v", err)
	}
	if f.deleted != "" {
		t.Fatalf("delete went through without confirmation: %q", f.deleted)
	}
}

func TestDeletePost_Confirmed(t *testing.T) {
	silencePrintln(t)
	stubText(t, "my-post")
	stubConfirmation(t, true)

	f := &fakeContent{}
	a := &App{content: f, store: testStore(&memberUser)}

	if err := a.DeletePost(context.Background()); err != nil {
		t.Fatalf("DeletePost err: %v", err)
	}
	if f.deleted != "my-post" {
		t.Fatalf("deleted %q", f.deleted)
	}
}

func TestReview_RejectPassesReason(t *testing.T) {
	silencePrintln(t)
	stubText(t, "3", "reject", "needs sources")

	f := &fakeContent{
		posts: []models.BlogPost{{ID: 3, Status: models.StatusPending, Title: "t"}},
		post:  models.BlogPost{ID: 3, Status: models.StatusPending},
	}
	a := &App{content: f, store: testStore(&staffUser)}

	if err := a.Review(context.Background()); err != nil {
		t.Fatalf("Review err: %v", err)
	}
	if f.rejected != "needs sources" {
		t.Fatalf("reason mismatch: %q", f.rejected)
	}
}

func TestReview_NonStaffBlocked(t *testing.T) {
	silencePrintln(t)

	f := &fakeContent{}
	a := &App{content: f, store: testStore(&memberUser)}

	if err := a.Review(context.Background()); err != nil {
		t.Fatalf("Review err: %v", err)
	}
	if len(f.calls) != 0 {
		t.Fatalf("unexpected service calls: %v", f.calls)
	}
}

func TestSubmitPost_ForwardsFetchedPost(t *testing.T) {
	silencePrintln(t)
	stubText(t, "my-post")

	f := &fakeContent{post: models.BlogPost{ID: 9, Status: models.StatusDraft}}
	a := &App{content: f, store: testStore(&memberUser)}

	if err := a.SubmitPost(context.Background()); err != nil {
		t.Fatalf("SubmitPost err: %v", err)
	}
	want := []string{"get", "submit"}
	if len(f.calls) != len(want) || f.calls[0] != want[0] || f.calls[1] != want[1] {
		t.Fatalf("calls mismatch: %v", f.calls)
	}
}
