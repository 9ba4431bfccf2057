package services

import (
	"context"
	"strings"

	"github.com/technoheaven/portal-client/internal/client/api"
	"github.com/technoheaven/portal-client/internal/client/models"
	"github.com/technoheaven/portal-client/internal/client/session"
	"github.com/technoheaven/portal-client/internal/common"
	"github.com/technoheaven/portal-client/internal/logging"
)

// ContentService wraps the blog resource: CRUD, the moderation workflow and
// social interaction. Transitions that the backend would reject anyway are
// fast-failed client-side before any network call; the backend remains the
// authority.
type ContentService interface {
	ListPosts(ctx context.Context) ([]models.BlogPost, error)
	GetPost(ctx context.Context, idOrSlug string) (*models.BlogPost, error)
	SaveDraft(ctx context.Context, p api.CreatePostPayload) (*models.BlogPost, error)
	SubmitNew(ctx context.Context, p api.CreatePostPayload) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, post *models.BlogPost, p api.UpdatePostPayload) (*models.BlogPost, error)
	SubmitForReview(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	Approve(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	Reject(ctx context.Context, post *models.BlogPost, reason string) (*models.BlogPost, error)
	Delete(ctx context.Context, slug string) error
	Comments(ctx context.Context, slug string) ([]models.Comment, error)
	AddComment(ctx context.Context, slug, content string) (*models.Comment, error)
	Likes(ctx context.Context, slug string) (*models.LikeStatus, error)
	ToggleLike(ctx context.Context, slug string) (*models.LikeStatus, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type contentService struct {
	api   *api.Client
	store *session.Store
	log   logging.Logger
}

func NewContentService(client *api.Client, store *session.Store, log logging.Logger) ContentService {
	return &contentService{api: client, store: store, log: log.With("component", "content")}
}

func (c *contentService) requireAuth() (session.Snapshot, error) {
	snap := c.store.Snapshot()
	if !snap.IsAuthenticated() {
		return snap, common.ErrorNotAuthenticated
	}
	return snap, nil
}

func (c *contentService) requireStaff() error {
	snap, err := c.requireAuth()
	if err != nil {
		return err
	}
	if !snap.User.IsStaff {
		return common.ErrorStaffOnly
	}
	return nil
}

func (c *contentService) ListPosts(ctx context.Context) ([]models.BlogPost, error) {
	return c.api.ListPosts(ctx)
}

func (c *contentService) GetPost(ctx context.Context, idOrSlug string) (*models.BlogPost, error) {
	return c.api.GetPost(ctx, idOrSlug)
}

// SaveDraft creates a new post as draft, any number of times.
func (c *contentService) SaveDraft(ctx context.Context, p api.CreatePostPayload) (*models.BlogPost, error) {
	if _, err := c.requireAuth(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, common.ErrorValidation
	}
	p.Status = models.StatusDraft
	return c.api.CreatePost(ctx, p)
}

// SubmitNew creates a new post directly in review.
func (c *contentService) SubmitNew(ctx context.Context, p api.CreatePostPayload) (*models.BlogPost, error) {
	if _, err := c.requireAuth(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Content) == "" {
		return nil, common.ErrorValidation
	}
	p.Status = models.StatusPending
	return c.api.CreatePost(ctx, p)
}

// UpdatePost patches the given post. When the payload carries a status
// change it must be a legal author transition from the post's current
// status.
func (c *contentService) UpdatePost(ctx context.Context, post *models.BlogPost, p api.UpdatePostPayload) (*models.BlogPost, error) {
	if _, err := c.requireAuth(); err != nil {
		return nil, err
	}
	if p.Status != "" && p.Status != post.Status {
		if !post.Status.CanTransition(p.Status, false) {
			return nil, common.ErrorInvalidTransition
		}
	}
	return c.api.UpdatePost(ctx, post.ID, p)
}

// SubmitForReview moves a draft or rejected post to pending. Resubmission
// clears the previous rejection once a new decision is made.
func (c *contentService) SubmitForReview(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	if _, err := c.requireAuth(); err != nil {
		return nil, err
	}
	if !post.Status.CanTransition(models.StatusPending, false) {
		return nil, common.ErrorInvalidTransition
	}
	return c.api.UpdatePost(ctx, post.ID, api.UpdatePostPayload{Status: models.StatusPending})
}

// Approve publishes a pending post. Staff only.
func (c *contentService) Approve(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	if err := c.requireStaff(); err != nil {
		return nil, err
	}
	if !post.Status.CanTransition(models.StatusPublished, true) {
		return nil, common.ErrorInvalidTransition
	}
	if err := models.ValidateModeration(models.StatusPublished, ""); err != nil {
		return nil, err
	}
	return c.api.ModeratePost(ctx, post.ID, models.StatusPublished, "")
}

// Reject turns down a pending post with a mandatory reason. The empty-reason
// check runs before any network call.
func (c *contentService) Reject(ctx context.Context, post *models.BlogPost, reason string) (*models.BlogPost, error) {
	if err := models.ValidateModeration(models.StatusRejected, reason); err != nil {
		return nil, err
	}
	if err := c.requireStaff(); err != nil {
		return nil, err
	}
	if !post.Status.CanTransition(models.StatusRejected, true) {
		return nil, common.ErrorInvalidTransition
	}
	return c.api.ModeratePost(ctx, post.ID, models.StatusRejected, reason)
}

// Delete removes a post by slug. Irreversible; confirmation is the caller's
// responsibility.
func (c *contentService) Delete(ctx context.Context, slug string) error {
	if _, err := c.requireAuth(); err != nil {
		return err
	}
	return c.api.DeletePost(ctx, slug)
}

func (c *contentService) Comments(ctx context.Context, slug string) ([]models.Comment, error) {
	return c.api.Comments(ctx, slug)
}

// AddComment appends a comment; empty content is rejected before any
// network call.
func (c *contentService) AddComment(ctx context.Context, slug, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.ErrorEmptyComment
	}
	if _, err := c.requireAuth(); err != nil {
		return nil, err
	}
	return c.api.AddComment(ctx, slug, content)
}

func (c *contentService) Likes(ctx context.Context, slug string) (*models.LikeStatus, error) {
	return c.api.Likes(ctx, slug)
}

// ToggleLike flips the caller's like; it is idempotent per pair of calls.
func (c *contentService) ToggleLike(ctx context.Context, slug string) (*models.LikeStatus, error) {
	if _, err := c.requireAuth(); err != nil {
		return nil, err
	}
	return c.api.ToggleLike(ctx, slug)
}

func (c *contentService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	if _, err := c.requireAuth(); err != nil {
		return nil, err
	}
	return c.api.Stats(ctx)
}
