package models

import (
	"strings"
	"time"

	"github.com/technoheaven/portal-client/internal/common"
)

// PostStatus is the moderation status of a blog post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPending   PostStatus = "pending"
	StatusPublished PostStatus = "published"
	StatusRejected  PostStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether a post may move from s to next.
// Authors save drafts repeatedly and submit drafts or rejected posts for
// review; only staff decide pending posts. The backend remains the
// authority; this is a fast-fail for the client.
func (s PostStatus) CanTransition(next PostStatus, staff bool) bool {
	switch {
	case s == StatusDraft && next == StatusDraft:
		return true
	case (s == StatusDraft || s == StatusRejected) && next == StatusPending:
		return true
	case s == StatusPending && (next == StatusPublished || next == StatusRejected):
		return staff
	}
	return false
}

// ValidateModeration checks a moderation verdict before it is sent.
// Only published/rejected are valid verdicts, and a rejection requires a
// non-empty reason.
func ValidateModeration(verdict PostStatus, comment string) error {
	if verdict != StatusPublished && verdict != StatusRejected {
		return common.ErrorInvalidTransition
	}
	if verdict == StatusRejected && strings.TrimSpace(comment) == "" {
		return common.ErrorEmptyRejectionReason
	}
	return nil
}

// BlogPost is a post record owned by the backend. The slug is assigned
// server-side and is the stable public identifier once non-draft.
type BlogPost struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	SubTitle         string     `json:"sub_title,omitempty"`
	ExecutiveSummary string     `json:"executive_summary,omitempty"`
	Content          string     `json:"content"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Author           int64      `json:"author"`
	AuthorName       string     `json:"author_name"`
	Status           PostStatus `json:"status"`
	StatusDisplay    string     `json:"status_display,omitempty"`
	AdminComment     *string    `json:"admin_comment,omitempty"`
	LikesCount       int        `json:"likes_count"`
	CommentsCount    int        `json:"comments_count"`
	Slug             string     `json:"slug,omitempty"`
	Views            int        `json:"views"`
	Category         string     `json:"category,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	BannerImage      *string    `json:"banner_image,omitempty"`
	AllowComments    bool       `json:"allow_comments"`
}

// Comment is an append-only reader comment on a published post.
type Comment struct {
	ID         int64     `json:"id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// LikeStatus is the per-user like state of a post. Liking is a toggle:
// a second like call un-likes.
type LikeStatus struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// DashboardStats aggregates engagement across the current user's posts.
type DashboardStats struct {
	TotalPosts    int `json:"total_posts"`
	TotalLikes    int `json:"total_likes"`
	TotalComments int `json:"total_comments"`
	TotalViews    int `json:"total_views"`
}
