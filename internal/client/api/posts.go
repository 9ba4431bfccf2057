package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/technoheaven/portal-client/internal/client/models"
)

// CreatePostPayload is the author's submission form. Posts always go out as
// multipart because a banner image may be attached.
type CreatePostPayload struct {
	Title            string
	SubTitle         string
	ExecutiveSummary string
	Content          string
	BannerImage      *ImageUpload
	Category         string
	Tags             []string
	AllowComments    *bool
	Status           models.PostStatus
	ScheduleDate     string
	ScheduleTime     string
}

// UpdatePostPayload is a partial update; zero values are omitted so only
// the provided fields change.
type UpdatePostPayload struct {
	Title            string
	SubTitle         string
	ExecutiveSummary string
	Content          string
	BannerImage      *ImageUpload
	Category         string
	Tags             []string
	AllowComments    *bool
	Status           models.PostStatus
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ListPosts fetches all posts visible to the caller.
func (c *Client) ListPosts(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	if err := c.getJSON(ctx, "blogpost/blogposts/", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a post by numeric id or by slug.
func (c *Client) GetPost(ctx context.Context, idOrSlug string) (*models.BlogPost, error) {
	path := "blogpost/blogposts/slug/" + idOrSlug + "/"
	if isNumeric(idOrSlug) {
		path = "blogpost/blogposts/" + idOrSlug + "/"
	}

	var post models.BlogPost
	if err := c.getJSON(ctx, path, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (p CreatePostPayload) form() (*Form, error) {
	form := &Form{}
	form.AddField("title", p.Title)
	form.AddFieldIfSet("sub_title", p.SubTitle)
	form.AddFieldIfSet("executive_summary", p.ExecutiveSummary)
	form.AddField("content", p.Content)
	if p.BannerImage != nil {
		form.AddFile("banner_image", p.BannerImage.Filename, p.BannerImage.Content)
	}
	form.AddFieldIfSet("category", p.Category)
	if p.Tags != nil {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return nil, err
		}
		form.AddField("tags", string(tags))
	}
	if p.AllowComments != nil {
		form.AddField("allow_comments", strconv.FormatBool(*p.AllowComments))
	}
	form.AddFieldIfSet("schedule_date", p.ScheduleDate)
	form.AddFieldIfSet("schedule_time", p.ScheduleTime)
	form.AddFieldIfSet("status", string(p.Status))
	return form, nil
}

// CreatePost submits a new post as draft or directly for review, depending
// on the payload status.
func (c *Client) CreatePost(ctx context.Context, p CreatePostPayload) (*models.BlogPost, error) {
	form, err := p.form()
	if err != nil {
		return nil, err
	}

	var post models.BlogPost
	if err := c.sendForm(ctx, "POST", "blogpost/blogposts/", form, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost patches an existing post by id; only provided fields change,
// so a status-only update preserves id and content.
func (c *Client) UpdatePost(ctx context.Context, id int64, p UpdatePostPayload) (*models.BlogPost, error) {
	form := &Form{}
	form.AddFieldIfSet("title", p.Title)
	form.AddFieldIfSet("sub_title", p.SubTitle)
	form.AddFieldIfSet("executive_summary", p.ExecutiveSummary)
	form.AddFieldIfSet("content", p.Content)
	if p.BannerImage != nil {
		form.AddFile("banner_image", p.BannerImage.Filename, p.BannerImage.Content)
	}
	form.AddFieldIfSet("category", p.Category)
	if p.Tags != nil {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return nil, err
		}
		form.AddField("tags", string(tags))
	}
	if p.AllowComments != nil {
		form.AddField("allow_comments", strconv.FormatBool(*p.AllowComments))
	}
	form.AddFieldIfSet("status", string(p.Status))

	var post models.BlogPost
	path := fmt.Sprintf("blogpost/blogposts/%d/", id)
	if err := c.sendForm(ctx, "PATCH", path, form, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ModeratePost records a staff verdict. The comment is required by the
// backend for rejections.
func (c *Client) ModeratePost(ctx context.Context, id int64, status models.PostStatus, comment string) (*models.BlogPost, error) {
	body := map[string]any{"status": status}
	if comment != "" {
		body["admin_comment"] = comment
	}

	var post models.BlogPost
	path := fmt.Sprintf("blogpost/blogposts/%d/moderate/", id)
	if err := c.sendJSON(ctx, "PATCH", path, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post by slug. Deletion is terminal.
func (c *Client) DeletePost(ctx context.Context, slug string) error {
	return c.deleteJSON(ctx, "blogpost/blogposts/"+slug+"/", nil)
}

// Comments lists the comments of a published post.
func (c *Client) Comments(ctx context.Context, slug string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.getJSON(ctx, "blogpost/blogposts/slug/"+slug+"/comments/", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment appends a comment. Comments are append-only; no edit or delete.
func (c *Client) AddComment(ctx context.Context, slug, content string) (*models.Comment, error) {
	var comment models.Comment
	body := map[string]string{"content": content}
	if err := c.sendJSON(ctx, "POST", "blogpost/blogposts/slug/"+slug+"/comments/", body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Likes fetches the caller's like state and the post's like count.
func (c *Client) Likes(ctx context.Context, slug string) (*models.LikeStatus, error) {
	var status models.LikeStatus
	if err := c.getJSON(ctx, "blogpost/blogposts/slug/"+slug+"/likes/", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ToggleLike flips the caller's like on a post; a second call un-likes.
func (c *Client) ToggleLike(ctx context.Context, slug string) (*models.LikeStatus, error) {
	var status models.LikeStatus
	if err := c.sendJSON(ctx, "POST", "blogpost/blogposts/slug/"+slug+"/like/", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Stats aggregates engagement across the current user's posts.
func (c *Client) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.getJSON(ctx, "blogpost/blogposts/stats/", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
