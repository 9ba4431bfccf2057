package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/technoheaven/portal-client/internal/client/api"
	"github.com/technoheaven/portal-client/internal/client/guard"
	"github.com/technoheaven/portal-client/internal/client/models"
)

// getMultiline is an indirection used to facilitate testing.
var getMultiline = GetMultiline

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func postLine(p models.BlogPost) string {
	return fmt.Sprintf("#%d [%s] %s (by %s, %d likes) slug=%s",
		p.ID, p.Status, p.Title, p.AuthorName, p.LikesCount, p.Slug)
}

// List prints a short line for each post visible to the caller.
func (a *App) List(ctx context.Context) error {
	posts, err := a.content.ListPosts(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(posts) == 0 {
		printlnFn("No posts.")
		return nil
	}
	for _, p := range posts {
		printlnFn(postLine(p))
	}
	return nil
}

// Show fetches and displays a single post with its comments.
func (a *App) Show(ctx context.Context) error {
	idOrSlug, err := getSimpleText(a.reader, "Enter post id or slug", os.Stdout)
	if err != nil {
		return err
	}

	post, err := a.content.GetPost(ctx, idOrSlug)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn(post.Title)
	printlnFn(fmt.Sprintf("by %s | %s | %d likes | tags: %s",
		post.AuthorName, post.Status, post.LikesCount, strings.Join(post.Tags, ", ")))
	if post.Status == models.StatusRejected && post.AdminComment != nil {
		printlnFn("Rejection reason:", *post.AdminComment)
	}
	printlnFn("")
	printlnFn(post.Content)

	comments, err := a.content.Comments(ctx, post.Slug)
	if err != nil {
		return err
	}
	if len(comments) > 0 {
		printlnFn("")
		printlnFn(fmt.Sprintf("Comments (%d):", len(comments)))
		for _, c := range comments {
			printlnFn(fmt.Sprintf("  %s: %s", c.AuthorName, c.Content))
		}
	}
	return nil
}

// NewPost collects a post and either saves it as a draft or submits it for
// review, at the author's choice.
func (a *App) NewPost(ctx context.Context) error {
	if !a.guardView(guard.RoleAuthenticated, "/write") {
		return nil
	}

	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Enter the post body", os.Stdout)
	if err != nil {
		return err
	}
	tagsText, err := getSimpleText(a.reader, "Enter tags, comma separated (optional)", os.Stdout)
	if err != nil {
		return err
	}

	payload := api.CreatePostPayload{Title: title, Content: content, Tags: splitTags(tagsText)}

	submit, err := getConfirmation(a.reader, "Submit for review now?", os.Stdout)
	if err != nil {
		return err
	}

	var post *models.BlogPost
	if submit {
		post, err = a.content.SubmitNew(ctx, payload)
	} else {
		post, err = a.content.SaveDraft(ctx, payload)
	}
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Saved as %s (slug=%s)", post.Status, post.Slug))
	return nil
}

// SubmitPost moves a draft or rejected post into review.
func (a *App) SubmitPost(ctx context.Context) error {
	if !a.guardView(guard.RoleAuthenticated, "/write") {
		return nil
	}

	idOrSlug, err := getSimpleText(a.reader, "Enter post id or slug", os.Stdout)
	if err != nil {
		return err
	}
	post, err := a.content.GetPost(ctx, idOrSlug)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	updated, err := a.content.SubmitForReview(ctx, post)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Submitted for review, current status:", string(updated.Status))
	return nil
}

// Review walks a moderator through the pending queue: approve publishes,
// reject asks for the mandatory reason.
func (a *App) Review(ctx context.Context) error {
	if !a.guardView(guard.RoleStaff, "/moderation") {
		return nil
	}

	posts, err := a.content.ListPosts(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	pending := 0
	for _, p := range posts {
		if p.Status == models.StatusPending {
			printlnFn(postLine(p))
			pending++
		}
	}
	if pending == 0 {
		printlnFn("Nothing pending.")
		return nil
	}

	idOrSlug, err := getSimpleText(a.reader, "Enter post id or slug to review", os.Stdout)
	if err != nil {
		return err
	}
	post, err := a.content.GetPost(ctx, idOrSlug)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	verdict, err := getSimpleText(a.reader, "approve or reject?", os.Stdout)
	if err != nil {
		return err
	}

	var updated *models.BlogPost
	switch strings.ToLower(verdict) {
	case "approve":
		updated, err = a.content.Approve(ctx, post)
	case "reject":
		reason, rerr := getSimpleText(a.reader, "Enter the rejection reason", os.Stdout)
		if rerr != nil {
			return rerr
		}
		updated, err = a.content.Reject(ctx, post, reason)
	default:
		printlnFn("Expected 'approve' or 'reject'")
		return nil
	}
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Post is now", string(updated.Status))
	return nil
}

// DeletePost removes a post after an explicit confirmation.
func (a *App) DeletePost(ctx context.Context) error {
	if !a.guardView(guard.RoleAuthenticated, "/write") {
		return nil
	}

	slug, err := getSimpleText(a.reader, "Enter post slug to delete", os.Stdout)
	if err != nil {
		return err
	}

	ok, err := getConfirmation(a.reader, fmt.Sprintf("Delete '%s' permanently?", slug), os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.content.Delete(ctx, slug); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Deleted.")
	return nil
}

// Comment appends a comment to a post.
func (a *App) Comment(ctx context.Context) error {
	if !a.guardView(guard.RoleAuthenticated, "/signin") {
		return nil
	}

	slug, err := getSimpleText(a.reader, "Enter post slug", os.Stdout)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Enter your comment", os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.content.AddComment(ctx, slug, content); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Comment added.")
	return nil
}

// Like toggles the caller's like on a post.
func (a *App) Like(ctx context.Context) error {
	if !a.guardView(guard.RoleAuthenticated, "/signin") {
		return nil
	}

	slug, err := getSimpleText(a.reader, "Enter post slug", os.Stdout)
	if err != nil {
		return err
	}

	status, err := a.content.ToggleLike(ctx, slug)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if status.Liked {
		printlnFn(fmt.Sprintf("Liked (%d total)", status.LikesCount))
	} else {
		printlnFn(fmt.Sprintf("Like removed (%d total)", status.LikesCount))
	}
	return nil
}

// Stats prints the caller's dashboard statistics.
func (a *App) Stats(ctx context.Context) error {
	if !a.guardView(guard.RoleAuthenticated, "/dashboard") {
		return nil
	}

	stats, err := a.content.Stats(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Posts: %d | Likes: %d | Comments: %d | Views: %d",
		stats.TotalPosts, stats.TotalLikes, stats.TotalComments, stats.TotalViews))
	return nil
}
