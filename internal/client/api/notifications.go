package api

import (
	"context"
	"fmt"

	"github.com/technoheaven/portal-client/internal/client/models"
)

// Notifications fetches the caller's notifications. They are polled, not
// pushed.
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.getJSON(ctx, "blogpost/blogposts/notifications/", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flips a notification's read flag.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	body := map[string]bool{"read": true}
	return c.sendJSON(ctx, "PATCH", fmt.Sprintf("notifications/%d/", id), body, nil)
}
