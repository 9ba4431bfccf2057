package models

import "time"

// Notification is created server-side on events the client does not
// originate (e.g. a moderation outcome). The link is a post slug.
// The only client-side mutation is marking it read.
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
