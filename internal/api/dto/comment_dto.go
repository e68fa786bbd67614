package dto

import "time"

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse mirrors a comment row joined with the author's username.
type CommentResponse struct {
	ID        int64     `json:"id"`
	BugID     int64     `json:"bug_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
}
