package domain

import "time"

// Comment is a remark left on a bug. Comments are immutable once created.
type Comment struct {
	ID        int64
	BugID     int64
	UserID    int64
	Content   string
	CreatedAt time.Time
	Username  string
}
