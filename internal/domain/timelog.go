package domain

import "time"

type TimeLog struct {
	ID        string
	TaskID    string
	UserID    string
	StartedAt time.Time
	Minutes   int
	Note      string
	CreatedAt time.Time
}
