// Package queue moves activity events through RabbitMQ: a Publisher used
// by the services and a Consumer that appends them to an activity log.
package queue

import (
	"fmt"
	"strings"
	"time"
)

// ActivityType names a social action.
type ActivityType string

const (
	FriendAdded     ActivityType = "FRIEND_ADDED"
	FriendConfirmed ActivityType = "FRIEND_CONFIRMED"
	FriendRemoved   ActivityType = "FRIEND_REMOVED"
	LikeAdded       ActivityType = "LIKE_ADDED"
	LikeRemoved     ActivityType = "LIKE_REMOVED"
)

// ActivityEvent is published after a friendship or like change commits.
// It carries enough to feed an activity log without querying the
// database.
type ActivityEvent struct {
	Type       ActivityType `json:"type"`
	UserID     uint64       `json:"user_id"`
	TargetID   uint64       `json:"target_id,omitempty"` // other user of a friendship
	FilmID     uint64       `json:"film_id,omitempty"`
	Status     string       `json:"status,omitempty"` // resulting friendship status
	OccurredAt time.Time    `json:"occurred_at"`
}

// LogLine renders the event as one human-readable line ending in "\n".
func (ev ActivityEvent) LogLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | user_id=%d", ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.UserID)
	if ev.TargetID != 0 {
		fmt.Fprintf(&b, " | target_id=%d", ev.TargetID)
	}
	if ev.FilmID != 0 {
		fmt.Fprintf(&b, " | film_id=%d", ev.FilmID)
	}
	if ev.Status != "" {
		fmt.Fprintf(&b, " | status=%s", ev.Status)
	}
	b.WriteByte('\n')
	return b.String()
}
