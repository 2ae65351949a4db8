// Package queue carries reservation lifecycle events over RabbitMQ: a
// publisher used by the lifecycle engine after each committed change and a
// consumer that appends every event to an audit log file.
package queue

import (
	"fmt"
	"time"
)

// ReservationEvent is published after a reservation change commits.  From is
// empty for creations.
type ReservationEvent struct {
	ReservationID uint64    `json:"reservation_id"`
	SpaceID       uint64    `json:"space_id"`
	UserID        uint64    `json:"user_id"`
	Action        string    `json:"action"`
	From          string    `json:"from,omitempty"`
	To            string    `json:"to"`
	ActorID       uint64    `json:"actor_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Line renders the event as one human-friendly audit log line.
func (e ReservationEvent) Line() string {
	from := e.From
	if from == "" {
		from = "-"
	}
	return fmt.Sprintf("[%s] reservation %s | reservation_id=%d | space_id=%d | user_id=%d | %s -> %s | actor_id=%d\n",
		e.OccurredAt.UTC().Format(time.RFC3339), e.Action, e.ReservationID, e.SpaceID, e.UserID, from, e.To, e.ActorID)
}
