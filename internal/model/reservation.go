package model

import (
	"fmt"
	"time"
)

// ReservationStatus is a state of the reservation lifecycle.  Pending is the
// only initial state; canceled and completed are terminal.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCanceled  ReservationStatus = "canceled"
	StatusCompleted ReservationStatus = "completed"
)

// ActiveStatuses are the statuses that block other reservations of the same space.
var ActiveStatuses = []ReservationStatus{StatusPending, StatusConfirmed}

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCanceled || s == StatusCompleted
}

// Blocking reports whether a reservation in status s occupies its window.
func (s ReservationStatus) Blocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Reservation is a user's claim on a space for [StartTime, EndTime).
// Rows are never deleted; terminal reservations stay for audit.
type Reservation struct {
	ID        uint64            `json:"id"`
	SpaceID   uint64            `json:"space_id"`
	UserID    uint64            `json:"user_id"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// Overlaps reports whether the reservation window shares any instant with
// [start, end).  Touching endpoints do not overlap.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return Overlaps(r.StartTime, r.EndTime, start, end)
}

// Overlaps is the half-open interval intersection test for [aStart, aEnd)
// and [bStart, bEnd).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ReservationDetail is a reservation joined with its space and owner.
type ReservationDetail struct {
	Reservation
	Space SpaceRef    `json:"space"`
	User  UserSummary `json:"user"`
}

// SpaceRef is the trimmed space shape embedded in reservation responses.
type SpaceRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// History actions.  Status changes use StatusChangedAction.
const (
	ActionCreated   = "created"
	ActionCancelled = "cancelled"
)

// StatusChangedAction builds the history label for a from → to transition.
func StatusChangedAction(from, to ReservationStatus) string {
	return fmt.Sprintf("status_changed_from_%s_to_%s", from, to)
}

// ReservationHistory is one append-only audit record.  ActionUser is nil
// when the acting user has since been deleted.
type ReservationHistory struct {
	ID            uint64    `json:"id"`
	ReservationID uint64    `json:"reservation_id"`
	Action        string    `json:"action"`
	ActionUser    *uint64   `json:"action_user"`
	Details       string    `json:"details"`
	ActionDate    time.Time `json:"action_date"`
}
