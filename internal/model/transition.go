package model

// TransitionPolicy is the explicit status transition table used by the
// lifecycle engine.  AllowRevertToPending opens confirmed → pending.
type TransitionPolicy struct {
	AllowRevertToPending bool
}

// Allowed reports whether a reservation in status from may move to to.
// Same-status moves are never transitions.
func (p TransitionPolicy) Allowed(from, to ReservationStatus) bool {
	if from == to || !to.Valid() {
		return false
	}
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCanceled || to == StatusCompleted
	case StatusConfirmed:
		if to == StatusPending {
			return p.AllowRevertToPending
		}
		return to == StatusCanceled || to == StatusCompleted
	}
	return false
}

// Targets lists the statuses reachable from from, in declaration order.
func (p TransitionPolicy) Targets(from ReservationStatus) []ReservationStatus {
	var out []ReservationStatus
	for _, to := range []ReservationStatus{StatusPending, StatusConfirmed, StatusCanceled, StatusCompleted} {
		if p.Allowed(from, to) {
			out = append(out, to)
		}
	}
	return out
}
