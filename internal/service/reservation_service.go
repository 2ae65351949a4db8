package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/space-reservation/internal/apperr"
	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/queue"
	"github.com/iliyamo/space-reservation/internal/repository"
)

// ReservationStore is the persistence the lifecycle engine needs.
// *repository.Store implements it.
type ReservationStore interface {
	WithinTx(ctx context.Context, fn func(tx repository.ReservationTx) error) error
	GetReservation(ctx context.Context, id uint64) (model.ReservationDetail, error)
	ListReservationsByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error)
	ListReservations(ctx context.Context) ([]model.ReservationDetail, error)
	ListHistory(ctx context.Context, reservationID uint64) ([]model.ReservationHistory, error)
	ListAllHistory(ctx context.Context) ([]model.ReservationHistory, error)
}

// EventPublisher receives an event after each committed lifecycle change.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// CreateReservationInput is the booking request.  Zero values mean "missing".
type CreateReservationInput struct {
	SpaceID   uint64    `json:"space_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ReservationService is the reservation lifecycle engine.  Every mutating
// operation runs in one unit of work: preconditions are read and all rows
// are written inside it, and any failure rolls the whole unit back.
type ReservationService struct {
	store          ReservationStore
	transitions    model.TransitionPolicy
	overlap        OverlapChecker
	history        HistoryRecorder
	events         EventPublisher
	log            *zap.Logger
	now            func() time.Time
	publishTimeout time.Duration
}

// Option configures a ReservationService.
type Option func(*ReservationService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *ReservationService) { s.now = now }
}

func NewReservationService(store ReservationStore, transitions model.TransitionPolicy, events EventPublisher, log *zap.Logger, opts ...Option) *ReservationService {
	if events == nil {
		events = queue.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &ReservationService{
		store:          store,
		transitions:    transitions,
		events:         events,
		log:            log,
		now:            time.Now,
		publishTimeout: 3 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Transitions exposes the configured transition table.
func (s *ReservationService) Transitions() model.TransitionPolicy { return s.transitions }

// clock returns the current time at the store's precision.
func (s *ReservationService) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// Create admits a new pending reservation for the actor.  Preconditions are
// checked in order and the first failure is returned: fields present,
// end after start, start not in the past, space exists, space bookable,
// no overlapping active reservation.
func (s *ReservationService) Create(ctx context.Context, actor model.Actor, in CreateReservationInput) (model.Reservation, error) {
	if err := PolicyCreateReservation.Authorize(actor); err != nil {
		return model.Reservation{}, s.reject("create", err)
	}
	if in.SpaceID == 0 || in.StartTime.IsZero() || in.EndTime.IsZero() {
		return model.Reservation{}, s.reject("create", apperr.Validation("space_id, start_time and end_time are required"))
	}
	start := in.StartTime.UTC().Truncate(time.Millisecond)
	end := in.EndTime.UTC().Truncate(time.Millisecond)
	if !end.After(start) {
		return model.Reservation{}, s.reject("create", apperr.Validation("end_time must be after start_time"))
	}
	now := s.clock()
	if start.Before(now) {
		return model.Reservation{}, s.reject("create", apperr.Validation("start_time must not be in the past"))
	}

	var created model.Reservation
	err := s.store.WithinTx(ctx, func(tx repository.ReservationTx) error {
		space, err := tx.LockSpace(ctx, in.SpaceID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("space %d not found", in.SpaceID)
		}
		if err != nil {
			return err
		}
		if !space.Bookable() {
			return apperr.Validation("space %d is not available for booking", space.ID)
		}
		conflict, err := s.overlap.HasConflict(ctx, tx, space.ID, start, end, 0)
		if err != nil {
			return err
		}
		if conflict {
			return apperr.Conflict("space %d is already reserved in the requested time window", space.ID)
		}

		r := model.Reservation{
			SpaceID:   space.ID,
			UserID:    actor.ID,
			StartTime: start,
			EndTime:   end,
			Status:    model.StatusPending,
			CreatedAt: now,
		}
		if err := tx.InsertReservation(ctx, &r); err != nil {
			return err
		}
		if err := s.history.Created(ctx, tx, r, actor, now); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return model.Reservation{}, s.reject("create", err)
	}

	s.log.Info("reservation created",
		zap.Uint64("reservation_id", created.ID),
		zap.Uint64("space_id", created.SpaceID),
		zap.Uint64("user_id", created.UserID),
		zap.Time("start_time", created.StartTime),
		zap.Time("end_time", created.EndTime))
	s.publish(ctx, created, model.ActionCreated, "", actor, now)
	return created, nil
}

// TransitionStatus moves a reservation to newStatus on behalf of a manager
// or admin.  Terminal reservations reject every transition.
func (s *ReservationService) TransitionStatus(ctx context.Context, actor model.Actor, id uint64, newStatus model.ReservationStatus) (model.Reservation, error) {
	if err := PolicyTransitionStatus.Authorize(actor); err != nil {
		return model.Reservation{}, s.reject("transition", err)
	}
	if !newStatus.Valid() {
		return model.Reservation{}, s.reject("transition", apperr.Validation("invalid status %q", newStatus))
	}

	now := s.clock()
	var (
		updated model.Reservation
		from    model.ReservationStatus
	)
	err := s.store.WithinTx(ctx, func(tx repository.ReservationTx) error {
		r, err := tx.LockReservation(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("reservation %d not found", id)
		}
		if err != nil {
			return err
		}
		from = r.Status
		switch {
		case from.Terminal():
			return apperr.Validation("reservation %d is %s and can no longer change status", id, from)
		case from == newStatus:
			return apperr.Validation("reservation %d is already %s", id, from)
		case !s.transitions.Allowed(from, newStatus):
			return apperr.Validation("cannot change reservation status from %s to %s", from, newStatus)
		}
		if err := tx.UpdateReservationStatus(ctx, id, newStatus); err != nil {
			return err
		}
		if err := s.history.StatusChanged(ctx, tx, r, from, newStatus, actor, now); err != nil {
			return err
		}
		r.Status = newStatus
		updated = r
		return nil
	})
	if err != nil {
		return model.Reservation{}, s.reject("transition", err)
	}

	s.log.Info("reservation status changed",
		zap.Uint64("reservation_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(newStatus)),
		zap.Uint64("actor_id", actor.ID))
	s.publish(ctx, updated, model.StatusChangedAction(from, newStatus), from, actor, now)
	return updated, nil
}

// Cancel cancels a reservation.  Regular users may cancel only their own.
// Terminal reservations are rejected first, then windows that have ended.
func (s *ReservationService) Cancel(ctx context.Context, actor model.Actor, id uint64) (model.Reservation, error) {
	if err := PolicyCancelReservation.Authorize(actor); err != nil {
		return model.Reservation{}, s.reject("cancel", err)
	}

	now := s.clock()
	var (
		canceled model.Reservation
		from     model.ReservationStatus
	)
	err := s.store.WithinTx(ctx, func(tx repository.ReservationTx) error {
		r, err := tx.LockReservation(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("reservation %d not found", id)
		}
		if err != nil {
			return err
		}
		if err := PolicyCancelReservation.AuthorizeOn(actor, ReservationSubject(r)); err != nil {
			return err
		}
		from = r.Status
		switch {
		case from == model.StatusCanceled:
			return apperr.Validation("reservation %d is already canceled", id)
		case from == model.StatusCompleted:
			return apperr.Validation("reservation %d is completed and cannot be canceled", id)
		case now.After(r.EndTime):
			return apperr.Validation("reservation %d has already ended", id)
		}
		if err := tx.UpdateReservationStatus(ctx, id, model.StatusCanceled); err != nil {
			return err
		}
		if err := s.history.Cancelled(ctx, tx, r, actor, now); err != nil {
			return err
		}
		r.Status = model.StatusCanceled
		canceled = r
		return nil
	})
	if err != nil {
		return model.Reservation{}, s.reject("cancel", err)
	}

	s.log.Info("reservation canceled",
		zap.Uint64("reservation_id", id),
		zap.String("from", string(from)),
		zap.Uint64("actor_id", actor.ID))
	s.publish(ctx, canceled, model.ActionCancelled, from, actor, now)
	return canceled, nil
}

// Get returns one reservation.  Regular users may only read their own.
func (s *ReservationService) Get(ctx context.Context, actor model.Actor, id uint64) (model.ReservationDetail, error) {
	if err := PolicyReadReservation.Authorize(actor); err != nil {
		return model.ReservationDetail{}, s.reject("get", err)
	}
	d, err := s.load(ctx, actor, id)
	if err != nil {
		return model.ReservationDetail{}, s.reject("get", err)
	}
	return d, nil
}

// ListMine returns the actor's own reservations.
func (s *ReservationService) ListMine(ctx context.Context, actor model.Actor) ([]model.ReservationDetail, error) {
	if err := PolicyAuthenticated.Authorize(actor); err != nil {
		return nil, s.reject("list mine", err)
	}
	out, err := s.store.ListReservationsByUser(ctx, actor.ID)
	if err != nil {
		return nil, s.reject("list mine", err)
	}
	return out, nil
}

// ListAll returns every reservation; managers and admins only.
func (s *ReservationService) ListAll(ctx context.Context, actor model.Actor) ([]model.ReservationDetail, error) {
	if err := PolicyListReservations.Authorize(actor); err != nil {
		return nil, s.reject("list", err)
	}
	out, err := s.store.ListReservations(ctx)
	if err != nil {
		return nil, s.reject("list", err)
	}
	return out, nil
}

// History returns the audit trail of one reservation, oldest first.
func (s *ReservationService) History(ctx context.Context, actor model.Actor, id uint64) ([]model.ReservationHistory, error) {
	if err := PolicyReadReservation.Authorize(actor); err != nil {
		return nil, s.reject("history", err)
	}
	if _, err := s.load(ctx, actor, id); err != nil {
		return nil, s.reject("history", err)
	}
	out, err := s.store.ListHistory(ctx, id)
	if err != nil {
		return nil, s.reject("history", err)
	}
	return out, nil
}

// AllHistory returns every history record, newest first; admins only.
func (s *ReservationService) AllHistory(ctx context.Context, actor model.Actor) ([]model.ReservationHistory, error) {
	if err := PolicyReadAllHistory.Authorize(actor); err != nil {
		return nil, s.reject("all history", err)
	}
	out, err := s.store.ListAllHistory(ctx)
	if err != nil {
		return nil, s.reject("all history", err)
	}
	return out, nil
}

// load fetches a reservation and applies the read ownership rule.
func (s *ReservationService) load(ctx context.Context, actor model.Actor, id uint64) (model.ReservationDetail, error) {
	d, err := s.store.GetReservation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return d, apperr.NotFound("reservation %d not found", id)
	}
	if err != nil {
		return d, err
	}
	if err := PolicyReadReservation.AuthorizeOn(actor, ReservationSubject(d.Reservation)); err != nil {
		return d, err
	}
	return d, nil
}

// reject logs err and returns it as a typed error.  Typed rejections are
// expected outcomes and logged at debug; anything else is a store failure.
func (s *ReservationService) reject(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		s.log.Debug("reservation request rejected",
			zap.String("op", op), zap.String("kind", ae.Kind.String()), zap.String("reason", ae.Message))
		return ae
	}
	s.log.Error("reservation store failure", zap.String("op", op), zap.Error(err))
	return apperr.Internal(err)
}

// publish emits the lifecycle event.  The change is already committed, so a
// broker failure is logged and otherwise ignored.
func (s *ReservationService) publish(ctx context.Context, r model.Reservation, action string, from model.ReservationStatus, actor model.Actor, at time.Time) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	ev := queue.ReservationEvent{
		ReservationID: r.ID,
		SpaceID:       r.SpaceID,
		UserID:        r.UserID,
		Action:        action,
		From:          string(from),
		To:            string(r.Status),
		ActorID:       actor.ID,
		OccurredAt:    at,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish reservation event failed",
			zap.Uint64("reservation_id", r.ID), zap.String("action", action), zap.Error(err))
	}
}
