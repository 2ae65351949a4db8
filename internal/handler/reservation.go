package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-reservation/internal/apperr"
	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/service"
)

// ReservationService is the reservation lifecycle engine as seen by HTTP.
type ReservationService interface {
	Create(ctx context.Context, actor model.Actor, in service.CreateReservationInput) (model.Reservation, error)
	TransitionStatus(ctx context.Context, actor model.Actor, id uint64, status model.ReservationStatus) (model.Reservation, error)
	Cancel(ctx context.Context, actor model.Actor, id uint64) (model.Reservation, error)
	Get(ctx context.Context, actor model.Actor, id uint64) (model.ReservationDetail, error)
	ListMine(ctx context.Context, actor model.Actor) ([]model.ReservationDetail, error)
	ListAll(ctx context.Context, actor model.Actor) ([]model.ReservationDetail, error)
	History(ctx context.Context, actor model.Actor, id uint64) ([]model.ReservationHistory, error)
	AllHistory(ctx context.Context, actor model.Actor) ([]model.ReservationHistory, error)
}

// ReservationHandler serves /api/reservations. Every route expects JWTAuth
// to have run; authorization itself is decided by the service.
type ReservationHandler struct {
	Reservations ReservationService
}

func NewReservationHandler(r ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: r}
}

type statusReq struct {
	Status model.ReservationStatus `json:"status"`
}

// Create handles POST /api/reservations. Field checks are left to the
// service so they run after authorization and in a fixed order.
func (h *ReservationHandler) Create(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var in service.CreateReservationInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, apperr.Validation("invalid request body: start_time and end_time must be RFC 3339 timestamps"))
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	r, err := h.Reservations.Create(ctx, actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// ListMine handles GET /api/reservations/my.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Reservations.ListMine(ctx, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListAll handles GET /api/reservations (manager, admin).
func (h *ReservationHandler) ListAll(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Reservations.ListAll(ctx, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReservationHandler) Get(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	r, err := h.Reservations.Get(ctx, actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// UpdateStatus handles PUT /api/reservations/:id/status with {"status": "..."}.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	r, err := h.Reservations.TransitionStatus(ctx, actor, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Cancel handles PUT /api/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	r, err := h.Reservations.Cancel(ctx, actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// History handles GET /api/reservations/:id/history, oldest entry first.
func (h *ReservationHandler) History(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Reservations.History(ctx, actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// AllHistory handles GET /api/reservations/history (admin), newest first.
func (h *ReservationHandler) AllHistory(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Reservations.AllHistory(ctx, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
