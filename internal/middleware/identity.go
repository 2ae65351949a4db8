package middleware

// identity.go holds the context keys shared by the middleware in this
// package and the handlers that read the authenticated actor.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-reservation/internal/model"
)

const actorKey = "actor"

// SetActor stores the verified actor on the request context.
func SetActor(c echo.Context, a model.Actor) { c.Set(actorKey, a) }

// ActorFrom returns the actor stored by JWTAuth. ok is false on
// unauthenticated requests.
func ActorFrom(c echo.Context) (model.Actor, bool) {
	a, ok := c.Get(actorKey).(model.Actor)
	return a, ok && a.ID != 0
}

// userID is the actor id as a key fragment, or "anon".
func userID(c echo.Context) string {
	if a, ok := ActorFrom(c); ok {
		return strconv.FormatUint(a.ID, 10)
	}
	return "anon"
}
