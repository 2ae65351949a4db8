package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/space-reservation/internal/apperr"
)

type errorBody struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

// respondError writes err as the JSON error body. Untyped errors are
// reported as a bare 500; their cause never reaches the client.
func respondError(c echo.Context, err error) error {
	e := apperr.As(err)
	status := e.Kind.Status()
	return c.JSON(status, errorBody{Status: "error", StatusCode: status, Message: e.Message})
}

// ErrorHandler renders errors returned by middleware and the router
// (auth failures, rate limits, unknown routes) in the same shape as
// handler errors.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := http.StatusText(he.Code)
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
			if he.Code >= http.StatusInternalServerError {
				log.Error("request failed", zap.Error(err), zap.String("path", c.Request().URL.Path))
				msg = http.StatusText(he.Code)
			}
			_ = c.JSON(he.Code, errorBody{Status: "error", StatusCode: he.Code, Message: msg})
			return
		}
		if apperr.KindOf(err) == apperr.KindInternal {
			log.Error("request failed", zap.Error(err), zap.String("path", c.Request().URL.Path))
		}
		_ = respondError(c, err)
	}
}
