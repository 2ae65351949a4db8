package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/space-reservation/internal/apperr"
	"github.com/iliyamo/space-reservation/internal/repository"
)

// storeErr converts a repository error into a typed error.  ErrNotFound
// becomes a NotFound with notFoundMsg; typed errors pass through; anything
// else is logged and reported as Internal.
func storeErr(log *zap.Logger, op string, err error, notFoundMsg string, args ...any) error {
	var ae *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(notFoundMsg, args...)
	}
	log.Error("store failure", zap.String("op", op), zap.Error(err))
	return apperr.Internal(err)
}
