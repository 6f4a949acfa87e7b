package http

import (
	"errors"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func asAppError(err error) (*apperrors.AppError, bool) {
	var appErr *apperrors.AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
