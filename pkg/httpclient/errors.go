package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker/v2"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const maxErrorBody = 1 << 20

// UpstreamErrorResponse is the error envelope returned by the content API:
//
//	{"data":null,"error":{"status":404,"name":"NotFoundError","message":"Not Found"}}
type UpstreamErrorResponse struct {
	Error *struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx response and translates it
// into an AppError. The body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apperrors.Upstream(serviceName,
			fmt.Sprintf("status %d", resp.StatusCode),
			fmt.Errorf("read error body: %w", err))
	}
	return MapStatus(resp.StatusCode, body, serviceName)
}

// FromError converts a transport error returned by Client or
// CircuitBreakerClient into an AppError. Errors that are already AppErrors
// pass through unchanged.
func FromError(err error, serviceName string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return MapStatus(statusErr.StatusCode, statusErr.Body, serviceName)
	case errors.Is(err, ErrCircuitOpen), errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperrors.ServiceUnavailable(serviceName+" is unavailable", err)
	default:
		return apperrors.Upstream(serviceName, "request failed", err)
	}
}

// MapStatus maps an upstream status code and body onto an AppError,
// preferring the message from a structured error body when present.
func MapStatus(status int, body []byte, serviceName string) error {
	message := http.StatusText(status)
	var upstream UpstreamErrorResponse
	if json.Unmarshal(body, &upstream) == nil && upstream.Error != nil && upstream.Error.Message != "" {
		message = upstream.Error.Message
	}

	cause := fmt.Errorf("%s returned status %d", serviceName, status)
	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: fmt.Sprintf("%s: %s", serviceName, message),
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", serviceName, message))
	case status == http.StatusTooManyRequests, status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(fmt.Sprintf("%s: %s", serviceName, message), cause)
	default:
		return apperrors.Upstream(serviceName, message, cause)
	}
}
