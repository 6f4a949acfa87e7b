package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
)

const (
	cartCookieName = "cart_id"
	cartHeaderName = "X-Cart-ID"
)

// CookieConfig controls the cart cookie.
type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

// CartID resolves the visitor's cart id and stores it in the request
// context. An explicit X-Cart-ID header wins and must be a UUID; otherwise
// the cart_id cookie is used, and a fresh id is issued when the cookie is
// missing or malformed.
func CartID(cfg CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if h := r.Header.Get(cartHeaderName); h != "" {
				parsed, ok := httputil.ParseUUID(w, cartHeaderName, h)
				if !ok {
					return
				}
				id = parsed.String()
			} else if c, err := r.Cookie(cartCookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cartCookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(cfg.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := logger.WithCartID(r.Context(), id)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With("cart_id", id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
