package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/page"
	"github.com/utafrali/storefront/internal/render"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
)

// maxFormBytes caps the add-to-cart form body.
const maxFormBytes = 4 << 10

// Catalog loads product data. *catalog.Loader satisfies it.
type Catalog interface {
	Load(ctx context.Context, slug string) (*catalog.ProductPage, error)
	Product(ctx context.Context, slug string) (*domain.Product, error)
}

// ProductHandler serves the HTML product-detail page and its
// add-to-cart form.
type ProductHandler struct {
	catalog      Catalog
	cart         page.Dispatcher
	renderer     *render.Renderer
	notification page.Notification
	logger       *slog.Logger
}

// NewProductHandler creates a new product page handler.
func NewProductHandler(c Catalog, cart page.Dispatcher, renderer *render.Renderer, notification page.Notification, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:      c,
		cart:         cart,
		renderer:     renderer,
		notification: notification,
		logger:       logger,
	}
}

// Show handles GET /product/{slug}. The query carries the per-visit state:
// size=S selects a size, size_error=1 shows the missing-size error and
// added=1 shows the success toast.
func (h *ProductHandler) Show(w http.ResponseWriter, r *http.Request) {
	data, err := h.catalog.Load(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	q := r.URL.Query()
	c := page.NewController(&data.Product, "", h.cart, page.WithNotification(h.notification))
	if size := q.Get("size"); size != "" {
		c.ClickSize(size)
	}

	var outcome page.Outcome
	if q.Get("size_error") == "1" && !c.State().Selection.IsSelected() {
		c.Restore(page.State{ErrorShown: true})
		outcome.ScrollTo = page.ScrollTargetSizes
	}
	if q.Get("added") == "1" && c.State().Selection.IsSelected() {
		n := h.notification
		outcome.Notification = &n
	}
	if outcome != (page.Outcome{}) {
		w.Header().Set("Cache-Control", "no-store")
	}

	h.render(w, r, http.StatusOK, page.NewView(data, c.State(), outcome))
}

// AddToCart handles POST /product/{slug}/cart and redirects back to the
// page (post/redirect/get) so a reload never re-submits the add.
func (h *ProductHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, apperrors.InvalidInput("malformed form"))
		return
	}

	product, err := h.catalog.Product(r.Context(), slug)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	c := page.NewController(product, logger.CartIDFromContext(r.Context()), h.cart, page.WithNotification(h.notification))
	c.ClickSize(r.PostForm.Get("size"))

	outcome, err := c.AddToCart(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if outcome.ScrollTo != "" {
		http.Redirect(w, r, page.ProductPath(product.Slug)+"?size_error=1#"+outcome.ScrollTo, http.StatusSeeOther)
		return
	}

	label, _ := c.State().Selection.Label()
	http.Redirect(w, r, page.SizePath(product.Slug, label)+"&added=1", http.StatusSeeOther)
}

// NotFound answers unknown routes: JSON under /api/, the HTML 404 page
// elsewhere.
func (h *ProductHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	err := apperrors.NotFound("route", r.URL.Path)
	if strings.HasPrefix(r.URL.Path, "/api/") {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.renderError(w, r, err)
}

func (h *ProductHandler) render(w http.ResponseWriter, r *http.Request, status int, v page.View) {
	var buf bytes.Buffer
	if err := h.renderer.Product(&buf, v); err != nil {
		h.renderError(w, r, apperrors.Internal(fmt.Errorf("render product %q: %w", v.Product.Slug, err)))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError renders the HTML error page. Only 4xx messages reach the
// visitor; 5xx causes are logged.
func (h *ProductHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	message := "Something went wrong. Please try again in a moment."
	switch {
	case status == http.StatusNotFound:
		message = "We couldn't find the product you were looking for."
	case status < http.StatusInternalServerError:
		if appErr, ok := asAppError(err); ok {
			message = appErr.Message
		}
	default:
		l := logger.FromContext(r.Context())
		if l == slog.Default() {
			l = h.logger
		}
		l.ErrorContext(r.Context(), "product page failed",
			slog.String("error", err.Error()),
			slog.Int("status", status),
			slog.String("path", r.URL.Path),
		)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if rerr := h.renderer.Error(w, status, message); rerr != nil {
		h.logger.ErrorContext(r.Context(), "render error page failed", slog.String("error", rerr.Error()))
	}
}
