// Package catalog assembles everything a product page needs from the CMS,
// independent of how the page is served.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/utafrali/storefront/internal/cms"
	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/pagination"
	"github.com/utafrali/storefront/pkg/slug"
	"github.com/utafrali/storefront/pkg/tracing"
)

// maxPages bounds Paths so a CMS reporting a bogus pageCount cannot keep
// the walk going forever.
const maxPages = 1000

// ProductSource is the subset of the CMS client the loader reads through.
type ProductSource interface {
	ProductsBySlug(ctx context.Context, slug string) ([]domain.Product, error)
	ProductsExcept(ctx context.Context, slug string) ([]domain.Product, error)
	ListProducts(ctx context.Context, p pagination.Params) (*cms.Page, error)
	PageSize() int
}

// ProductPage is the data behind one product-detail page.
type ProductPage struct {
	Product domain.Product
	Related []domain.Product
}

// Loader fetches page data.
type Loader struct {
	source ProductSource
	logger *slog.Logger
}

// NewLoader creates a Loader reading from source.
func NewLoader(source ProductSource, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{source: source, logger: logger}
}

// Load fetches the product identified by productSlug and every other
// product, concurrently. Either read failing fails the load. A slug that
// is not URL-safe or matches nothing yields a NOT_FOUND AppError.
func (l *Loader) Load(ctx context.Context, productSlug string) (*ProductPage, error) {
	if !slug.Valid(productSlug) {
		return nil, apperrors.NotFound("product", productSlug)
	}

	ctx, span := tracing.Tracer("github.com/utafrali/storefront/internal/catalog").Start(ctx, "catalog.Load")
	defer span.End()
	span.SetAttributes(attribute.String("product.slug", productSlug))

	var (
		matches []domain.Product
		others  []domain.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = l.source.ProductsBySlug(gctx, productSlug)
		if err != nil {
			return fmt.Errorf("fetch product %q: %w", productSlug, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		others, err = l.source.ProductsExcept(gctx, productSlug)
		if err != nil {
			return fmt.Errorf("fetch related products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if len(matches) == 0 {
		return nil, apperrors.NotFound("product", productSlug)
	}
	if len(matches) > 1 {
		l.logger.WarnContext(ctx, "cms returned several products for one slug",
			slog.String("slug", productSlug),
			slog.Int("count", len(matches)),
		)
	}

	related := make([]domain.Product, 0, len(others))
	for _, p := range others {
		if p.Slug == productSlug {
			continue
		}
		if !slug.Valid(p.Slug) {
			l.logger.WarnContext(ctx, "dropping related product with unusable slug",
				slog.Int("product_id", p.ID),
				slog.String("slug", p.Slug),
			)
			continue
		}
		related = append(related, p)
	}

	span.SetAttributes(attribute.Int("catalog.related", len(related)))
	return &ProductPage{Product: matches[0], Related: related}, nil
}

// Product fetches just the product identified by productSlug, for actions
// that do not render related products.
func (l *Loader) Product(ctx context.Context, productSlug string) (*domain.Product, error) {
	if !slug.Valid(productSlug) {
		return nil, apperrors.NotFound("product", productSlug)
	}
	matches, err := l.source.ProductsBySlug(ctx, productSlug)
	if err != nil {
		return nil, fmt.Errorf("fetch product %q: %w", productSlug, err)
	}
	if len(matches) == 0 {
		return nil, apperrors.NotFound("product", productSlug)
	}
	return &matches[0], nil
}

// Paths enumerates every product slug known to the CMS, walking all pages
// of the collection. Duplicates and slugs that are not URL-safe are
// dropped with a warning.
func (l *Loader) Paths(ctx context.Context) ([]string, error) {
	var (
		slugs []string
		seen  = make(map[string]struct{})
	)
	params := pagination.New(l.source.PageSize())
	for i := 0; i < maxPages; i++ {
		page, err := l.source.ListProducts(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("list products page %d: %w", params.Page, err)
		}
		for _, p := range page.Products {
			if !slug.Valid(p.Slug) {
				l.logger.WarnContext(ctx, "skipping product with unusable slug",
					slog.Int("product_id", p.ID),
					slog.String("slug", p.Slug),
				)
				continue
			}
			if _, dup := seen[p.Slug]; dup {
				continue
			}
			seen[p.Slug] = struct{}{}
			slugs = append(slugs, p.Slug)
		}
		if !page.Pagination.HasNext() || len(page.Products) == 0 {
			return slugs, nil
		}
		params = params.Next()
	}
	return nil, fmt.Errorf("list products: more than %d pages", maxPages)
}
