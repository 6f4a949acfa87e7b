package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/pagination"
	"github.com/utafrali/storefront/pkg/tracing"
)

const (
	serviceName  = "cms"
	productsPath = "/api/products"
	tracerName   = "github.com/utafrali/storefront/internal/cms"

	// maxResponseBody caps a decoded collection response.
	maxResponseBody = 16 << 20

	// maxPages bounds a collection walk.
	maxPages = 1000
)

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Page is one page of the product collection.
type Page struct {
	Products   []domain.Product
	Pagination pagination.Meta
}

// Client reads products from the headless CMS REST API.
type Client struct {
	http     HTTPDoer
	base     *url.URL
	token    string
	pageSize int
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Options configures a Client.
type Options struct {
	BaseURL  string
	APIToken string
	PageSize int
}

// NewClient creates a CMS client. BaseURL must be absolute.
func NewClient(doer HTTPDoer, opts Options, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse cms base url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("cms base url %q must be absolute", opts.BaseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:     doer,
		base:     base,
		token:    opts.APIToken,
		pageSize: pagination.New(opts.PageSize).PageSize,
		logger:   logger,
		tracer:   tracing.Tracer(tracerName),
	}, nil
}

// ProductsBySlug returns the products whose slug equals slug. The CMS
// enforces slug uniqueness, so the result has zero or one entries.
func (c *Client) ProductsBySlug(ctx context.Context, slug string) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("filters[slug][$eq]", slug)
	page, err := c.fetch(ctx, "by_slug", q, true)
	if err != nil {
		return nil, err
	}
	return page.Products, nil
}

// ProductsExcept returns every product whose slug differs from slug,
// walking all pages of the collection. Entries that fail validation are
// skipped with a warning.
func (c *Client) ProductsExcept(ctx context.Context, slug string) ([]domain.Product, error) {
	var products []domain.Product
	params := pagination.New(c.pageSize)
	for i := 0; i < maxPages; i++ {
		q := url.Values{}
		q.Set("filters[slug][$ne]", slug)
		params.Apply(q)
		page, err := c.fetch(ctx, "except_slug", q, false)
		if err != nil {
			return nil, err
		}
		products = append(products, page.Products...)
		if !page.Pagination.HasNext() || page.Pagination.Page < params.Page {
			return products, nil
		}
		params = params.Next()
	}
	return nil, apperrors.Upstream(serviceName, "collection too large", fmt.Errorf("more than %d pages", maxPages))
}

// ListProducts returns one page of the full collection. Entries that fail
// validation are skipped with a warning.
func (c *Client) ListProducts(ctx context.Context, p pagination.Params) (*Page, error) {
	q := url.Values{}
	p.Apply(q)
	return c.fetch(ctx, "list", q, false)
}

// PageSize is the page size the client requests when listing.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Ping issues the smallest possible collection read. It backs the
// readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("fields[0]", "slug")
	pagination.Params{Page: 1, PageSize: 1}.Apply(q)

	req, err := c.newRequest(ctx, q, false)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return httpclient.FromError(err, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, serviceName)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) newRequest(ctx context.Context, q url.Values, populate bool) (*http.Request, error) {
	if populate {
		q.Set("populate", "*")
	}
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + productsPath
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create cms request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// fetch reads one page of products. With strict set, one entry that fails
// mapping fails the whole read; otherwise it is dropped and counted.
func (c *Client) fetch(ctx context.Context, operation string, q url.Values, strict bool) (page *Page, err error) {
	ctx, span := c.tracer.Start(ctx, "cms."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("cms.operation", operation)),
	)
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		requestsTotal.WithLabelValues(operation, outcome).Inc()
		requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		span.End()
	}()

	req, err := c.newRequest(ctx, q, true)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, httpclient.FromError(err, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}

	var body productsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&body); err != nil {
		return nil, apperrors.Upstream(serviceName, "malformed response", fmt.Errorf("decode products: %w", err))
	}

	page = &Page{
		Products:   make([]domain.Product, 0, len(body.Data)),
		Pagination: body.Meta.Pagination,
	}
	for _, entry := range body.Data {
		p, err := toProduct(entry, c.base)
		if err != nil {
			if strict {
				return nil, apperrors.Upstream(serviceName, "invalid product data", err)
			}
			productsSkipped.WithLabelValues(operation).Inc()
			c.logger.WarnContext(ctx, "skipping invalid cms product",
				slog.String("operation", operation),
				slog.Int("product_id", entry.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		page.Products = append(page.Products, p)
	}

	span.SetAttributes(attribute.Int("cms.products", len(page.Products)))
	c.logger.DebugContext(ctx, "cms products fetched",
		slog.String("operation", operation),
		slog.Int("count", len(page.Products)),
		slog.Duration("duration", time.Since(start)),
	)
	return page, nil
}
