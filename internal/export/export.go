// Package export pre-renders product pages to static HTML files.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/page"
	"github.com/utafrali/storefront/internal/render"
)

// PageLoader is the catalog as seen by the exporter.
type PageLoader interface {
	Load(ctx context.Context, slug string) (*catalog.ProductPage, error)
	Paths(ctx context.Context) ([]string, error)
}

// Result lists what an export wrote.
type Result struct {
	Slugs    []string
	Duration time.Duration
}

// Exporter writes OutDir/product/<slug>/index.html for every slug.
type Exporter struct {
	loader      PageLoader
	renderer    *render.Renderer
	outDir      string
	concurrency int
	logger      *slog.Logger
}

// New creates an Exporter. concurrency below one means one.
func New(loader PageLoader, renderer *render.Renderer, outDir string, concurrency int, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		loader:      loader,
		renderer:    renderer,
		outDir:      outDir,
		concurrency: max(concurrency, 1),
		logger:      logger,
	}
}

// Run exports slugs, or every slug the CMS enumerates when slugs is
// empty. The first failure cancels the remaining work and is returned.
// Each page is written atomically, so a failed run never leaves a
// truncated file behind.
func (e *Exporter) Run(ctx context.Context, slugs []string) (*Result, error) {
	start := time.Now()
	if len(slugs) == 0 {
		var err error
		slugs, err = e.loader.Paths(ctx)
		if err != nil {
			return nil, fmt.Errorf("enumerate products: %w", err)
		}
	}

	var (
		mu      sync.Mutex
		written = make([]string, 0, len(slugs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, slug := range slugs {
		g.Go(func() error {
			if err := e.exportOne(gctx, slug); err != nil {
				return fmt.Errorf("export %q: %w", slug, err)
			}
			mu.Lock()
			written = append(written, slug)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(written)
	res := &Result{Slugs: written, Duration: time.Since(start)}
	e.logger.InfoContext(ctx, "export complete",
		slog.Int("pages", len(written)),
		slog.String("out_dir", e.outDir),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

func (e *Exporter) exportOne(ctx context.Context, slug string) error {
	data, err := e.loader.Load(ctx, slug)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := e.renderer.Product(&buf, page.NewView(data, page.State{}, page.Outcome{})); err != nil {
		return err
	}

	dir := filepath.Join(e.outDir, "product", data.Product.Slug)
	if err := writeFileAtomic(filepath.Join(dir, "index.html"), buf.Bytes()); err != nil {
		return err
	}
	e.logger.DebugContext(ctx, "page exported", slog.String("slug", slug))
	return nil
}

// writeFileAtomic writes to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.html")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
