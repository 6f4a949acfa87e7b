// Command export pre-renders every product page to static HTML.
//
//	export --out dist
//	export --slug tee --slug cap
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/utafrali/storefront/internal/app"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/export"
	"github.com/utafrali/storefront/internal/render"
	"github.com/utafrali/storefront/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		outDir      string
		slugs       []string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Render product pages to static HTML",
		Long:          "Fetches every product slug from the CMS and writes OUT/product/<slug>/index.html. Any failure aborts the export.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cmsCfg, err := config.LoadExport()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.OutDir = outDir
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Concurrency = concurrency
			}

			log := logger.New("storefront-export", cfg.LogLevel)
			err = run(cmd.Context(), cfg, cmsCfg, slugs, log)
			if err != nil {
				log.Error("export failed", slog.String("error", err.Error()))
				fmt.Fprintln(cmd.ErrOrStderr(), "export failed:", err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "dist", "output directory (overrides EXPORT_OUT_DIR)")
	cmd.Flags().StringArrayVar(&slugs, "slug", nil, "export only this slug (repeatable)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "pages rendered in parallel (overrides EXPORT_CONCURRENCY)")
	return cmd
}

func run(ctx context.Context, cfg *config.ExportConfig, cmsCfg config.CMSConfig, slugs []string, log *slog.Logger) error {
	loader, _, err := app.NewCatalog(cmsCfg, log)
	if err != nil {
		return fmt.Errorf("create cms client: %w", err)
	}
	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	res, err := export.New(loader, renderer, cfg.OutDir, cfg.Concurrency, log).Run(ctx, slugs)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d pages to %s in %s\n", len(res.Slugs), cfg.OutDir, res.Duration.Round(time.Millisecond))
	return nil
}
