package app

import (
	"log/slog"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/cms"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/pkg/httpclient"
)

// NewCMSClient builds the CMS client behind a retrying HTTP client and a
// circuit breaker. The server and the export command share it.
func NewCMSClient(cfg config.CMSConfig, logger *slog.Logger) (*cms.Client, error) {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.Timeout()
	httpCfg.MaxRetries = cfg.MaxRetries

	doer := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultCircuitBreakerConfig("cms"),
		logger,
	)
	return cms.NewClient(doer, cms.Options{
		BaseURL:  cfg.BaseURL,
		APIToken: cfg.APIToken,
		PageSize: cfg.PageSize,
	}, logger)
}

// NewCatalog returns a loader reading from the CMS described by cfg.
func NewCatalog(cfg config.CMSConfig, logger *slog.Logger) (*catalog.Loader, *cms.Client, error) {
	client, err := NewCMSClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewLoader(client, logger), client, nil
}
