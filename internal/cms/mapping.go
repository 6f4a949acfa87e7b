package cms

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/validator"
)

// toProduct maps one CMS entry onto a validated domain.Product. Relative
// media URLs (the CMS's local upload provider) are resolved against base.
func toProduct(e productEntry, base *url.URL) (domain.Product, error) {
	a := e.Attributes
	p := domain.Product{
		ID:          e.ID,
		Slug:        a.Slug,
		Name:        a.Name,
		Subtitle:    a.Subtitle,
		Description: a.Desc,
	}

	price, err := domain.ParseMoney(a.Price.String())
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d price: %w", e.ID, err)
	}
	p.Price = price

	if s := a.OriginalPrice.String(); s != "" {
		op, err := domain.ParseMoney(s)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %d original_price: %w", e.ID, err)
		}
		p.OriginalPrice = &op
	}

	p.Images = make([]domain.Image, 0, len(a.Image.Data))
	for _, m := range a.Image.Data {
		p.Images = append(p.Images, toImage(m, base))
	}
	if a.Thumbnail.Data != nil {
		img := toImage(*a.Thumbnail.Data, base)
		p.Cover = &img
	}

	p.Sizes = make([]domain.SizeVariant, 0, len(a.Size.Data))
	for _, s := range a.Size.Data {
		p.Sizes = append(p.Sizes, domain.SizeVariant{Label: s.Size, Enabled: s.Enabled})
	}

	if err := validator.Validate(&p); err != nil {
		return domain.Product{}, fmt.Errorf("product %d: %w", e.ID, err)
	}
	return p, nil
}

func toImage(m mediaEntry, base *url.URL) domain.Image {
	return domain.Image{
		URL:    resolveURL(base, m.Attributes.URL),
		Alt:    m.Attributes.AlternativeText,
		Width:  m.Attributes.Width,
		Height: m.Attributes.Height,
	}
}

func resolveURL(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || base == nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil || ref.IsAbs() {
		return raw
	}
	return base.ResolveReference(ref).String()
}
