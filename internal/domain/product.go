package domain

// Product is a catalogue entry as published by the CMS. Products are
// read-only for the storefront.
type Product struct {
	ID            int           `json:"id" validate:"gt=0"`
	Slug          string        `json:"slug" validate:"required"`
	Name          string        `json:"name" validate:"required,max=200"`
	Subtitle      string        `json:"subtitle" validate:"max=300"`
	Description   string        `json:"description"`
	Price         Money         `json:"price" validate:"gt=0"`
	OriginalPrice *Money        `json:"original_price,omitempty" validate:"omitempty,gt=0,gtefield=Price"`
	Images        []Image       `json:"images" validate:"dive"`
	Cover         *Image        `json:"cover,omitempty"`
	Sizes         []SizeVariant `json:"sizes" validate:"dive"`
}

// Image is one entry of a product's ordered gallery.
type Image struct {
	URL    string `json:"url" validate:"required"`
	Alt    string `json:"alt,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// SizeVariant is one purchasable size. Disabled variants are shown but
// cannot be selected.
type SizeVariant struct {
	Label   string `json:"label" validate:"required"`
	Enabled bool   `json:"enabled"`
}

// Discount returns the percentage off the original price, rounded half up
// and then clamped to [1, 99] so a real markdown never shows as 0% or 100%
// (10.00 down to 9.99 reports 1, not 0). ok is false when there is no
// original price or it does not exceed the current price, in which case no
// discount is rendered.
func (p *Product) Discount() (pct int, ok bool) {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price {
		return 0, false
	}
	pct, err := DiscountPercentage(*p.OriginalPrice, p.Price)
	if err != nil {
		return 0, false
	}
	return pct, true
}

// Thumbnail returns the dedicated cover image when the CMS provides one,
// else the first gallery image, else the zero Image.
func (p *Product) Thumbnail() Image {
	if p.Cover != nil {
		return *p.Cover
	}
	if len(p.Images) == 0 {
		return Image{}
	}
	return p.Images[0]
}

// Size looks up a variant by label.
func (p *Product) Size(label string) (SizeVariant, bool) {
	for _, s := range p.Sizes {
		if s.Label == label {
			return s, true
		}
	}
	return SizeVariant{}, false
}

// CanSelect reports whether label names an enabled variant.
func (p *Product) CanSelect(label string) bool {
	s, ok := p.Size(label)
	return ok && s.Enabled
}
