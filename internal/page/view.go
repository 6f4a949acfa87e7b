package page

import (
	"net/url"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
)

// View is everything the product template renders.
type View struct {
	Product      ProductView
	Sizes        []SizeView
	ErrorShown   bool
	ScrollTo     string
	Notification *Notification
	Related      []Card
	CartAction   string
}

// ProductView is the main product block.
type ProductView struct {
	Slug          string
	Name          string
	Subtitle      string
	Description   string
	Price         domain.Money
	OriginalPrice *domain.Money
	Discount      int
	HasDiscount   bool
	Images        []domain.Image
}

// SizeView is one cell of the size grid.
type SizeView struct {
	Label    string
	Enabled  bool
	Selected bool
	Href     string
}

// Card is one entry of the related-products list.
type Card struct {
	Slug          string
	Name          string
	Href          string
	Thumbnail     domain.Image
	Price         domain.Money
	OriginalPrice *domain.Money
	Discount      int
	HasDiscount   bool
}

// ProductPath is the canonical path of a product page.
func ProductPath(slug string) string {
	return "/product/" + url.PathEscape(slug)
}

// CartPath is the form target of the add-to-cart button.
func CartPath(slug string) string {
	return ProductPath(slug) + "/cart"
}

// SizePath is the link that selects size on the product page.
func SizePath(slug, size string) string {
	return ProductPath(slug) + "?" + url.Values{"size": {size}}.Encode()
}

// NewView builds the view model for data in state s. outcome may be the
// zero Outcome.
func NewView(data *catalog.ProductPage, s State, outcome Outcome) View {
	p := &data.Product
	v := View{
		Product: ProductView{
			Slug:          p.Slug,
			Name:          p.Name,
			Subtitle:      p.Subtitle,
			Description:   p.Description,
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			Images:        p.Images,
		},
		ErrorShown:   s.ErrorShown,
		ScrollTo:     outcome.ScrollTo,
		Notification: outcome.Notification,
		CartAction:   CartPath(p.Slug),
	}
	v.Product.Discount, v.Product.HasDiscount = p.Discount()

	v.Sizes = make([]SizeView, 0, len(p.Sizes))
	for _, size := range p.Sizes {
		sv := SizeView{
			Label:    size.Label,
			Enabled:  size.Enabled,
			Selected: s.Selection.Is(size.Label),
		}
		if size.Enabled {
			sv.Href = SizePath(p.Slug, size.Label)
		}
		v.Sizes = append(v.Sizes, sv)
	}

	v.Related = make([]Card, 0, len(data.Related))
	for i := range data.Related {
		r := &data.Related[i]
		c := Card{
			Slug:          r.Slug,
			Name:          r.Name,
			Href:          ProductPath(r.Slug),
			Thumbnail:     r.Thumbnail(),
			Price:         r.Price,
			OriginalPrice: r.OriginalPrice,
		}
		c.Discount, c.HasDiscount = r.Discount()
		v.Related = append(v.Related, c)
	}

	return v
}
