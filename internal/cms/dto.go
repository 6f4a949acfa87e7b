package cms

import (
	"encoding/json"

	"github.com/utafrali/storefront/pkg/pagination"
)

// productsResponse is the collection envelope returned by
// GET /api/products.
type productsResponse struct {
	Data []productEntry `json:"data"`
	Meta struct {
		Pagination pagination.Meta `json:"pagination"`
	} `json:"meta"`
}

type productEntry struct {
	ID         int               `json:"id"`
	Attributes productAttributes `json:"attributes"`
}

type productAttributes struct {
	Slug          string      `json:"slug"`
	Name          string      `json:"name"`
	Subtitle      string      `json:"subtitle"`
	Price         json.Number `json:"price"`
	OriginalPrice json.Number `json:"original_price"`
	Desc          string      `json:"desc"`
	Image         mediaList   `json:"image"`
	Thumbnail     mediaSingle `json:"thumbnail"`
	Size          sizeList    `json:"size"`
}

type mediaList struct {
	Data []mediaEntry `json:"data"`
}

type mediaSingle struct {
	Data *mediaEntry `json:"data"`
}

type mediaEntry struct {
	ID         int `json:"id"`
	Attributes struct {
		URL             string `json:"url"`
		AlternativeText string `json:"alternativeText"`
		Width           int    `json:"width"`
		Height          int    `json:"height"`
	} `json:"attributes"`
}

// sizeList is the size component. Every entry carries the label and
// whether the variant can be bought.
type sizeList struct {
	Data []struct {
		Size    string `json:"size"`
		Enabled bool   `json:"enabled"`
	} `json:"data"`
}
