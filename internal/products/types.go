package products

import "github.com/haritkart/storefront/pkg/types"

// Product mirrors the catalog entry as the core API serves it. Prices and
// ratings travel as strings on the wire.
type Product struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Price          types.Decimal `json:"price"`
	StockQuantity  int           `json:"stock_quantity"`
	SellerID       string        `json:"seller_id"`
	SellerName     string        `json:"seller_name,omitempty"`
	CategoryID     string        `json:"category_id"`
	CategoryName   string        `json:"category_name,omitempty"`
	Negotiate      bool          `json:"negotiate"`
	Description    string        `json:"description,omitempty"`
	KeyHighlights  []string      `json:"key_highlights,omitempty"`
	MinQty         int           `json:"min_qty"`
	MaxQty         int           `json:"max_qty"`
	CreatedAt      string        `json:"created_at,omitempty"`
	Verified       bool          `json:"verified"`
	RatingsAverage types.Decimal `json:"ratings_average"`
	Images         []string      `json:"images,omitempty"`
	Reviews        []Review      `json:"reviews,omitempty"`
}

type Review struct {
	ID        string `json:"id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	CreatedAt string `json:"created_at"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page is one page of catalog results with the pagination counters the
// core API reports alongside the data.
type Page struct {
	Products    []Product `json:"products"`
	Results     int       `json:"results"`
	Total       int       `json:"total"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
}

// ListParams filters and paginates the catalog. Category switches to the
// category-scoped endpoint; everything else is passed as query parameters.
type ListParams struct {
	Category  string
	Search    string
	Sort      string
	Page      int
	Limit     int
	Verified  *bool
	Negotiate *bool
}

// CreateInput is a farmer's new listing.
type CreateInput struct {
	Name          string        `json:"name"`
	Price         types.Decimal `json:"price"`
	StockQuantity int           `json:"stock_quantity"`
	CategoryID    string        `json:"category_id"`
	Negotiate     bool          `json:"negotiate"`
	Description   string        `json:"description,omitempty"`
	KeyHighlights []string      `json:"key_highlights,omitempty"`
	MinQty        int           `json:"min_qty"`
	MaxQty        int           `json:"max_qty"`
}

// UpdateInput carries the fields a farmer may change. Nil means unchanged.
type UpdateInput struct {
	Name          *string        `json:"name,omitempty"`
	Price         *types.Decimal `json:"price,omitempty"`
	StockQuantity *int           `json:"stock_quantity,omitempty"`
	CategoryID    *string        `json:"category_id,omitempty"`
	Negotiate     *bool          `json:"negotiate,omitempty"`
	Description   *string        `json:"description,omitempty"`
	KeyHighlights []string       `json:"key_highlights,omitempty"`
	MinQty        *int           `json:"min_qty,omitempty"`
	MaxQty        *int           `json:"max_qty,omitempty"`
}
