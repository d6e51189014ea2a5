package cart

import (
	"github.com/shopspring/decimal"

	"github.com/haritkart/storefront/pkg/types"
)

// Item is one line in the cart as the core API reports it. Negotiated lines
// carry the original catalog price alongside the agreed one and may have
// their quantity locked.
type Item struct {
	CartItemID           string         `json:"cart_item_id"`
	ProductID            string         `json:"product_id"`
	ProductName          string         `json:"product_name"`
	ProductDescription   string         `json:"product_description,omitempty"`
	SellerID             string         `json:"seller_id"`
	SellerName           string         `json:"seller_name"`
	Quantity             types.FlexInt  `json:"quantity"`
	IsNegotiated         bool           `json:"is_negotiated"`
	QuantityFixed        bool           `json:"quantity_fixed"`
	PricePerUnit         types.Decimal  `json:"price_per_unit"`
	OriginalProductPrice *types.Decimal `json:"original_product_price,omitempty"`
	TotalItemPrice       types.Decimal  `json:"total_item_price"`
	MinQty               *int           `json:"min_qty,omitempty"`
	MaxQty               *int           `json:"max_qty,omitempty"`
}

// Cart is the full cart snapshot. OverallTotalPrice is filled locally when
// the upstream omits it.
type Cart struct {
	Items             []Item        `json:"cart"`
	OverallTotalPrice types.Decimal `json:"overall_total_price"`
}

// wireCart matches the upstream payload, where the total may be absent.
type wireCart struct {
	Items             []Item         `json:"cart"`
	OverallTotalPrice *types.Decimal `json:"overall_total_price"`
}

func (w wireCart) toCart() *Cart {
	c := &Cart{Items: w.Items}
	if w.OverallTotalPrice != nil {
		c.OverallTotalPrice = *w.OverallTotalPrice
		return c
	}
	sum := decimal.Zero
	for _, item := range w.Items {
		sum = sum.Add(item.TotalItemPrice.Decimal)
	}
	c.OverallTotalPrice = types.NewDecimal(sum)
	return c
}
