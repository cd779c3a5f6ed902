package models

// CartItem is a raw client-submitted cart entry. Price is a proposal in the
// smallest currency unit; the authoritative amount always comes back from
// the gateway at fulfillment time.
type CartItem struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// CheckoutLine is a validated, gateway-agnostic line-item request produced
// by cart normalization.
type CheckoutLine struct {
	Name       string
	Image      string
	UnitAmount int64
	Quantity   int64
}
