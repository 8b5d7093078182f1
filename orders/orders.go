package orders

import (
	"merchant-dashboard/backend"
)

// ItemKind distinguishes the two line-item variants the backend produces.
type ItemKind string

const (
	ItemRegular    ItemKind = "regular"
	ItemCustomCake ItemKind = "custom_cake"
)

// Item is one normalized order line. Regular items carry name, quantity and
// unit price; custom cakes carry the extended cake fields instead of a name.
type Item struct {
	Kind      ItemKind
	Name      string
	Quantity  int
	UnitPrice float64

	Weight       string
	Flavour      string
	Message      string
	DeliveryTime string
}

// Subtotal is quantity times unit price.
func (i Item) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// Order is the single normalized shape every renderer and handler works
// against. The backend historically produced two differently-keyed record
// shapes; Normalize is the only place raw payload fields are read.
type Order struct {
	ID              string
	CustomerHash    string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Placed          string
	Type            string
	Total           float64
	Items           []Item
	Confirmed       bool
}

// ShortID is the 8-character display prefix of the order ID.
func (o Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

// ItemSum is the sum of item subtotals.
func (o Order) ItemSum() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += item.Subtotal()
	}
	return sum
}

// TotalPolicy names the reconciliation rule applied when per-item data
// disagrees with the server-stated total.
type TotalPolicy int

const (
	// TotalRecomputed trusts the sum of item subtotals whenever items are
	// present. This is the default policy.
	TotalRecomputed TotalPolicy = iota

	// TotalServerAuthoritative always displays the backend's total.
	TotalServerAuthoritative
)

// DisplayTotal applies the policy. An order without item data always falls
// back to the server total.
func (o Order) DisplayTotal(policy TotalPolicy) float64 {
	if policy == TotalServerAuthoritative || len(o.Items) == 0 {
		return o.Total
	}
	return o.ItemSum()
}

// Normalize maps a raw backend payload into the unified Order schema. The
// confirmed flag records which queue the batch came from.
func Normalize(resp backend.OrdersResponse, confirmed bool) []Order {
	out := make([]Order, 0, len(resp.Orders))
	for _, raw := range resp.Orders {
		order := Order{
			ID:              raw.OrderID,
			CustomerHash:    raw.CustomerHash,
			CustomerName:    raw.CustomerName,
			CustomerPhone:   raw.CustomerPhone,
			CustomerAddress: raw.CustomerAddress,
			Placed:          raw.Timestamp,
			Type:            raw.OrderType,
			Total:           raw.Total,
			Confirmed:       confirmed,
			Items:           make([]Item, 0, len(raw.Items)),
		}
		for _, rawItem := range raw.Items {
			order.Items = append(order.Items, normalizeItem(rawItem))
		}
		out = append(out, order)
	}
	return out
}

func normalizeItem(raw backend.RawItem) Item {
	if raw.Type == string(ItemCustomCake) {
		quantity := raw.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		return Item{
			Kind:         ItemCustomCake,
			Quantity:     quantity,
			UnitPrice:    raw.Price,
			Weight:       raw.Weight,
			Flavour:      raw.Flavour,
			Message:      raw.CakeMessage,
			DeliveryTime: raw.DeliveryDatetime,
		}
	}

	quantity := raw.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	name := raw.FoodName
	if name == "" {
		name = "Unknown"
	}
	return Item{
		Kind:      ItemRegular,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: raw.Price,
	}
}
