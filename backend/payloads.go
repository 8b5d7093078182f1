package backend

// Wire types mirror the backend's JSON field names exactly, capitalization
// quirks included. Normalization into clean domain types happens in the
// orders package, nowhere else.

type LoginResponse struct {
	Status     string         `json:"status"`
	Token      string         `json:"token"`
	ClientData map[string]any `json:"client_data"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type RawItem struct {
	Type     string  `json:"type"`
	FoodName string  `json:"food_name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`

	// Custom-cake variant fields.
	Weight           string `json:"weight"`
	Flavour          string `json:"flavour"`
	CakeMessage      string `json:"cake_message"`
	DeliveryDatetime string `json:"delivery_datetime"`
}

type RawOrder struct {
	OrderID         string    `json:"order_id"`
	CustomerHash    string    `json:"customer_hash"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerName    string    `json:"customer_name"`
	CustomerAddress string    `json:"customer_address"`
	Timestamp       string    `json:"timestamp"`
	Status          string    `json:"status"`
	OrderType       string    `json:"Type"`
	Total           float64   `json:"total"`
	Items           []RawItem `json:"items"`
}

type OrdersResponse struct {
	Orders       []RawOrder `json:"orders"`
	BusinessType string     `json:"business_type"`
}

type NewOrdersResponse struct {
	HasNewOrder bool   `json:"has_new_order"`
	OrderID     string `json:"order_id"`
}

type DashboardStats struct {
	TotalCustomers int `json:"total_customers"`
	TotalOrders    int `json:"total_orders"`
	PendingOrders  int `json:"pending_orders"`
}

type VerifySessionResponse struct {
	Status     string         `json:"status"`
	ClientData map[string]any `json:"client_data"`
}
