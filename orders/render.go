package orders

import (
	"bytes"
	"fmt"
	"html/template"
)

// Mode selects which queue a batch of cards belongs to. Confirmed cards drop
// the confirm control.
type Mode int

const (
	ModePending Mode = iota
	ModeConfirmed
)

// Renderer turns normalized orders into HTML card fragments. Everything
// user-supplied flows through html/template, so escaping is enforced at the
// boundary instead of being each call site's problem.
type Renderer struct {
	tmpl   *template.Template
	policy TotalPolicy
}

func NewRenderer(policy TotalPolicy) *Renderer {
	return &Renderer{
		tmpl:   template.Must(template.New("cards").Parse(cardsTemplate)),
		policy: policy,
	}
}

// view structs hold display-ready values; money strings are computed here so
// the template stays a pure layout.
type cardView struct {
	ShortID      string
	ID           string
	CustomerHash string
	Customer     string
	Phone        string
	Address      string
	Placed       string
	Type         string
	Total        string
	Items        []itemView
	Confirmed    bool
}

type itemView struct {
	Cake         bool
	Line         string
	Weight       string
	Flavour      string
	Message      string
	DeliveryTime string
	Price        string
}

// Cards renders one fragment per order, in input sequence order.
func (r *Renderer) Cards(batch []Order, mode Mode) (template.HTML, error) {
	views := make([]cardView, 0, len(batch))
	for _, order := range batch {
		views = append(views, r.cardView(order, mode))
	}

	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, struct {
		Orders  []cardView
		Pending bool
	}{Orders: views, Pending: mode == ModePending})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) cardView(order Order, mode Mode) cardView {
	view := cardView{
		ShortID:      order.ShortID(),
		ID:           order.ID,
		CustomerHash: order.CustomerHash,
		Customer:     order.CustomerName,
		Phone:        order.CustomerPhone,
		Address:      order.CustomerAddress,
		Placed:       order.Placed,
		Type:         order.Type,
		Total:        money(order.DisplayTotal(r.policy)),
		Confirmed:    mode == ModeConfirmed,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, newItemView(item))
	}
	return view
}

func newItemView(item Item) itemView {
	if item.Kind == ItemCustomCake {
		return itemView{
			Cake:         true,
			Weight:       item.Weight,
			Flavour:      item.Flavour,
			Message:      item.Message,
			DeliveryTime: item.DeliveryTime,
			Price:        money(item.Subtotal()),
		}
	}
	return itemView{
		Line:  fmt.Sprintf("%s ×%d", item.Name, item.Quantity),
		Price: money(item.Subtotal()),
	}
}

func money(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

const cardsTemplate = `{{if not .Orders}}<p class="empty">No orders here yet.</p>{{end}}
{{- $pending := .Pending -}}
{{- range .Orders}}
<article class="order-card{{if .Confirmed}} order-card--confirmed{{end}}" data-order-id="{{.ID}}">
  <header class="order-card__head">
    <span class="order-id">#{{.ShortID}}</span>
    {{- if .Type}}<span class="order-type">{{.Type}}</span>{{end}}
    {{- if .Placed}}<time class="order-placed">{{.Placed}}</time>{{end}}
  </header>
  <p class="order-customer">{{.Customer}}{{if .Phone}} · {{.Phone}}{{end}}</p>
  {{- if .Address}}
  <p class="order-address">{{.Address}}</p>
  {{- end}}
  <ul class="order-items">
    {{- range .Items}}
    {{- if .Cake}}
    <li class="order-item order-item--cake">
      <span>Custom Cake ({{.Weight}}, {{.Flavour}})</span>
      {{- if .Message}}<span class="cake-message">“{{.Message}}”</span>{{end}}
      <span class="cake-delivery">Delivery: {{.DeliveryTime}}</span>
      <span class="item-price">{{.Price}}</span>
    </li>
    {{- else}}
    <li class="order-item"><span>{{.Line}} {{.Price}}</span></li>
    {{- end}}
    {{- end}}
  </ul>
  <footer class="order-card__foot">
    <strong class="order-total">Total: {{.Total}}</strong>
    {{- if $pending}}
    <button class="order-confirm" data-order-id="{{.ID}}" data-customer-hash="{{.CustomerHash}}">Confirm Order</button>
    {{- end}}
  </footer>
</article>
{{- end}}
`
