package delivery

import (
	"errors"
	"net/http"

	"merchant-dashboard/backend"
	"merchant-dashboard/delivery/model"
)

// confirmOrderHandler confirms a pending order. A request without a usable
// order ID or customer hash is rejected locally and never reaches the
// backend.
func (h *HTTPEndpoint) confirmOrderHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.app.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := model.ConfirmOrderForm{
		OrderID:      r.Form.Get("order_id"),
		CustomerHash: r.Form.Get("customer_hash"),
	}
	if err := form.Validate(); err != nil {
		h.flash.Set(sess.ID(), bannerError, "Invalid order data")
		http.Redirect(w, r, "/dashboard/orders", http.StatusSeeOther)
		return
	}

	resp, err := h.app.Backend().ConfirmOrder(r.Context(), form.OrderID, form.CustomerHash)
	if err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.log.Warn().Err(err).Str("order", form.OrderID).Msg("order confirmation failed")
		h.flash.Set(sess.ID(), bannerError, formErrorMessage(err, "Could not confirm the order."))
		http.Redirect(w, r, "/dashboard/orders", http.StatusSeeOther)
		return
	}

	message := resp.Message
	if message == "" {
		message = "Order confirmed."
	}
	h.flash.Set(sess.ID(), bannerSuccess, message)
	http.Redirect(w, r, "/dashboard/orders", http.StatusSeeOther)
}

// formErrorMessage maps backend errors onto user-facing banner text.
func formErrorMessage(err error, fallback string) string {
	if errors.Is(err, backend.ErrUnreachable) {
		return "Network error — please try again."
	}
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) && statusErr.Detail != "" {
		return statusErr.Detail
	}
	return fallback
}
