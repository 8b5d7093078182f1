package delivery

import (
	"errors"
	"net/http"

	"merchant-dashboard/backend"
	"merchant-dashboard/delivery/model"
	"merchant-dashboard/session"
)

// updatePaymentLinkHandler saves the payment link customers receive with
// confirmed orders.
func (h *HTTPEndpoint) updatePaymentLinkHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.app.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := model.PaymentLinkForm{
		Link:        r.Form.Get("payment_link"),
		Description: r.Form.Get("description"),
	}
	if err := form.Validate(); err != nil {
		h.flash.Set(sess.ID(), bannerError, err.Error())
		http.Redirect(w, r, "/dashboard/payment", http.StatusSeeOther)
		return
	}

	if _, err := h.app.Backend().UpdatePaymentLink(r.Context(), form.Link, form.Description); err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.flash.Set(sess.ID(), bannerError, formErrorMessage(err, "Could not update the payment link."))
		http.Redirect(w, r, "/dashboard/payment", http.StatusSeeOther)
		return
	}

	// Keep the cached profile in step so the panel shows the new link
	// without waiting for the next verify-session refresh.
	profile := session.Profile{}
	for key, value := range sess.Profile() {
		profile[key] = value
	}
	profile["payment_link"] = form.Link
	h.app.UpdateProfile(r.Context(), sess, profile)

	h.flash.Set(sess.ID(), bannerSuccess, "Payment link updated.")
	http.Redirect(w, r, "/dashboard/payment", http.StatusSeeOther)
}
