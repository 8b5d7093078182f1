package delivery

import (
	"errors"
	"net/http"

	"merchant-dashboard/backend"
	"merchant-dashboard/delivery/model"
)

// addCustomerHandler registers a paying member with a plan end date.
func (h *HTTPEndpoint) addCustomerHandler(w http.ResponseWriter, r *http.Request) {
	h.submitCustomerForm(w, r, true)
}

// addNonMemberHandler registers a walk-in contact without a plan.
func (h *HTTPEndpoint) addNonMemberHandler(w http.ResponseWriter, r *http.Request) {
	h.submitCustomerForm(w, r, false)
}

func (h *HTTPEndpoint) submitCustomerForm(w http.ResponseWriter, r *http.Request, member bool) {
	sess, ok := h.app.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := model.CustomerForm{
		Name:        r.Form.Get("name"),
		Phone:       r.Form.Get("phone"),
		PlanEndDate: r.Form.Get("plan_end_date"),
		Member:      member,
	}
	if err := form.Validate(); err != nil {
		h.flash.Set(sess.ID(), bannerError, err.Error())
		http.Redirect(w, r, "/dashboard/customers", http.StatusSeeOther)
		return
	}

	var (
		resp backend.StatusResponse
		err  error
	)
	if member {
		resp, err = h.app.Backend().AddCustomer(r.Context(), form.Name, form.Phone, form.PlanEndDate)
	} else {
		resp, err = h.app.Backend().AddNonMember(r.Context(), form.Name, form.Phone)
	}
	if err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.flash.Set(sess.ID(), bannerError, formErrorMessage(err, "Could not save the customer."))
		http.Redirect(w, r, "/dashboard/customers", http.StatusSeeOther)
		return
	}

	message := resp.Message
	if message == "" {
		message = "Customer saved."
	}
	h.flash.Set(sess.ID(), bannerSuccess, message)
	http.Redirect(w, r, "/dashboard/customers", http.StatusSeeOther)
}
