package delivery

import (
	"errors"
	"net/http"

	"merchant-dashboard/backend"
	"merchant-dashboard/delivery/model"
)

const maxRegistrationBody = 10 << 20 // 10MB, document included

// A struct to hold data for the registration template.
type registrationPageData struct {
	Form  model.RegistrationForm
	Error string
}

func (h *HTTPEndpoint) renderRegistrationForm(w http.ResponseWriter, data registrationPageData) {
	if err := registrationTemplate.ExecuteTemplate(w, "registration.html", data); err != nil {
		h.log.Error().Err(err).Msg("failed to execute registration template")
		http.Error(w, "Failed to render the page", http.StatusInternalServerError)
	}
}

// registrationHandler handles the GET request for the registration page.
func (h *HTTPEndpoint) registrationHandler(w http.ResponseWriter, r *http.Request) {
	h.renderRegistrationForm(w, registrationPageData{})
}

// registrationSubmitHandler forwards the multipart registration form to the
// backend, optional supporting document included.
func (h *HTTPEndpoint) registrationSubmitHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRegistrationBody)
	if err := r.ParseMultipartForm(maxRegistrationBody); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := model.RegistrationForm{
		BusinessName:  r.FormValue("business_name"),
		BusinessType:  r.FormValue("business_type"),
		OwnerName:     r.FormValue("owner_name"),
		Phone:         r.FormValue("phone"),
		Email:         r.FormValue("email"),
		Password:      r.FormValue("password"),
		VerifyToken:   r.FormValue("verify_token"),
		WAPhoneID:     r.FormValue("wa_phone_id"),
		WAVerifyToken: r.FormValue("wa_verify_token"),
	}
	if err := form.Validate(); err != nil {
		h.renderRegistrationForm(w, registrationPageData{Form: form, Error: err.Error()})
		return
	}

	var doc *backend.UploadFile
	if file, header, err := r.FormFile("uploaded_file"); err == nil {
		defer file.Close()
		doc = &backend.UploadFile{Name: header.Filename, Content: file}
	}

	_, err := h.app.Backend().Register(r.Context(), backend.RegisterForm{
		BusinessName:  form.BusinessName,
		BusinessType:  form.BusinessType,
		OwnerName:     form.OwnerName,
		Phone:         form.Phone,
		Email:         form.Email,
		Password:      form.Password,
		VerifyToken:   form.VerifyToken,
		WAPhoneID:     form.WAPhoneID,
		WAVerifyToken: form.WAVerifyToken,
	}, doc)
	if err != nil {
		h.renderRegistrationForm(w, registrationPageData{Form: form, Error: registrationErrorMessage(err)})
		return
	}

	h.log.Info().Str("business", form.BusinessName).Msg("business registered")
	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

func registrationErrorMessage(err error) string {
	if errors.Is(err, backend.ErrUnreachable) {
		return "Network error — please try again."
	}
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) && statusErr.Detail != "" {
		return statusErr.Detail
	}
	return "Registration failed, please try again."
}
