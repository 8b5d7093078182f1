package delivery

import (
	"errors"
	"net/http"

	"merchant-dashboard/backend"
)

const maxDocumentBody = 10 << 20 // 10MB

// uploadDocumentHandler forwards a menu or policy document to the backend as
// multipart form data. The browser-chosen boundary survives the trip.
func (h *HTTPEndpoint) uploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.app.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBody)
	if err := r.ParseMultipartForm(maxDocumentBody); err != nil {
		h.flash.Set(sess.ID(), bannerError, "Document too large or form malformed.")
		http.Redirect(w, r, "/dashboard/documents", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("document_file")
	if err != nil {
		h.flash.Set(sess.ID(), bannerError, "A document file is required.")
		http.Redirect(w, r, "/dashboard/documents", http.StatusSeeOther)
		return
	}
	defer file.Close()

	documentName := r.FormValue("document_name")
	if documentName == "" {
		documentName = header.Filename
	}

	resp, err := h.app.Backend().UploadDocument(r.Context(), documentName, backend.UploadFile{
		Name:    header.Filename,
		Content: file,
	})
	if err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.flash.Set(sess.ID(), bannerError, formErrorMessage(err, "Could not upload the document."))
		http.Redirect(w, r, "/dashboard/documents", http.StatusSeeOther)
		return
	}

	message := resp.Message
	if message == "" {
		message = "Document uploaded."
	}
	h.flash.Set(sess.ID(), bannerSuccess, message)
	http.Redirect(w, r, "/dashboard/documents", http.StatusSeeOther)
}
