package delivery

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"merchant-dashboard/backend"
)

func registrationBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestRegistrationSubmit_ForwardsWhatsAppOnboardingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/register", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Corner Bakery", r.FormValue("business_name"))
		require.Equal(t, "wa-phone-123", r.FormValue("wa_phone_id"))
		require.Equal(t, "access-token-abc", r.FormValue("verify_token"))
		require.Equal(t, "webhook-secret", r.FormValue("wa_verify_token"))
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	app := &stubApp{client: backend.New(server.URL, 2*time.Second, noTokens{}, zerolog.Nop())}
	h := &HTTPEndpoint{app: app, flash: NewFlashStore(), log: zerolog.Nop()}

	body, contentType := registrationBody(t, map[string]string{
		"business_name":   "Corner Bakery",
		"business_type":   "bakery",
		"owner_name":      "Asha",
		"phone":           "9876543210",
		"email":           "asha@example.com",
		"password":        "secret12",
		"wa_phone_id":     "wa-phone-123",
		"verify_token":    "access-token-abc",
		"wa_verify_token": "webhook-secret",
	})

	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.registrationSubmitHandler(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login?registered=1", rec.Header().Get("Location"))
}

// noTokens is the token source for flows that run before a session exists.
type noTokens struct{}

func (noTokens) Token(context.Context) (string, bool) { return "", false }
