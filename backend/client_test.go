package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"merchant-dashboard/backend"
)

type tokenFunc func(ctx context.Context) (string, bool)

func (f tokenFunc) Token(ctx context.Context) (string, bool) { return f(ctx) }

func noToken() tokenFunc {
	return func(context.Context) (string, bool) { return "", false }
}

func fixedToken(value string) tokenFunc {
	return func(context.Context) (string, bool) { return value, true }
}

func newTestClient(t *testing.T, url string, tokens backend.TokenSource) *backend.Client {
	t.Helper()
	return backend.New(url, 2*time.Second, tokens, zerolog.Nop())
}

func TestClient_InjectsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"orders":[],"business_type":"restaurant"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, fixedToken("T1"))
	_, err := client.Orders(context.Background())
	require.NoError(t, err)
}

func TestClient_NoTokenNoAuthorizationHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":"success","token":"fresh","client_data":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, noToken())
	resp, err := client.Login(context.Background(), "a@b.com", "secret12")
	require.NoError(t, err)
	require.Equal(t, "fresh", resp.Token)
}

func TestClient_UnauthorizedRunsHookAndReturnsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var hookCalls atomic.Int32
	client := newTestClient(t, server.URL, fixedToken("stale"))
	client.OnUnauthorized(func(ctx context.Context) { hookCalls.Add(1) })

	_, err := client.Orders(context.Background())
	require.ErrorIs(t, err, backend.ErrSessionExpired)
	require.Equal(t, int32(1), hookCalls.Load())
}

func TestClient_NonOKCarriesBackendDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Email already registered"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, noToken())
	_, err := client.Login(context.Background(), "a@b.com", "secret12")
	require.Error(t, err)

	var statusErr *backend.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.Code)
	require.Equal(t, "Email already registered", statusErr.Detail)
}

func TestClient_MultipartBoundarySurvives(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "fssai-license", r.FormValue("document_name"))

		file, header, err := r.FormFile("document_file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "license.pdf", header.Filename)

		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, fixedToken("T1"))
	_, err := client.UploadDocument(context.Background(), "fssai-license", backend.UploadFile{
		Name:    "license.pdf",
		Content: strings.NewReader("pdf-bytes"),
	})
	require.NoError(t, err)
}

func TestClient_TransportFailureIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(t, url, noToken())
	_, err := client.Orders(context.Background())
	require.ErrorIs(t, err, backend.ErrUnreachable)
}

func TestClient_VerifySessionRejectsOtherStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"pending","client_data":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, fixedToken("T1"))
	_, err := client.VerifySession(context.Background())
	require.Error(t, err)
}
