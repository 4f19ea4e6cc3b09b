package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/gradenet/pkg/wire"
)

func TestDiscoverExternalIPParsesEchoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("203.0.113.42\n"))
	}))
	defer srv.Close()

	ip, err := DiscoverExternalIP(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.42", ip)
}

func TestDiscoverExternalIPRejectsNonIPBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not an ip</html>"))
	}))
	defer srv.Close()

	_, err := DiscoverExternalIP(srv.URL)
	assert.ErrorIs(t, err, wire.ErrProtocol)
}

func TestDiscoverExternalIPSurfacesNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := DiscoverExternalIP(srv.URL)
	assert.ErrorIs(t, err, wire.ErrTransport)
}
