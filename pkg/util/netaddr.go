package util

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cuemby/gradenet/pkg/wire"
)

// DefaultExternalIPEndpoint is the public echo service DiscoverExternalIP
// queries when a worker's config leaves the endpoint unset.
const DefaultExternalIPEndpoint = "https://api.ipify.org"

// externalIPTimeout bounds the round trip to the echo endpoint so a
// worker's heartbeat handler cannot wedge indefinitely on a dead service.
const externalIPTimeout = 10 * time.Second

// DiscoverExternalIP performs an HTTPS GET against endpoint — a public echo
// service that responds with the caller's address as a bare string — and
// returns the parsed IP. Workers self-report this value in their heartbeat
// response; it is deliberately the address the commander sees the worker
// from on the public internet, not a local interface's LAN address, which
// would be meaningless behind NAT.
func DiscoverExternalIP(endpoint string) (string, error) {
	if endpoint == "" {
		endpoint = DefaultExternalIPEndpoint
	}

	client := &http.Client{Timeout: externalIPTimeout}
	resp, err := client.Get(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %v", wire.ErrTransport, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: GET %s: status %d", wire.ErrTransport, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", fmt.Errorf("%w: read response from %s: %v", wire.ErrTransport, endpoint, err)
	}

	ip := strings.TrimSpace(string(body))
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("%w: %s returned non-IP body %q", wire.ErrProtocol, endpoint, ip)
	}
	return ip, nil
}
