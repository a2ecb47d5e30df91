package client

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/aitoolhub/aitoolhub/common/config"
)

// HTTPClient is the default outbound client used for embedding provider requests.
var HTTPClient *http.Client

// ImpatientHTTPClient is a short-timeout client for quick health checks or metadata requests.
var ImpatientHTTPClient *http.Client

// Init builds the shared HTTP clients with timeout settings derived from configuration.
func Init() {
	// HTTP/2 is disabled to avoid stream errors against some provider edges.
	createTransport := func() *http.Transport {
		dialer := &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}
		return &http.Transport{
			DialContext:  dialer.DialContext,
			TLSNextProto: make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
		}
	}

	if config.RelayTimeout == 0 {
		HTTPClient = &http.Client{Transport: createTransport()}
	} else {
		HTTPClient = &http.Client{
			Transport: createTransport(),
			Timeout:   time.Duration(config.RelayTimeout) * time.Second,
		}
	}

	ImpatientHTTPClient = &http.Client{
		Transport: createTransport(),
		Timeout:   5 * time.Second,
	}
}
