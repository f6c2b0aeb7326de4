package nets

import (
	"net/http"
	"time"
)

type HTTPClient = *http.Client

// HTTPClient has no overall timeout: streamed completions may legitimately run for minutes.
// Callers bound requests with their context.
func (Module) HTTPClient(
	dialer Dialer,
) HTTPClient {
	return &http.Client{
		Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 2 * time.Minute,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConns:          8,
		},
	}
}
