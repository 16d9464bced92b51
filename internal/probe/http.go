package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"portwait/internal/domain"
)

const userAgent = "portwait/1.0"

// HTTPProber issues one request and checks the response status against the
// endpoint's expected status set. The request deadline comes from ctx.
type HTTPProber struct {
	client *http.Client
}

func NewHTTPProber() *HTTPProber {
	return &HTTPProber{
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				DisableKeepAlives:   true,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

func (p *HTTPProber) Probe(ctx context.Context, spec domain.EndpointSpec) error {
	req, err := http.NewRequestWithContext(ctx, spec.Method, spec.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range spec.Headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused or torn down
	// cleanly.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if !spec.StatusExpected(resp.StatusCode) {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
