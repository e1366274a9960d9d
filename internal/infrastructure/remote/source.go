// Package remote fetches the authoritative catalog snapshot over HTTP.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/example/stockkeeper/internal/domain/catalog"
)

// ProductsPath is appended to the configured base URL
const ProductsPath = "/products"

// maxPayloadBytes caps how much of a response body is read
const maxPayloadBytes = 32 << 20

var ErrRemoteUnavailable = errors.New("remote catalog unavailable")

// Source fetches a full catalog snapshot
type Source interface {
	Fetch(ctx context.Context) (catalog.Catalog, error)
}

// HTTPSource performs a single GET against <baseURL>/products. It never
// retries; timeouts are whatever the client carries.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source. A nil client means http.DefaultClient.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (s *HTTPSource) URL() string {
	return s.baseURL + ProductsPath
}

// Fetch returns the remote catalog. Every transport, status or top-level
// decoding failure is reported as ErrRemoteUnavailable; malformed individual
// records are dropped and logged.
func (s *HTTPSource) Fetch(ctx context.Context) (catalog.Catalog, error) {
	if s.baseURL == "" {
		return nil, fmt.Errorf("%w: no base URL configured", ErrRemoteUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrRemoteUnavailable, err)
	}

	c, report, err := catalog.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	for _, r := range report.Rejected {
		log.Printf("[Remote] Dropped remote record #%d: %v", r.Index, r.Err)
	}
	return c, nil
}
