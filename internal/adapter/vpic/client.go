// Package vpic decodes VINs through the NHTSA vPIC public API.
package vpic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openrental/fleetd/internal/domain"
)

const (
	defaultBaseURL = "https://vpic.nhtsa.dot.gov/api"

	serviceName = "vin-decoder"
)

// Config holds the decoder endpoint settings.
type Config struct {
	BaseURL     string
	HTTPTimeout time.Duration
}

// ConfigFromEnv builds Config from environment variables, falling back
// to the public endpoint.
func ConfigFromEnv() Config {
	return Config{BaseURL: os.Getenv("VPIC_BASE_URL")}
}

// Client implements domain.VINDecoder against the vPIC flat-format
// decode endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: Client implements domain.VINDecoder.
var _ domain.VINDecoder = (*Client)(nil)

// New creates a client from the given config.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// decodeResponse is the flat-format decode payload. Results carries a
// single element with every attribute as a string field; only the ones
// the fleet cares about are declared.
type decodeResponse struct {
	Results []map[string]string `json:"Results"`
}

// Decode returns the vPIC attribute map for a VIN. The optional model
// year narrows the decode. Failures are reported as
// *domain.UpstreamError.
func (c *Client) Decode(ctx context.Context, vin string, modelYear int) (map[string]string, error) {
	if vin == "" {
		return nil, &domain.InvalidDocumentError{Reason: "vin is required"}
	}

	q := url.Values{"format": {"json"}}
	if modelYear > 0 {
		q.Set("modelyear", strconv.Itoa(modelYear))
	}
	decodeURL := fmt.Sprintf("%s/vehicles/DecodeVinValues/%s?%s", c.baseURL, url.PathEscape(vin), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, decodeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building decode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			Service: serviceName,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("decode returned %s", resp.Status),
		}
	}

	var out decodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Status: resp.StatusCode, Err: err}
	}
	if len(out.Results) == 0 {
		return nil, &domain.UpstreamError{
			Service: serviceName,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("decode returned no results"),
		}
	}

	attrs := out.Results[0]
	// ErrorCode "0" means a clean decode; vPIC also prefixes partial
	// successes with "0," so only a hard error aborts.
	if code := attrs["ErrorCode"]; code != "" && code != "0" && !strings.HasPrefix(code, "0,") {
		return nil, &domain.UpstreamError{
			Service: serviceName,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("decode error code %s: %s", code, attrs["ErrorText"]),
		}
	}
	return attrs, nil
}
