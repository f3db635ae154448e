// Package docintel talks to an Azure Document Intelligence endpoint to
// pull typed fields out of scanned identity documents. The service is
// asynchronous: a submit call returns an operation URL that is polled
// until the analysis succeeds or fails.
package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openrental/fleetd/internal/domain"
)

const (
	apiVersion = "2024-11-30"
	modelRead  = "prebuilt-read"

	serviceName = "document-intelligence"
)

// Config holds the endpoint settings for the analysis service.
type Config struct {
	Endpoint    string
	Key         string
	PollTimeout time.Duration
	HTTPTimeout time.Duration
}

// ConfigFromEnv builds Config from environment variables. An empty
// endpoint means the collaborator is not configured.
func ConfigFromEnv() Config {
	return Config{
		Endpoint: os.Getenv("DOCINTEL_ENDPOINT"),
		Key:      os.Getenv("DOCINTEL_KEY"),
	}
}

// Enabled reports whether the config carries enough to reach the
// service.
func (c Config) Enabled() bool { return c.Endpoint != "" && c.Key != "" }

// Client implements domain.DocumentAnalyzer against the read model of
// an Azure Document Intelligence deployment.
type Client struct {
	endpoint    string
	key         string
	pollTimeout time.Duration
	httpClient  *http.Client
}

// Compile-time check: Client implements domain.DocumentAnalyzer.
var _ domain.DocumentAnalyzer = (*Client)(nil)

// New creates a client from the given config.
func New(cfg Config) *Client {
	pollTimeout := cfg.PollTimeout
	if pollTimeout == 0 {
		pollTimeout = 90 * time.Second
	}
	httpTimeout := cfg.HTTPTimeout
	if httpTimeout == 0 {
		httpTimeout = 60 * time.Second
	}
	return &Client{
		endpoint:    strings.TrimRight(cfg.Endpoint, "/"),
		key:         cfg.Key,
		pollTimeout: pollTimeout,
		httpClient:  &http.Client{Timeout: httpTimeout},
	}
}

// AnalyzeURL submits a document by URL, waits for the analysis to
// finish and returns the extracted fields. Failures are reported as
// *domain.UpstreamError; the caller's data is never touched on error.
func (c *Client) AnalyzeURL(ctx context.Context, fileURL string) (map[string]string, error) {
	opLocation, err := c.submit(ctx, fileURL)
	if err != nil {
		return nil, err
	}

	result, err := c.poll(ctx, opLocation)
	if err != nil {
		return nil, err
	}

	fields := ExtractFields(readText(result))
	return fields, nil
}

// analyzeResponse is the relevant slice of the service's poll response.
type analyzeResponse struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		Content    string `json:"content"`
		Paragraphs []struct {
			Content string `json:"content"`
		} `json:"paragraphs"`
		Pages []struct {
			Lines []struct {
				Content string `json:"content"`
			} `json:"lines"`
		} `json:"pages"`
	} `json:"analyzeResult"`
}

func (c *Client) submit(ctx context.Context, fileURL string) (string, error) {
	analyzeURL := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, modelRead, apiVersion)

	body, err := json.Marshal(map[string]string{"urlSource": fileURL})
	if err != nil {
		return "", fmt.Errorf("encoding analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, analyzeURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.UpstreamError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.UpstreamError{
			Service: serviceName,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("analyze submit returned %s", resp.Status),
		}
	}

	opLocation := resp.Header.Get("Operation-Location")
	if opLocation == "" {
		return "", &domain.UpstreamError{
			Service: serviceName,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("analyze submit returned no Operation-Location"),
		}
	}
	return opLocation, nil
}

func (c *Client) poll(ctx context.Context, opLocation string) (*analyzeResponse, error) {
	deadline := time.Now().Add(c.pollTimeout)
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opLocation, nil)
		if err != nil {
			return nil, fmt.Errorf("building poll request: %w", err)
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &domain.UpstreamError{Service: serviceName, Err: err}
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, &domain.UpstreamError{
				Service: serviceName,
				Status:  resp.StatusCode,
				Err:     fmt.Errorf("analysis poll returned %s", resp.Status),
			}
		}

		var out analyzeResponse
		err = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err != nil {
			return nil, &domain.UpstreamError{Service: serviceName, Status: resp.StatusCode, Err: err}
		}

		switch out.Status {
		case "succeeded":
			return &out, nil
		case "failed":
			return nil, &domain.UpstreamError{
				Service: serviceName,
				Status:  resp.StatusCode,
				Err:     fmt.Errorf("document analysis failed"),
			}
		}

		if time.Now().After(deadline) {
			return nil, &domain.UpstreamError{Service: serviceName, Err: fmt.Errorf("document analysis timed out")}
		}
		select {
		case <-ctx.Done():
			return nil, &domain.UpstreamError{Service: serviceName, Err: ctx.Err()}
		case <-time.After(time.Second):
		}
	}
}

// readText flattens the analysis result into plain text, preferring
// paragraphs, then the raw content, then page lines.
func readText(r *analyzeResponse) string {
	ar := r.AnalyzeResult
	if len(ar.Paragraphs) > 0 {
		parts := make([]string, 0, len(ar.Paragraphs))
		for _, p := range ar.Paragraphs {
			if p.Content != "" {
				parts = append(parts, p.Content)
			}
		}
		return strings.TrimSpace(strings.Join(parts, "\n"))
	}
	if strings.TrimSpace(ar.Content) != "" {
		return strings.TrimSpace(ar.Content)
	}
	var lines []string
	for _, pg := range ar.Pages {
		for _, ln := range pg.Lines {
			if ln.Content != "" {
				lines = append(lines, ln.Content)
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
