// Package docintel provides a client for the Azure Document Intelligence
// analyze API (begin-analyze plus Operation-Location polling).
package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/payverify-cli/internal/resilience"
)

const apiVersion = "2024-11-30"

// Client defines the Document Intelligence operations used by the extractors.
type Client interface {
	// Analyze submits a document to the given model and polls until the
	// analysis completes.
	Analyze(ctx context.Context, modelID string, document []byte, opts ...AnalyzeOption) (*AnalyzeResult, error)
}

// AnalyzeResult holds the parsed output of a completed analysis.
type AnalyzeResult struct {
	Content string
	Fields  map[string]Field
	Pages   []Page
}

// Field is a single extracted document field. Confidence is the service's
// native 0-1 scale; adapters rescale as needed.
type Field struct {
	Content    string
	Confidence float64
}

// Page holds the recognized text lines of one page.
type Page struct {
	Lines []string
}

// AnalyzeOption configures a single analyze request.
type AnalyzeOption func(*analyzeOpts)

type analyzeOpts struct {
	features []string
}

// WithFeatures enables optional analysis add-ons such as queryFields.
func WithFeatures(features ...string) AnalyzeOption {
	return func(o *analyzeOpts) {
		o.features = features
	}
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithPollInterval sets the delay between result polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *httpClient) {
		c.pollInterval = d
	}
}

// WithRetry overrides the submission retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithRateLimit sets the requests-per-second limit for analyze submissions.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	baseURL      string
	apiKey       string
	http         *http.Client
	limiter      *rate.Limiter
	pollInterval time.Duration
	retry        resilience.RetryConfig
}

// NewClient creates a Document Intelligence client for the given endpoint.
func NewClient(endpoint, apiKey string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(endpoint, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
		limiter:      rate.NewLimiter(2, 1),
		pollInterval: 2 * time.Second,
		retry:        resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Analyze(ctx context.Context, modelID string, document []byte, opts ...AnalyzeOption) (*AnalyzeResult, error) {
	var o analyzeOpts
	for _, opt := range opts {
		opt(&o)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "docintel: rate limit wait")
	}

	// Submission is retried on 429/5xx and network faults; polling is not,
	// since a lost operation cannot be resumed.
	opLocation, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (string, error) {
		return c.beginAnalyze(ctx, modelID, document, o)
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.poll(ctx, opLocation)
	if err != nil {
		return nil, eris.Wrapf(err, "docintel: poll %s", modelID)
	}

	return toResult(raw), nil
}

func (c *httpClient) beginAnalyze(ctx context.Context, modelID string, document []byte, o analyzeOpts) (string, error) {
	q := url.Values{"api-version": {apiVersion}}
	if len(o.features) > 0 {
		q.Set("features", strings.Join(o.features, ","))
	}
	endpoint := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?%s",
		c.baseURL, url.PathEscape(modelID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(document))
	if err != nil {
		return "", eris.Wrap(err, "docintel: build analyze request")
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrapf(err, "docintel: analyze %s", modelID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := eris.Errorf("docintel: analyze %s: status %d: %s", modelID, resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return "", resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return "", statusErr
	}

	opLocation := resp.Header.Get("Operation-Location")
	if opLocation == "" {
		return "", eris.Errorf("docintel: analyze %s: missing Operation-Location header", modelID)
	}
	return opLocation, nil
}

// analyzeOperation mirrors the service's polling response envelope.
type analyzeOperation struct {
	Status        string         `json:"status"`
	Error         *analyzeError  `json:"error,omitempty"`
	AnalyzeResult *analyzeResult `json:"analyzeResult,omitempty"`
}

type analyzeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type analyzeResult struct {
	Content   string            `json:"content"`
	Documents []analyzeDocument `json:"documents"`
	Pages     []analyzePage     `json:"pages"`
}

type analyzeDocument struct {
	Fields map[string]analyzeField `json:"fields"`
}

type analyzeField struct {
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}

type analyzePage struct {
	Lines []analyzeLine `json:"lines"`
}

type analyzeLine struct {
	Content string `json:"content"`
}

func (c *httpClient) poll(ctx context.Context, opLocation string) (*analyzeOperation, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opLocation, nil)
		if err != nil {
			return nil, eris.Wrap(err, "build poll request")
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "poll request")
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, eris.Wrap(readErr, "read poll body")
		}
		if resp.StatusCode != http.StatusOK {
			return nil, eris.Errorf("poll status %d: %s", resp.StatusCode, string(body))
		}

		var op analyzeOperation
		if err := json.Unmarshal(body, &op); err != nil {
			return nil, eris.Wrap(err, "decode poll body")
		}

		switch op.Status {
		case "succeeded":
			return &op, nil
		case "failed":
			if op.Error != nil {
				return nil, eris.Errorf("analysis failed: %s: %s", op.Error.Code, op.Error.Message)
			}
			return nil, eris.New("analysis failed")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func toResult(op *analyzeOperation) *AnalyzeResult {
	out := &AnalyzeResult{Fields: map[string]Field{}}
	if op.AnalyzeResult == nil {
		return out
	}
	out.Content = op.AnalyzeResult.Content

	if len(op.AnalyzeResult.Documents) > 0 {
		for name, f := range op.AnalyzeResult.Documents[0].Fields {
			out.Fields[name] = Field{Content: f.Content, Confidence: f.Confidence}
		}
	}

	for _, p := range op.AnalyzeResult.Pages {
		page := Page{Lines: make([]string, 0, len(p.Lines))}
		for _, ln := range p.Lines {
			page.Lines = append(page.Lines, ln.Content)
		}
		out.Pages = append(out.Pages, page)
	}
	return out
}
