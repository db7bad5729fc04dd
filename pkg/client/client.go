// Package client talks to the remote strategic-analysis service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helmcode/strategy-ai/pkg/model"
	"github.com/helmcode/strategy-ai/pkg/parser"
	"github.com/helmcode/strategy-ai/pkg/profile"
)

const (
	DefaultBaseURL    = "http://localhost:8001"
	DefaultPhase1Path = "/api/michelin/dynamic/analyze/phase1"
)

// Sentinel errors for analysis call failures. They all surface to the user
// as a single "Phase N analysis failed: ..." message.
var (
	ErrUnreachable       = errors.New("analysis service unreachable")
	ErrUnexpectedStatus  = errors.New("unexpected status")
	ErrMalformedResponse = errors.New("malformed response")
)

// PhaseError is the normalised failure of one phase call.
type PhaseError struct {
	Phase      int
	StatusCode int
	// Reason is the human-readable cause: the HTTP reason phrase for non-2xx
	// responses, the transport error otherwise.
	Reason string
	// Detail is the service's own error detail, when it sent one.
	Detail string
	Err    error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("Phase %d analysis failed: %s", e.Phase, e.Reason)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Analyzer runs phase analyses against the service.
type Analyzer interface {
	AnalyzePhase1(ctx context.Context, req profile.Phase1Request) (*model.Report, error)
}

// Client is the HTTP implementation of Analyzer.
type Client struct {
	baseURL    string
	phase1Path string
	client     *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

// WithPhase1Path overrides the phase-1 endpoint path.
func WithPhase1Path(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.phase1Path = "/" + strings.TrimLeft(path, "/")
		}
	}
}

// WithTimeout bounds every request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		phase1Path: DefaultPhase1Path,
		client:     &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase1URL is the full phase-1 endpoint.
func (c *Client) Phase1URL() string {
	return c.baseURL + c.phase1Path
}

// AnalyzePhase1 issues exactly one POST with the startup profile and decodes
// the report. It never retries.
func (c *Client) AnalyzePhase1(ctx context.Context, req profile.Phase1Request) (*model.Report, error) {
	const phase = 1

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal phase 1 request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Phase1URL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build phase 1 request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	log := c.logger.With(
		zap.Int("phase", phase),
		zap.String("request_id", requestID),
		zap.String("startup_name", req.StartupData.StartupName),
	)
	log.Debug("Sending analysis request", zap.String("url", c.Phase1URL()))

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn("Analysis service unreachable", zap.Error(err))
		return nil, &PhaseError{
			Phase:  phase,
			Reason: err.Error(),
			Err:    fmt.Errorf("%w: %v", ErrUnreachable, err),
		}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &PhaseError{
			Phase:      phase,
			StatusCode: resp.StatusCode,
			Reason:     err.Error(),
			Err:        fmt.Errorf("%w: read body: %v", ErrUnreachable, err),
		}
	}

	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := parser.ErrorDetail(respBytes)
		log.Warn("Analysis request rejected", zap.String("detail", detail))
		return nil, &PhaseError{
			Phase:      phase,
			StatusCode: resp.StatusCode,
			Reason:     statusText(resp),
			Detail:     detail,
			Err:        fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode),
		}
	}

	report, err := parser.ParsePhase1Response(respBytes)
	if err != nil {
		log.Warn("Analysis response could not be decoded", zap.Error(err))
		return nil, &PhaseError{
			Phase:      phase,
			StatusCode: resp.StatusCode,
			Reason:     err.Error(),
			Err:        fmt.Errorf("%w: %v", ErrMalformedResponse, err),
		}
	}

	log.Info("Analysis received", zap.Int("frameworks", len(report.Phase1.FrameworksAnalysis)))
	return report, nil
}

// statusText returns the reason phrase the server sent, e.g. "Internal
// Server Error", falling back to the standard text for the code.
func statusText(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok {
		if reason = strings.TrimSpace(reason); reason != "" {
			return reason
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}

// Compile-time check that Client implements Analyzer.
var _ Analyzer = (*Client)(nil)
