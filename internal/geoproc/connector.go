package geoproc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fixed service paths (see the wire protocol in the service docs).
const (
	healthPath     = "/health"
	algorithmsPath = "/algorithms"
	processPrefix  = "/process/"

	// runAlgorithmPath is the generic run-by-name endpoint.
	runAlgorithmPath = processPrefix + "run_algorithm"
)

// maxResponseSize bounds response bodies read into memory. Algorithm
// results are statistics and file manifests, not raster payloads.
const maxResponseSize = 16 * 1024 * 1024

// Connector talks to the remote geoprocessing service. Construct one per
// process with New and share it freely; it holds only read-only
// configuration and a connection pool.
type Connector struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
	sleep  sleepFunc
}

// New creates a Connector from the given configuration.
func New(cfg Config, logger *slog.Logger) (*Connector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connector configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Connector{
		cfg:    cfg,
		client: client,
		logger: logger,
		sleep:  sleepWithContext,
	}, nil
}

// Config returns the connector's configuration.
func (c *Connector) Config() Config {
	return c.cfg
}

// HealthCheck reports whether the geoprocessing service is reachable and
// ready. It returns true only when GET /health answers 2xx with a body
// whose status field is "ok". It never returns an error: callers poll it
// in loops, so network failures, non-2xx statuses, and malformed bodies
// all simply yield false.
func (c *Connector) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+healthPath, nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return false
	}
	return body.Status == "ok"
}

// ListAlgorithms fetches the algorithms advertised by the service.
// Unlike HealthCheck this is an explicit user-facing action, so failures
// surface as typed errors rather than being swallowed. A body without an
// algorithms key yields an empty slice. No retries: listing is cheap and
// interactive, the caller can simply re-invoke it.
func (c *Connector) ListAlgorithms(ctx context.Context) ([]AlgorithmDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+algorithmsPath, nil)
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("failed to build request: %s", err), Cause: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyRequestError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, raw)
	}

	var body struct {
		Algorithms []AlgorithmDescriptor `json:"algorithms"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &TransportError{Message: "malformed algorithms response", Cause: err}
	}
	if body.Algorithms == nil {
		return []AlgorithmDescriptor{}, nil
	}
	return body.Algorithms, nil
}

// Run dispatches an arbitrary algorithm by name through the generic
// run_algorithm endpoint. The parameters mapping is sent verbatim; any
// file paths in it must already be absolute.
//
// Run (and every typed dispatcher built on it) retries transport
// failures up to Config.MaxRetries total attempts, so the request must
// be idempotent on the remote side.
func (c *Connector) Run(ctx context.Context, algorithm string, params Params) (*Envelope, error) {
	if strings.TrimSpace(algorithm) == "" {
		return nil, fmt.Errorf("algorithm name is required")
	}
	body := map[string]any{
		"algorithm":  algorithm,
		"parameters": params.orEmpty(),
	}
	return c.process(ctx, algorithm, runAlgorithmPath, body)
}

// Typed dispatchers, one per algorithm family. Each is a thin wrapper
// over the shared process path with a fixed endpoint; the retry,
// logging, and envelope handling live in one place.

// RunSlope computes slope from a DEM.
func (c *Connector) RunSlope(ctx context.Context, params Params) (*Envelope, error) {
	return c.process(ctx, "slope", processPrefix+"slope", params.orEmpty())
}

// RunAspect computes aspect from a DEM.
func (c *Connector) RunAspect(ctx context.Context, params Params) (*Envelope, error) {
	return c.process(ctx, "aspect", processPrefix+"aspect", params.orEmpty())
}

// RunHillshade renders a hillshade raster from a DEM.
func (c *Connector) RunHillshade(ctx context.Context, params Params) (*Envelope, error) {
	return c.process(ctx, "hillshade", processPrefix+"hillshade", params.orEmpty())
}

// RunWatershed delineates watershed basins.
func (c *Connector) RunWatershed(ctx context.Context, params Params) (*Envelope, error) {
	return c.process(ctx, "watershed", processPrefix+"watershed", params.orEmpty())
}

// RunViewshed computes visibility from observer points.
func (c *Connector) RunViewshed(ctx context.Context, params Params) (*Envelope, error) {
	return c.process(ctx, "viewshed", processPrefix+"viewshed", params.orEmpty())
}

// RunSolarRadiation models incoming solar radiation over terrain.
func (c *Connector) RunSolarRadiation(ctx context.Context, params Params) (*Envelope, error) {
	return c.process(ctx, "solar_radiation", processPrefix+"solar_radiation", params.orEmpty())
}

// RunHabitatConnectivity scores habitat connectivity between patches.
func (c *Connector) RunHabitatConnectivity(ctx context.Context, params Params) (*Envelope, error) {
	return c.process(ctx, "habitat_connectivity", processPrefix+"habitat_connectivity", params.orEmpty())
}

// process is the single dispatch path shared by every algorithm entry
// point: log the outbound request, run send through the retry executor,
// log and record the outcome.
func (c *Connector) process(ctx context.Context, algorithm, path string, body any) (*Envelope, error) {
	requestID := uuid.NewString()
	logger := c.logger.With("algorithm", algorithm, "request_id", requestID)

	logger.Info("dispatching geoprocessing request", "path", path)
	logger.Debug("geoprocessing request parameters", "parameters", body)

	start := time.Now()
	env, err := c.executeWithRetry(ctx, algorithm, func() (*Envelope, error) {
		return c.send(ctx, path, body)
	})
	duration := time.Since(start)

	if err != nil {
		logger.Error("geoprocessing request failed",
			"duration_ms", duration.Milliseconds(),
			"error", err)
		recordDispatch(algorithm, outcomeFor(err), duration)
		return nil, err
	}

	logger.Info("geoprocessing request succeeded",
		"duration_ms", duration.Milliseconds())
	recordDispatch(algorithm, outcomeSuccess, duration)
	return env, nil
}

// send performs exactly one HTTP round trip and decodes the envelope.
// Transport-level failures (network, timeout, non-2xx, undecodable body)
// come back as TransportError and are retried by the executor; an HTTP
// 2xx carrying success=false is a normal application-level failure and
// comes back as ApplicationError, which is never retried.
func (c *Connector) send(ctx context.Context, path string, body any) (*Envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("failed to build request: %s", err), Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyRequestError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, raw)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &TransportError{Message: "malformed response body", Cause: err}
	}

	if !env.Success {
		msg := "Unknown error"
		code := ""
		if env.Error != nil {
			if env.Error.Message != "" {
				msg = env.Error.Message
			}
			code = env.Error.Code
		}
		return nil, &ApplicationError{Message: msg, Code: code}
	}

	return &env, nil
}

// classifyRequestError turns an http.Client error into a TransportError
// with a loggable message.
func classifyRequestError(err error) *TransportError {
	msg := "connection error"
	if isTimeout(err) {
		msg = "request timeout"
	}
	return &TransportError{Message: fmt.Sprintf("%s: %s", msg, err), Cause: err}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// statusError builds a TransportError for a non-2xx response, including
// small bodies in the message for debuggability.
func statusError(statusCode int, body []byte) *TransportError {
	msg := fmt.Sprintf("HTTP %d", statusCode)
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" && len(trimmed) < 500 {
		msg = fmt.Sprintf("HTTP %d: %s", statusCode, trimmed)
	}
	return &TransportError{Message: msg, StatusCode: statusCode}
}
