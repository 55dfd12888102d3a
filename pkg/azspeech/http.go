package azspeech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// httpClient handles HTTP communication with the speech service.
type httpClient struct {
	client     *http.Client
	key        string
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

// newHTTPClient creates a new HTTP client.
func newHTTPClient(cfg *clientConfig) *httpClient {
	return &httpClient{
		client:     cfg.httpClient,
		key:        cfg.key,
		timeout:    cfg.timeout,
		maxRetries: cfg.maxRetries,
		backoff:    cfg.backoff,
		logger:     cfg.logger,
	}
}

// payload is a replayable request body.
type payload struct {
	contentType string
	data        []byte
}

func jsonPayload(v any) (*payload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	return &payload{contentType: "application/json; charset=utf-8", data: data}, nil
}

// errorEnvelope is the error shape shared by the speech and translator APIs.
type errorEnvelope struct {
	Error *struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error"`
}

func (env *errorEnvelope) toError(httpStatus int) *Error {
	return &Error{
		HTTPStatus: httpStatus,
		Code:       strings.Trim(string(env.Error.Code), `"`),
		Message:    env.Error.Message,
	}
}

// request makes an HTTP request with retry support. Each attempt runs
// under its own timeout.
func (h *httpClient) request(ctx context.Context, method, url string, body *payload, header http.Header, result any) error {
	return h.do(ctx, method, url, body, header, result, true)
}

// requestNoReplay is request for calls that create remote state. A
// transport error or attempt timeout leaves it unknown whether the service
// acted, so only explicit 429/5xx replies are retried.
func (h *httpClient) requestNoReplay(ctx context.Context, method, url string, body *payload, header http.Header, result any) error {
	return h.do(ctx, method, url, body, header, result, false)
}

func (h *httpClient) do(ctx context.Context, method, url string, body *payload, header http.Header, result any, replayUnknown bool) error {
	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * h.backoff
			h.logger.Debug("azspeech: retrying", "method", method, "url", url, "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := h.doRequest(ctx, method, url, body, header, result)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return err
		}
		if apiErr, ok := AsError(err); ok {
			if !apiErr.Retryable() {
				return err
			}
			continue
		}
		if errors.Is(err, ErrInvalidResponse) {
			return err
		}
		if !replayUnknown {
			return err
		}
		// Transport errors and attempt timeouts are retryable.
	}

	return lastErr
}

// doRequest performs a single HTTP request.
func (h *httpClient) doRequest(ctx context.Context, method, url string, body *payload, header http.Header, result any) error {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body.data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", h.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", body.contentType)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	h.logger.Debug("azspeech: response", "method", method, "url", url, "status", resp.StatusCode, "elapsed", time.Since(start))

	return h.handleResponse(resp.StatusCode, data, result)
}

// handleResponse checks the status and the body for a service error and
// decodes the body into result.
func (h *httpClient) handleResponse(status int, body []byte, result any) error {
	if status < 200 || status > 299 {
		return parseError(body, status)
	}

	// Some endpoints report failures in a 200 body.
	if len(bytes.TrimSpace(body)) > 0 && bytes.TrimSpace(body)[0] == '{' {
		var env errorEnvelope
		if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
			return env.toError(status)
		}
	}

	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// parseError parses an error response body.
func parseError(body []byte, httpStatus int) error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		return env.toError(httpStatus)
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(httpStatus)
	}
	return &Error{HTTPStatus: httpStatus, Message: msg}
}
