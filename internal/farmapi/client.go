package farmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"herdview/config"
	"herdview/internal/logger"
	"herdview/internal/metrics"
)

// Client talks to the upstream farm API. All durable farm state lives
// there; this client is the only place that knows about its wire
// quirks: per-endpoint response envelopes, mixed foreign-key shapes,
// and bodyless 204 deletes.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

func New(config config.Config) *Client {
	timeout := config.FarmAPITimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(config.FarmAPIBaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger.New("farmapi"),
	}
}

// APIError is a non-2xx upstream response with whatever message the
// server provided.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("farm api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("farm api: status %d", e.StatusCode)
}

// ServerMessage extracts the upstream error message from err if it was a
// non-2xx response; ok is false for transport-level failures.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message, true
	}
	return "", false
}

// do sends one request and returns the raw body. A 204 returns a nil
// body and no error. Non-2xx responses become *APIError with the
// server's message extracted from its error envelope.
// routeLabel collapses record ids in a path to a ":id" template so the
// metrics path label stays low-cardinality.
func routeLabel(path string) string {
	path, _, _ = strings.Cut(path, "?")
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if _, err := strconv.Atoi(segment); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	log := c.log.Function("do")
	route := routeLabel(path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, log.Err("failed to encode request body", err, "path", path)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, log.Err("failed to build request", err, "path", path)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveUpstreamRequest(method, route, 0, time.Since(start))
		return nil, log.Err("request failed", err, "method", method, "path", path)
	}
	defer resp.Body.Close()

	metrics.ObserveUpstreamRequest(method, route, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, log.Err("failed to read response body", err, "path", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(raw),
		}
		log.Er("upstream returned error", apiErr, "method", method, "path", path, "status", resp.StatusCode)
		return nil, apiErr
	}

	return raw, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// extractErrorMessage digs the server's message out of a failure body.
// Endpoints disagree on the field name, so all known spellings are
// tried.
func extractErrorMessage(raw []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}

	for _, key := range []string{"error", "message", "detail"} {
		if value, ok := envelope[key]; ok {
			var msg string
			if err := json.Unmarshal(value, &msg); err == nil && msg != "" {
				return msg
			}
		}
	}

	return ""
}

// decodeList normalizes the upstream's inconsistent list envelopes: a
// bare JSON array, {"<key>": [...]}, or {"data": [...]} (with or
// without a success flag) all decode to a plain slice.
func decodeList[T any](raw []byte, key string) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected response shape: %w", err)
	}

	for _, candidate := range []string{key, "data"} {
		value, ok := envelope[candidate]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, &items); err != nil {
			return nil, fmt.Errorf("unexpected %q payload: %w", candidate, err)
		}
		return items, nil
	}

	return nil, fmt.Errorf("response carries neither %q nor \"data\"", key)
}

// decodeObject is decodeList's single-record counterpart.
func decodeObject[T any](raw []byte, key string) (T, error) {
	var item T
	if len(raw) == 0 {
		return item, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		for _, candidate := range []string{key, "data"} {
			if value, ok := envelope[candidate]; ok {
				// A bare scalar under the key is not the record itself.
				var candidate T
				if err := json.Unmarshal(value, &candidate); err == nil {
					return candidate, nil
				}
			}
		}
	}

	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("unexpected response shape: %w", err)
	}
	return item, nil
}

// Join runs independent fetches concurrently and waits for all of them.
// Each fetch keeps its own error so a partial failure never silently
// corrupts the rest of the load.
func Join(fetches ...func() error) []error {
	var wg sync.WaitGroup
	errs := make([]error, len(fetches))

	wg.Add(len(fetches))
	for i, fetch := range fetches {
		go func(i int, fetch func() error) {
			defer wg.Done()
			errs[i] = fetch()
		}(i, fetch)
	}
	wg.Wait()

	return errs
}
