// file: services/backend_client.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"go-facilities-admin/logger"
	"go-facilities-admin/payload"
)

// maxResponseBytes caps how much of a backend body is read.
const maxResponseBytes = 10 << 20

// Session is the authentication material of one operator.
type Session struct {
	User  string
	Token string
	Host  string
}

// Request carries the inputs of one backend call.
type Request struct {
	Query      url.Values
	JSON       any
	Payload    *payload.Payload
	PathParams map[string]string
}

// BackendError is a failed backend call. Message holds the text the backend
// supplied, if any.
type BackendError struct {
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("request failed with status code %d", e.Status)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ServerMessage implements resource.ServerMessager.
func (e *BackendError) ServerMessage() string { return e.Message }

// ClientOptions configures a BackendClient.
type ClientOptions struct {
	Timeout    time.Duration
	Metrics    MetricsPublisher
	Tracing    bool
	HTTPClient *http.Client
}

// BackendClient sends one HTTP request per call to the operator's backend.
// It never retries.
type BackendClient struct {
	http    *http.Client
	timeout time.Duration
	metrics MetricsPublisher
	tracing bool
}

// NewBackendClient builds a client. Tracing wraps the transport with X-Ray.
func NewBackendClient(opts ClientOptions) *BackendClient {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if opts.Tracing {
		hc = xray.Client(hc)
	}
	m := opts.Metrics
	if m == nil {
		m = NoopMetrics{}
	}
	return &BackendClient{http: hc, timeout: opts.Timeout, metrics: m, tracing: opts.Tracing}
}

// Do performs ep for s and returns the raw response body of a 2xx answer.
// Every other outcome is a *BackendError.
func (c *BackendClient) Do(ctx context.Context, ep Endpoint, s Session, req Request) (body []byte, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if c.tracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, "backend."+ep.Name)
		defer func() { seg.Close(err) }()
	}

	started := time.Now()
	defer func() {
		c.metrics.PublishRequest(ep.Name, time.Since(started), err == nil)
	}()

	httpReq, err := c.newRequest(ctx, ep, s, req)
	if err != nil {
		return nil, &BackendError{Endpoint: ep.Name, Err: err}
	}
	logger.Debug.Printf("[BackendClient.Do] %s %s %s", ep.Name, httpReq.Method, httpReq.URL.Path)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.Warn.Printf("[BackendClient.Do] %s transport error: %v", ep.Name, err)
		return nil, &BackendError{Endpoint: ep.Name, Err: err}
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &BackendError{Endpoint: ep.Name, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Info.Printf("[BackendClient.Do] %s answered %d", ep.Name, resp.StatusCode)
		return nil, &BackendError{Endpoint: ep.Name, Status: resp.StatusCode, Message: serverMessage(body)}
	}
	return body, nil
}

func (c *BackendClient) newRequest(ctx context.Context, ep Endpoint, s Session, req Request) (*http.Request, error) {
	target, err := ep.URL(s.Host, req.PathParams)
	if err != nil {
		return nil, err
	}
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	var contentType string
	switch ep.Encoding {
	case EncodingJSON:
		if req.JSON != nil {
			raw, err := json.Marshal(req.JSON)
			if err != nil {
				return nil, fmt.Errorf("encode json body: %w", err)
			}
			body, contentType = bytes.NewReader(raw), "application/json"
		}
	case EncodingForm:
		if req.Payload != nil {
			body, contentType = strings.NewReader(req.Payload.Encode()), "application/x-www-form-urlencoded"
		}
	case EncodingMultipart:
		if req.Payload != nil {
			body, contentType, err = req.Payload.Multipart()
			if err != nil {
				return nil, fmt.Errorf("encode multipart body: %w", err)
			}
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, ep.Method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if s.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return httpReq, nil
}

// serverMessage extracts a human-readable message from an error body.
func serverMessage(body []byte) string {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := doc[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return firstMessage(doc["errors"])
}

func firstMessage(v any) string {
	switch e := v.(type) {
	case string:
		return strings.TrimSpace(e)
	case []any:
		for _, item := range e {
			if msg := firstMessage(item); msg != "" {
				return msg
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(e))
		for k := range e {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg := firstMessage(e[k]); msg != "" {
				return msg
			}
		}
	}
	return ""
}

// Decode unmarshals a response body into T. An empty body yields the zero value.
func Decode[T any](body []byte) (T, error) {
	var out T
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// IsBackendError reports whether err is a *BackendError and returns it.
func IsBackendError(err error) (*BackendError, bool) {
	var be *BackendError
	ok := errors.As(err, &be)
	return be, ok
}
