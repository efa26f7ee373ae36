// Package transport provides the reference HTTP implementation of the
// transport collaborator: reads and sends travel as JSON over a gateway
// that fronts the actor network.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ALLiDoizCode/adp-relay/core"
	"github.com/ALLiDoizCode/adp-relay/resilience"
)

// HTTPTransport talks to an actor gateway over HTTP. Reads POST to
// /actors/{id}/read, sends POST to /actors/{id}/message with the
// credential as a bearer token. Transient failures (5xx, network) are
// retried with backoff.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
	retry   *resilience.RetryConfig
	logger  core.Logger
}

// HTTPOption customizes an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithRetryConfig replaces the default retry policy.
func WithRetryConfig(cfg *resilience.RetryConfig) HTTPOption {
	return func(t *HTTPTransport) {
		if cfg != nil {
			t.retry = cfg
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger core.Logger) HTTPOption {
	return func(t *HTTPTransport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewHTTPTransport creates a transport against a gateway base URL. The
// default client carries OTel instrumentation and a 30s timeout.
func NewHTTPTransport(baseURL string, opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		retry:  resilience.DefaultRetryConfig(),
		logger: &core.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type wireMessage struct {
	Tags    []core.Tag `json:"tags"`
	Payload string     `json:"payload,omitempty"`
}

// Read implements core.Transport.
func (t *HTTPTransport) Read(ctx context.Context, actorID string, tags []core.Tag) (*core.Response, error) {
	url := fmt.Sprintf("%s/actors/%s/read", t.baseURL, actorID)
	return t.roundTrip(ctx, url, "", wireMessage{Tags: tags})
}

// Send implements core.Transport.
func (t *HTTPTransport) Send(ctx context.Context, credential core.Credential, actorID string, tags []core.Tag, payload []byte) (*core.Response, error) {
	url := fmt.Sprintf("%s/actors/%s/message", t.baseURL, actorID)
	return t.roundTrip(ctx, url, string(credential), wireMessage{Tags: tags, Payload: string(payload)})
}

func (t *HTTPTransport) roundTrip(ctx context.Context, url, bearer string, msg wireMessage) (*core.Response, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRequestFailed, err)
	}

	var response *core.Response
	err = resilience.Retry(ctx, t.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrRequestFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}

		resp, err := t.client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrConnectionFailed, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
		if err != nil {
			return fmt.Errorf("%w: reading response: %v", core.ErrConnectionFailed, err)
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: gateway returned %d", core.ErrActorUnreachable, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			// ErrRequestFailed is terminal, so Retry stops here.
			t.logger.Warn("Gateway rejected request", map[string]interface{}{
				"url":    url,
				"status": resp.StatusCode,
			})
			return fmt.Errorf("%w: gateway returned %d", core.ErrRequestFailed, resp.StatusCode)
		}

		var wire wireMessage
		if err := json.Unmarshal(data, &wire); err != nil {
			// Not JSON: keep the raw body as payload.
			response = &core.Response{Payload: string(data)}
			return nil
		}
		response = &core.Response{Tags: wire.Tags, Payload: wire.Payload}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
