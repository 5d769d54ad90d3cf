// Package client provides HTTP adapters for external delivery services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("client/push")

// PushClient delivers push messages through an external push gateway.
type PushClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewPushClient creates a push gateway client.
func NewPushClient(httpClient *http.Client, baseURL, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *PushClient {
	return &PushClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cb:         cb,
		cfg:        cfg,
		logger:     logger,
	}
}

type pushRequest struct {
	Tokens []string `json:"tokens"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
}

// Send delivers a message to the given device tokens. The gateway is
// wrapped in the circuit breaker; a single attempt per dispatch, no
// retry, since duplicate pushes annoy customers more than missed ones.
func (c *PushClient) Send(ctx context.Context, tokens []string, title, body string) error {
	ctx, span := tracer.Start(ctx, "PushClient.Send")
	defer span.End()

	if len(tokens) == 0 {
		return nil
	}

	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.doSend(ctx, tokens, title, body)
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "push-gateway", Err: err}
	}
	return nil
}

func (c *PushClient) doSend(ctx context.Context, tokens []string, title, body string) error {
	payload, err := json.Marshal(pushRequest{Tokens: tokens, Title: title, Body: body})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1/messages", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("push: request failed", zap.Int("tokens", len(tokens)), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("push: non-2xx response",
			zap.Int("status", resp.StatusCode),
			zap.Int("tokens", len(tokens)),
		)
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	c.logger.Debug("push: delivered", zap.Int("tokens", len(tokens)))
	return nil
}
