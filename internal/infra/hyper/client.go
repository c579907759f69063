// Package hyper is the REST client for the Hyperliquid-style perp
// venue: unauthenticated reads on /info, signed writes on /exchange.
package hyper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sidemix/signals-hyperliquid/internal/infra"
)

const MainnetURL = "https://api.hyperliquid.xyz"

// infoRetries is how often the idempotent /info reads are retried on
// transport errors. Writes to /exchange are never transport-retried:
// a lost response could mean a resting order we do not know about.
const infoRetries = 3

// Client talks to the exchange REST API. All calls pass the shared
// rate limiter; order placement additionally sits behind a circuit
// breaker so a hard venue outage fails fast locally.
type Client struct {
	baseURL string
	http    *http.Client
	signer  *Signer
	limiter *infra.RateLimiter
	breaker *infra.CircuitBreaker
}

// NewClient builds a client from config. The signer may be nil in
// dry-run mode; PlaceOrder then refuses to send.
func NewClient(cfg *infra.Config, signer *Signer) *Client {
	url := cfg.API.URL
	if url == "" {
		url = MainnetURL
	}
	return &Client{
		baseURL: url,
		http: &http.Client{
			Timeout: time.Duration(cfg.API.TimeoutSec) * time.Second,
		},
		signer:  signer,
		limiter: infra.NewRateLimiter(10, 5),
		breaker: infra.DefaultCircuitBreaker("hyper-exchange"),
	}
}

// Meta fetches the full instrument universe.
func (c *Client) Meta(ctx context.Context) ([]AssetInfo, error) {
	var resp metaResponse
	if err := c.postInfo(ctx, map[string]any{"type": "meta"}, &resp); err != nil {
		return nil, fmt.Errorf("fetch meta: %w", err)
	}
	return resp.Universe, nil
}

// OpenOrders fetches the account's currently resting orders.
func (c *Client) OpenOrders(ctx context.Context) ([]OpenOrder, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("open orders: no account configured")
	}
	var resp []OpenOrder
	payload := map[string]any{"type": "openOrders", "user": c.signer.Account()}
	if err := c.postInfo(ctx, payload, &resp); err != nil {
		return nil, fmt.Errorf("fetch open orders: %w", err)
	}
	return resp, nil
}

// PlaceOrder submits a single order and returns its status. A
// rejection reported by the venue comes back as *OrderError; anything
// else is a transport failure.
func (c *Client) PlaceOrder(ctx context.Context, order OrderRequest) (*OrderStatus, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("place order: no signer configured")
	}
	if !c.breaker.Allow() {
		return nil, fmt.Errorf("place order: circuit breaker open")
	}

	req := exchangeRequest{
		Action: orderAction{Type: "order", Orders: []OrderRequest{order}, Grouping: "na"},
		Nonce:  time.Now().UnixMilli(),
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	c.limiter.Wait()
	raw, err := c.post(ctx, c.baseURL+"/exchange", body, c.signer.Headers(body))
	if err != nil {
		c.breaker.RecordFailure()
		return nil, err
	}
	c.breaker.RecordSuccess()

	var resp exchangeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode exchange response: %w", err)
	}
	if resp.Status != "ok" {
		var msg string
		if err := json.Unmarshal(resp.Response, &msg); err != nil {
			msg = string(resp.Response)
		}
		return nil, &OrderError{Msg: msg}
	}

	var data orderResponseData
	if err := json.Unmarshal(resp.Response, &data); err != nil {
		return nil, fmt.Errorf("decode order statuses: %w", err)
	}
	if len(data.Data.Statuses) == 0 {
		return nil, fmt.Errorf("exchange returned no order status")
	}
	status := data.Data.Statuses[0]
	if status.Error != "" {
		return nil, &OrderError{Msg: status.Error}
	}
	return &status, nil
}

// postInfo sends one read request to /info with bounded transport
// retries and decodes the JSON response into out.
func (c *Client) postInfo(ctx context.Context, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	headers := map[string]string{"Content-Type": "application/json"}

	var lastErr error
	for attempt := 0; attempt < infoRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(infra.CalculateBackoff(attempt - 1)):
			}
		}
		c.limiter.Wait()
		raw, err := c.post(ctx, c.baseURL+"/info", body, headers)
		if err != nil {
			lastErr = err
			slog.Warn("info request failed",
				slog.Int("attempt", attempt+1),
				slog.Any("error", err))
			continue
		}
		return json.Unmarshal(raw, out)
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, url string, body []byte, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("post %s: status %d: %s", url, resp.StatusCode, raw)
	}
	return raw, nil
}
