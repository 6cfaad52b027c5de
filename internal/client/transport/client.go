// Package transport implements the client side of the sync wire contract:
// one batch upload and one verification query, JSON over HTTP. The transport
// performs no retries; retry policy belongs to the caller.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/model"
)

// Client talks to one anchoring gateway.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New returns a Client for the gateway at baseURL. The timeout bounds every
// request end to end, so callers get a failure outcome instead of a hang
// when the gateway is unreachable.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}
}

// UploadBatch posts records as one JSON array and returns the per-record
// receipts. A single attempt is made; any failure is reported as
// common.ErrTransport and the caller decides whether to call again.
func (c *Client) UploadBatch(ctx context.Context, records []*model.Record) ([]model.RecordReceipt, error) {
	body, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync/records", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: post /sync/records: %v", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: gateway returned %s: %s", common.ErrTransport, resp.Status, string(b))
	}

	var sr model.SyncResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", common.ErrTransport, err)
	}

	return sr.Results, nil
}

// Verify asks the gateway whether a ledger entry exists for recordHash.
func (c *Client) Verify(ctx context.Context, recordHash string) (*model.VerifyResult, error) {
	u := c.baseURL + "/verify/" + url.PathEscape(recordHash)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get /verify: %v", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway returned %s", common.ErrTransport, resp.Status)
	}

	var vr model.VerifyResult
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", common.ErrTransport, err)
	}
	return &vr, nil
}

// Ping probes gateway reachability. Used by the CLI's online indicator.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: get /healthz: %v", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gateway returned %s", common.ErrTransport, resp.Status)
	}
	return nil
}
