package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Fetch stages reported by FetchError
const (
	StageRequest = "request"
	StageStatus  = "status"
	StageDecode  = "decode"
)

// FetchError describes a failed listing fetch. It is never retried by the client.
type FetchError struct {
	Stage      string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Stage == StageStatus:
		return fmt.Sprintf("fetch airdrops: status %d: %s", e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("fetch airdrops: %s: %v", e.Stage, e.Err)
	default:
		return "fetch airdrops: " + e.Stage
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err wraps a *FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

const maxErrorBody = 512

// Client fetches campaign snapshots from the alpha airdrop endpoint
type Client struct {
	url        string
	rows       int
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
}

// NewClient creates a new airdrop listing client
func NewClient(url string, rows int, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if rows <= 0 {
		rows = 20
	}
	return &Client{
		url:        url,
		rows:       rows,
		httpClient: httpClient,
		// poll loop and commands share the client, ~4 RPS
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
		log:     log,
	}
}

// FetchAirdrops returns the first page of campaigns in response order
func (c *Client) FetchAirdrops(ctx context.Context) ([]Airdrop, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Stage: StageRequest, Err: err}
	}

	payload, err := json.Marshal(QueryRequest{Page: 1, Rows: c.rows})
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, Err: fmt.Errorf("marshal body: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Stage:      StageStatus,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(data), maxErrorBody),
		}
	}

	var out AirdropResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &FetchError{Stage: StageDecode, StatusCode: resp.StatusCode, Err: err}
	}

	airdrops := out.Airdrops()
	c.log.Info("fetched airdrop configs", "count", len(airdrops))
	return airdrops, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
