package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// TextMessage is the WeCom group robot text payload
type TextMessage struct {
	MsgType string      `json:"msgtype"`
	Text    TextContent `json:"text"`
}

type TextContent struct {
	Content string `json:"content"`
}

// robotResponse is what the robot answers; other webhooks may answer anything
type robotResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Client posts text messages to a chat webhook
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a webhook client. An empty url yields a nil, disabled client.
func New(url string, httpClient *http.Client) *Client {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		url:        url,
		httpClient: httpClient,
		// the robot accepts 20 messages per minute
		limiter: rate.NewLimiter(rate.Every(3*time.Second), 5),
	}
}

// Name identifies the channel in logs
func (c *Client) Name() string {
	return "wechat"
}

// Enabled reports whether a target URL is configured
func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

// Send posts content as a text message
func (c *Client) Send(ctx context.Context, content string) error {
	if !c.Enabled() {
		return fmt.Errorf("webhook not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(TextMessage{
		MsgType: "text",
		Text:    TextContent{Content: content},
	})
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, string(data))
	}

	var rr robotResponse
	if json.Unmarshal(data, &rr) == nil && rr.ErrCode != 0 {
		return fmt.Errorf("webhook errcode %d: %s", rr.ErrCode, rr.ErrMsg)
	}

	return nil
}
