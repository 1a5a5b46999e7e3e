// Package whatsapp sends text messages through the WhatsApp Business Cloud API.
package whatsapp

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

// Client is a dispatch channel backed by the Cloud API messages endpoint. Sends are
// throttled by a token bucket so a large catch-up run stays under the account's
// messaging rate.
type Client struct {
	baseURL       string
	token         string
	phoneNumberID string
	http          *http.Client
	limiter       *rate.Limiter
}

type Options struct {
	BaseURL       string
	Token         string
	PhoneNumberID string
	RatePerSecond int
	Timeout       time.Duration
}

func NewClient(o Options) *Client {
	rps := o.RatePerSecond
	if rps <= 0 {
		rps = 20
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(o.BaseURL, "/"),
		token:         o.Token,
		phoneNumberID: o.PhoneNumberID,
		http:          &http.Client{Timeout: timeout},
		limiter:       rate.NewLimiter(rate.Limit(rps), rps),
	}
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendMessage posts a text message to the given number. It reports true only when the
// API accepted the message and returned a message id.
func (c *Client) SendMessage(ctx context.Context, to, message string) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	msg := textMessage{MessagingProduct: "whatsapp", To: NormalizeNumber(to), Type: "text"}
	msg.Text.Body = message
	body, err := json.Marshal(msg)
	if err != nil {
		return false, err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("whatsapp read response: %w", err)
	}
	var out sendResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode >= 300 {
		if out.Error != nil {
			return false, fmt.Errorf("whatsapp send: status %d: %s (code %d)", resp.StatusCode, out.Error.Message, out.Error.Code)
		}
		return false, fmt.Errorf("whatsapp send: status %d", resp.StatusCode)
	}
	return len(out.Messages) > 0 && out.Messages[0].ID != "", nil
}

// NormalizeNumber strips everything but digits, the form the Cloud API expects.
func NormalizeNumber(n string) string {
	var b strings.Builder
	for _, r := range n {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
