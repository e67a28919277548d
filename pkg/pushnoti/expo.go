// Package pushnoti sends notifications through the Expo push service.
package pushnoti

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultURL = "https://exp.host/--/api/v2/push/send"

	// MaxChunkSize is the number of messages Expo accepts per request.
	MaxChunkSize = 100
)

type Message struct {
	To       string         `json:"to"`
	Title    string         `json:"title,omitempty"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data,omitempty"`
	Sound    string         `json:"sound,omitempty"`
	Priority string         `json:"priority,omitempty"`
}

type Ticket struct {
	Status  string         `json:"status"`
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Result accumulates the outcome of every chunk.
type Result struct {
	Tickets []Ticket
	Sent    int
	Failed  int
	Errors  []error
}

type Client struct {
	url  string
	http *http.Client
}

func New(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// IsExpoPushToken reports whether tok looks like an Expo push token.
func IsExpoPushToken(tok string) bool {
	return (strings.HasPrefix(tok, "ExponentPushToken[") || strings.HasPrefix(tok, "ExpoPushToken[")) &&
		strings.HasSuffix(tok, "]")
}

// Send delivers msgs in sequential chunks. A failed chunk does not stop the
// rest; an error is returned only when nothing could be delivered.
func (c *Client) Send(ctx context.Context, msgs []Message) (*Result, error) {
	res := &Result{}
	valid := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if !IsExpoPushToken(m.To) {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("pushnoti: invalid token %q", m.To))
			continue
		}
		if m.Sound == "" {
			m.Sound = "default"
		}
		valid = append(valid, m)
	}

	for start := 0; start < len(valid); start += MaxChunkSize {
		end := min(start+MaxChunkSize, len(valid))
		chunk := valid[start:end]
		tickets, err := c.sendChunk(ctx, chunk)
		if err != nil {
			res.Failed += len(chunk)
			res.Errors = append(res.Errors, err)
			continue
		}
		for _, t := range tickets {
			if t.Status == "ok" {
				res.Sent++
			} else {
				res.Failed++
				res.Errors = append(res.Errors, fmt.Errorf("pushnoti: ticket error: %s", t.Message))
			}
		}
		res.Tickets = append(res.Tickets, tickets...)
	}

	if res.Sent == 0 && len(res.Errors) > 0 {
		return res, errors.Join(res.Errors...)
	}
	return res, nil
}

func (c *Client) sendChunk(ctx context.Context, chunk []Message) ([]Ticket, error) {
	body, err := json.Marshal(chunk)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pushnoti: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("pushnoti: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var out struct {
		Data []Ticket `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("pushnoti: decode response: %w", err)
	}
	return out.Data, nil
}
