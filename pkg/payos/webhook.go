package payos

import (
	"bytes"
	"crypto/hmac"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Webhook is the payload PayOS posts after a payment attempt.
type Webhook struct {
	Code      string          `json:"code"`
	Desc      string          `json:"desc"`
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Signature string          `json:"signature"`
}

type WebhookData struct {
	OrderCode           int64  `json:"orderCode"`
	Amount              int64  `json:"amount"`
	Description         string `json:"description"`
	AccountNumber       string `json:"accountNumber"`
	Reference           string `json:"reference"`
	TransactionDateTime string `json:"transactionDateTime"`
	Currency            string `json:"currency"`
	PaymentLinkID       string `json:"paymentLinkId"`
	Code                string `json:"code"`
	Desc                string `json:"desc"`
}

func (w *Webhook) Payload() (*WebhookData, error) {
	var d WebhookData
	if err := json.Unmarshal(w.Data, &d); err != nil {
		return nil, fmt.Errorf("payos: decode webhook data: %w", err)
	}
	return &d, nil
}

// Paid reports whether the webhook confirms a successful payment.
func (d *WebhookData) Paid() bool {
	return d.Code == codeSuccess
}

// VerifyWebhook checks the signature computed over the data fields sorted by key.
// Verification is skipped when no checksum key is configured.
func (c *Client) VerifyWebhook(w *Webhook) error {
	if c.cfg.ChecksumKey == "" {
		return nil
	}
	data, err := canonicalData(w.Data)
	if err != nil {
		return err
	}
	expected := sign(c.cfg.ChecksumKey, data)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(w.Signature))) {
		return ErrInvalidSignature
	}
	return nil
}

// WebhookSignature signs raw webhook data the way PayOS does.
func (c *Client) WebhookSignature(raw json.RawMessage) (string, error) {
	data, err := canonicalData(raw)
	if err != nil {
		return "", err
	}
	return sign(c.cfg.ChecksumKey, data), nil
}

func canonicalData(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return "", fmt.Errorf("payos: decode webhook data: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(fields[k]))
	}
	return strings.Join(parts, "&"), nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		if t == "null" || t == "undefined" {
			return ""
		}
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
