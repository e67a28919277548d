// Package payos is a small client for the PayOS payment link API.
package payos

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultBaseURL = "https://api-merchant.payos.vn"

	// MaxDescriptionLength is the longest description PayOS accepts for a payment link.
	MaxDescriptionLength = 25

	codeSuccess = "00"
)

var (
	ErrInvalidRequest   = errors.New("payos: invalid payment request")
	ErrInvalidSignature = errors.New("payos: invalid webhook signature")
	ErrNoCheckoutURL    = errors.New("payos: response has no checkout url")
	ErrEmptyData        = errors.New("payos: response has no data")
)

// APIError is a non-success answer from PayOS.
type APIError struct {
	Status int
	Code   string
	Desc   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payos: http %d code %s: %s", e.Status, e.Code, e.Desc)
}

type Config struct {
	ClientID    string
	APIKey      string
	ChecksumKey string
	BaseURL     string
	Timeout     time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.ClientID != "" && c.cfg.APIKey != "" && c.cfg.ChecksumKey != ""
}

type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type PaymentRequest struct {
	OrderCode    int64  `json:"orderCode"`
	Amount       int64  `json:"amount"`
	Description  string `json:"description"`
	BuyerName    string `json:"buyerName,omitempty"`
	BuyerEmail   string `json:"buyerEmail,omitempty"`
	BuyerPhone   string `json:"buyerPhone,omitempty"`
	BuyerAddress string `json:"buyerAddress,omitempty"`
	Items        []Item `json:"items"`
	CancelURL    string `json:"cancelUrl"`
	ReturnURL    string `json:"returnUrl"`
	ExpiredAt    int64  `json:"expiredAt,omitempty"`
	Signature    string `json:"signature"`
}

func (r *PaymentRequest) Validate() error {
	switch {
	case r.OrderCode <= 0:
		return fmt.Errorf("%w: orderCode must be positive", ErrInvalidRequest)
	case r.Amount <= 0:
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	case r.Description == "":
		return fmt.Errorf("%w: description is required", ErrInvalidRequest)
	case utf8.RuneCountInString(r.Description) > MaxDescriptionLength:
		return fmt.Errorf("%w: description longer than %d characters", ErrInvalidRequest, MaxDescriptionLength)
	case len(r.Items) == 0:
		return fmt.Errorf("%w: items are required", ErrInvalidRequest)
	case r.ReturnURL == "" || r.CancelURL == "":
		return fmt.Errorf("%w: returnUrl and cancelUrl are required", ErrInvalidRequest)
	}
	return nil
}

// CheckoutData is the data block of a created payment link.
type CheckoutData struct {
	Bin           string `json:"bin"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	Amount        int64  `json:"amount"`
	Description   string `json:"description"`
	OrderCode     int64  `json:"orderCode"`
	Currency      string `json:"currency"`
	PaymentLinkID string `json:"paymentLinkId"`
	Status        string `json:"status"`
	CheckoutURL   string `json:"checkoutUrl"`
	QRCode        string `json:"qrCode"`
}

type envelope struct {
	Code      string          `json:"code"`
	Desc      string          `json:"desc"`
	Data      json.RawMessage `json:"data"`
	Signature string          `json:"signature"`
}

// TruncateDescription cuts s to MaxDescriptionLength runes.
func TruncateDescription(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxDescriptionLength {
		return s
	}
	r := []rune(s)
	return string(r[:MaxDescriptionLength])
}

// PaymentRequestSignature signs the fields PayOS checks on link creation.
func (c *Client) PaymentRequestSignature(r *PaymentRequest) string {
	data := fmt.Sprintf("amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		r.Amount, r.CancelURL, r.Description, r.OrderCode, r.ReturnURL)
	return sign(c.cfg.ChecksumKey, data)
}

func sign(key, data string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// CreatePaymentLink registers a payment link. The call is never retried.
func (c *Client) CreatePaymentLink(ctx context.Context, req PaymentRequest) (*CheckoutData, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Signature = c.PaymentRequestSignature(&req)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var data CheckoutData
	if err := c.do(ctx, http.MethodPost, "/v2/payment-requests", body, &data); err != nil {
		if errors.Is(err, ErrEmptyData) {
			return nil, ErrNoCheckoutURL
		}
		return nil, err
	}
	if data.CheckoutURL == "" {
		return nil, ErrNoCheckoutURL
	}
	return &data, nil
}

// Payment link statuses reported by GetPaymentLink.
const (
	LinkPending    = "PENDING"
	LinkProcessing = "PROCESSING"
	LinkPaid       = "PAID"
	LinkCancelled  = "CANCELLED"
	LinkExpired    = "EXPIRED"
)

// PaymentLink is the gateway's current view of a payment link.
type PaymentLink struct {
	ID              string `json:"id"`
	OrderCode       int64  `json:"orderCode"`
	Amount          int64  `json:"amount"`
	AmountPaid      int64  `json:"amountPaid"`
	AmountRemaining int64  `json:"amountRemaining"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
	CanceledAt      string `json:"canceledAt,omitempty"`
}

// Paid reports whether the link was paid in full.
func (l *PaymentLink) Paid() bool {
	return l.Status == LinkPaid && l.AmountRemaining <= 0
}

// Closed reports whether the link can no longer be paid.
func (l *PaymentLink) Closed() bool {
	return l.Status == LinkCancelled || l.Status == LinkExpired
}

// GetPaymentLink fetches a link by payment link id or order code.
func (c *Client) GetPaymentLink(ctx context.Context, id string) (*PaymentLink, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: payment link id is required", ErrInvalidRequest)
	}
	var link PaymentLink
	if err := c.do(ctx, http.MethodGet, "/v2/payment-requests/"+url.PathEscape(id), nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// do sends an authenticated request and decodes the data block of the reply into out.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.BaseURL, "/")+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("x-client-id", c.cfg.ClientID)
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("payos: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("payos: read response: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Status: resp.StatusCode, Desc: strings.TrimSpace(string(raw))}
	}
	if resp.StatusCode >= 300 || env.Code != codeSuccess {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Desc: env.Desc}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrEmptyData
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("payos: decode data: %w", err)
	}
	return nil
}
