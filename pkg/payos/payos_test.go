package payos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testRequest() PaymentRequest {
	return PaymentRequest{
		OrderCode:   1700000000123,
		Amount:      70000,
		Description: "Order 1700000000123",
		Items:       []Item{{Name: "Pho", Quantity: 2, Price: 35000}},
		ReturnURL:   "http://localhost/payment-success",
		CancelURL:   "http://localhost/payment-cancel",
	}
}

func TestCreatePaymentLink(t *testing.T) {
	var got PaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/payment-requests" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-client-id") != "cid" || r.Header.Get("x-api-key") != "key" {
			t.Errorf("missing credential headers")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(`{"code":"00","desc":"success","data":{"checkoutUrl":"https://pay.payos.vn/web/abc","paymentLinkId":"abc","orderCode":1700000000123}}`))
	}))
	defer srv.Close()

	c := New(Config{ClientID: "cid", APIKey: "key", ChecksumKey: "secret", BaseURL: srv.URL})
	req := testRequest()
	data, err := c.CreatePaymentLink(context.Background(), req)
	if err != nil {
		t.Fatalf("CreatePaymentLink: %v", err)
	}
	if data.CheckoutURL != "https://pay.payos.vn/web/abc" || data.PaymentLinkID != "abc" {
		t.Fatalf("unexpected data %+v", data)
	}
	if got.Signature != c.PaymentRequestSignature(&req) {
		t.Fatalf("signature %q not sent", got.Signature)
	}
}

func TestCreatePaymentLinkWithoutCheckoutURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00","desc":"success","data":null}`))
	}))
	defer srv.Close()

	c := New(Config{ClientID: "cid", APIKey: "key", ChecksumKey: "secret", BaseURL: srv.URL})
	if _, err := c.CreatePaymentLink(context.Background(), testRequest()); !errors.Is(err, ErrNoCheckoutURL) {
		t.Fatalf("err = %v; want ErrNoCheckoutURL", err)
	}
}

func TestCreatePaymentLinkGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"231","desc":"order already exists"}`))
	}))
	defer srv.Close()

	c := New(Config{ClientID: "cid", APIKey: "key", ChecksumKey: "secret", BaseURL: srv.URL})
	_, err := c.CreatePaymentLink(context.Background(), testRequest())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "231" {
		t.Fatalf("err = %v; want APIError 231", err)
	}
}

func TestPaymentRequestValidate(t *testing.T) {
	cases := map[string]func(*PaymentRequest){
		"no items":         func(r *PaymentRequest) { r.Items = nil },
		"zero amount":      func(r *PaymentRequest) { r.Amount = 0 },
		"long description": func(r *PaymentRequest) { r.Description = "this description is far too long" },
		"missing urls":     func(r *PaymentRequest) { r.ReturnURL = "" },
	}
	for name, mutate := range cases {
		r := testRequest()
		mutate(&r)
		if err := r.Validate(); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestTruncateDescription(t *testing.T) {
	got := TruncateDescription("Thanh toán đơn hàng tại Quán Ăn Ngon")
	if n := len([]rune(got)); n != MaxDescriptionLength {
		t.Fatalf("len = %d", n)
	}
	if TruncateDescription("short") != "short" {
		t.Fatal("short description changed")
	}
}

func TestVerifyWebhook(t *testing.T) {
	c := New(Config{ChecksumKey: "secret"})
	raw := json.RawMessage(`{"orderCode":123,"amount":70000,"description":"x","code":"00","desc":"ok","reference":null}`)
	sig, err := c.WebhookSignature(raw)
	if err != nil {
		t.Fatal(err)
	}
	wh := &Webhook{Code: "00", Success: true, Data: raw, Signature: sig}
	if err := c.VerifyWebhook(wh); err != nil {
		t.Fatalf("VerifyWebhook: %v", err)
	}
	d, err := wh.Payload()
	if err != nil || d.OrderCode != 123 || !d.Paid() {
		t.Fatalf("payload = %+v, %v", d, err)
	}

	wh.Signature = "deadbeef"
	if err := c.VerifyWebhook(wh); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v; want ErrInvalidSignature", err)
	}
}

func TestGetPaymentLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v2/payment-requests/abc" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-client-id") != "cid" || r.Header.Get("x-api-key") != "key" {
			t.Errorf("missing credential headers")
		}
		w.Write([]byte(`{"code":"00","desc":"success","data":{"id":"abc","orderCode":1700000000123,"amount":70000,"amountPaid":70000,"amountRemaining":0,"status":"PAID"}}`))
	}))
	defer srv.Close()

	c := New(Config{ClientID: "cid", APIKey: "key", ChecksumKey: "secret", BaseURL: srv.URL})
	link, err := c.GetPaymentLink(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetPaymentLink: %v", err)
	}
	if link.OrderCode != 1700000000123 || !link.Paid() || link.Closed() {
		t.Fatalf("link = %+v", link)
	}

	if _, err := c.GetPaymentLink(context.Background(), " "); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("blank id err = %v", err)
	}
}

func TestPaymentLinkStates(t *testing.T) {
	cases := []struct {
		link         PaymentLink
		paid, closed bool
	}{
		{PaymentLink{Status: LinkPending, AmountRemaining: 100}, false, false},
		{PaymentLink{Status: LinkPaid, AmountRemaining: 0}, true, false},
		{PaymentLink{Status: LinkPaid, AmountRemaining: 10}, false, false},
		{PaymentLink{Status: LinkCancelled}, false, true},
		{PaymentLink{Status: LinkExpired}, false, true},
	}
	for _, tc := range cases {
		if tc.link.Paid() != tc.paid || tc.link.Closed() != tc.closed {
			t.Errorf("%s remaining %d: paid=%v closed=%v", tc.link.Status, tc.link.AmountRemaining, tc.link.Paid(), tc.link.Closed())
		}
	}
}
