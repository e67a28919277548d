package resp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/services"
)

func TestStatusMapsServiceErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: cart not found", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: quantity", services.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: stale", services.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: payos", services.ErrUpstream), http.StatusBadGateway},
		{fmt.Errorf("%w: owner", services.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: token", services.ErrUnauthorized), http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Errorf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestErrorWritesUpstreamDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/payment-transactions", nil)

	Error(c, fmt.Errorf("%w: payos: timeout", services.ErrUpstream))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["ok"] != false || body["detail"] == nil {
		t.Fatalf("body = %v", body)
	}
}
