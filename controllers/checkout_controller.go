package controllers

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
)

// CheckoutController serves the pages the gateway redirects the browser to.
type CheckoutController struct {
	Svc *services.CheckoutService
}

func NewCheckoutController(s *services.CheckoutService) *CheckoutController {
	return &CheckoutController{Svc: s}
}

var resultPage = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; text-align: center; padding: 40px;">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{if .OrderID}}<p>Order #{{.OrderID}}</p>{{end}}
<p>You can return to the NOM app now.</p>
</body></html>`))

type resultData struct {
	Title   string
	Message string
	OrderID uint
}

func renderResult(c *gin.Context, status int, data resultData) {
	var buf bytes.Buffer
	if err := resultPage.Execute(&buf, data); err != nil {
		resp.ServerError(c, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func queryOrderCode(c *gin.Context) (int64, bool) {
	code, err := strconv.ParseInt(c.Query("orderCode"), 10, 64)
	if err != nil || code <= 0 {
		renderResult(c, http.StatusBadRequest, resultData{Title: "Payment failed", Message: "The payment link is invalid."})
		return 0, false
	}
	return code, true
}

// GET /payment-success?orderCode=&status=
func (h *CheckoutController) Success(c *gin.Context) {
	code, ok := queryOrderCode(c)
	if !ok {
		return
	}
	out, err := h.Svc.HandlePaymentReturn(c.Request.Context(), code, c.Query("status"))
	if err != nil {
		renderResult(c, resp.Status(err), resultData{Title: "Payment failed", Message: err.Error()})
		return
	}
	if out.Cancelled {
		renderResult(c, http.StatusOK, resultData{Title: "Payment cancelled", Message: "Your payment was cancelled."})
		return
	}
	data := resultData{Title: "Payment successful", Message: "Your order has been placed."}
	if out.Order != nil {
		data.OrderID = out.Order.ID
	}
	renderResult(c, http.StatusOK, data)
}

// GET /payment-cancel?orderCode=
func (h *CheckoutController) Cancel(c *gin.Context) {
	code, ok := queryOrderCode(c)
	if !ok {
		return
	}
	out, err := h.Svc.HandlePaymentCancel(c.Request.Context(), code)
	if err != nil {
		renderResult(c, resp.Status(err), resultData{Title: "Payment cancelled", Message: err.Error()})
		return
	}
	data := resultData{Title: "Payment cancelled", Message: "Your payment was cancelled."}
	if out.Order != nil {
		data.OrderID = out.Order.ID
	}
	renderResult(c, http.StatusOK, data)
}
