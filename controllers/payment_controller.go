package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/payos"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

type PaymentController struct {
	Svc *services.PaymentService
}

func NewPaymentController(s *services.PaymentService) *PaymentController {
	return &PaymentController{Svc: s}
}

func orderCodeParam(c *gin.Context) (int64, bool) {
	code, err := strconv.ParseInt(c.Param("orderCode"), 10, 64)
	if err != nil || code <= 0 {
		resp.BadRequest(c, "invalid orderCode")
		return 0, false
	}
	return code, true
}

// POST /payment-transactions
func (h *PaymentController) Create(c *gin.Context) {
	var in services.CreatePaymentIn
	if !bind(c, &in) {
		return
	}
	txn, err := h.Svc.CreateOrUpdate(c.Request.Context(), utils.CurrentUserID(c), &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, txn)
}

// PUT /payment-transactions
func (h *PaymentController) Update(c *gin.Context) {
	var in services.CreatePaymentIn
	if !bind(c, &in) {
		return
	}
	txn, err := h.Svc.Update(c.Request.Context(), utils.CurrentUserID(c), &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, txn)
}

// GET /payment-transactions
func (h *PaymentController) List(c *gin.Context) {
	txns, err := h.Svc.ListForUser(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, txns)
}

// GET /payment-transactions/:orderCode
func (h *PaymentController) Get(c *gin.Context) {
	code, ok := orderCodeParam(c)
	if !ok {
		return
	}
	txn, err := h.Svc.GetByOrderCode(actorOf(c), code)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, txn)
}

// DELETE /payment-transactions/:orderCode
func (h *PaymentController) Delete(c *gin.Context) {
	code, ok := orderCodeParam(c)
	if !ok {
		return
	}
	actor := actorOf(c)
	if err := h.Svc.DeleteByOrderCode(&actor, code); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

// POST /webhook/payos
// Unknown order codes are acknowledged so the gateway's test ping succeeds.
func (h *PaymentController) Webhook(c *gin.Context) {
	var wh payos.Webhook
	if !bind(c, &wh) {
		return
	}
	txn, err := h.Svc.HandleWebhook(c.Request.Context(), &wh)
	switch {
	case errors.Is(err, services.ErrNotFound):
		logger.InfoContext(c.Request.Context(), "webhook for unknown transaction acknowledged", "err", err)
		resp.OK(c, gin.H{"received": true})
	case err != nil:
		resp.Error(c, err)
	default:
		resp.OK(c, gin.H{"received": true, "orderCode": txn.OrderCode, "status": txn.TransactionStatus})
	}
}
