package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

type OrderController struct {
	Svc *services.OrderService
}

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{Svc: s}
}

// POST /orders
func (oc *OrderController) Create(c *gin.Context) {
	var in services.CreateOrderIn
	if !bind(c, &in) {
		return
	}
	order, err := oc.Svc.CreateFromCart(c.Request.Context(), utils.CurrentUserID(c), in.CartID, in.UseLoyaltyPoints)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, order)
}

// GET /orders
func (oc *OrderController) ListMine(c *gin.Context) {
	orders, err := oc.Svc.ListForUser(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, orders)
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	d, err := oc.Svc.GetDetailsFor(actorOf(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, d)
}

// PATCH /orders/:id/advance
func (oc *OrderController) Advance(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := oc.Svc.AdvanceStatus(c.Request.Context(), id, actorOf(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}
