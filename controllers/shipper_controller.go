package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

type ShipperController struct {
	Orders *services.OrderService
}

func NewShipperController(orders *services.OrderService) *ShipperController {
	return &ShipperController{Orders: orders}
}

// GET /shipper/orders/available
func (h *ShipperController) Available(c *gin.Context) {
	orders, err := h.Orders.ListReadyToShip(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, orders)
}

// GET /shipper/orders
func (h *ShipperController) Mine(c *gin.Context) {
	orders, err := h.Orders.ListForShipper(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, orders)
}
