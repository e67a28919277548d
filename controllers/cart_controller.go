package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Svc: s} }

// GET /carts
func (h *CartController) List(c *gin.Context) {
	carts, err := h.Svc.ListForUser(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, carts)
}

// GET /carts/store/:storeId
func (h *CartController) GetByStore(c *gin.Context) {
	storeID, ok := idParam(c, "storeId")
	if !ok {
		return
	}
	cart, err := h.Svc.Get(utils.CurrentUserID(c), storeID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// GET /carts/:id
func (h *CartController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cart, err := h.Svc.GetByID(utils.CurrentUserID(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// POST /carts/items
func (h *CartController) Add(c *gin.Context) {
	var in services.AddToCartIn
	if !bind(c, &in) {
		return
	}
	cart, err := h.Svc.AddItem(utils.CurrentUserID(c), &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, cart)
}

// PATCH /carts/:id/items
func (h *CartController) UpdateQty(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.UpdateCartItemIn
	if !bind(c, &in) {
		return
	}
	cart, err := h.Svc.UpdateItemQuantity(utils.CurrentUserID(c), id, &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// DELETE /carts/:id/items
// The cart itself is deleted when its last item goes; data is then null.
func (h *CartController) RemoveItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.RemoveCartItemIn
	if !bind(c, &in) {
		return
	}
	cart, err := h.Svc.RemoveItem(utils.CurrentUserID(c), id, &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// PATCH /carts/store/:storeId/delivery
func (h *CartController) UpdateDelivery(c *gin.Context) {
	h.delivery(c, false)
}

// PUT /carts/store/:storeId/checkout-info
func (h *CartController) CheckoutInfo(c *gin.Context) {
	h.delivery(c, true)
}

func (h *CartController) delivery(c *gin.Context, requireAll bool) {
	storeID, ok := idParam(c, "storeId")
	if !ok {
		return
	}
	var in services.DeliveryInfoIn
	if !bind(c, &in) {
		return
	}
	cart, err := h.Svc.UpdateDeliveryInfo(utils.CurrentUserID(c), storeID, &in, requireAll)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// DELETE /carts/:id
func (h *CartController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(utils.CurrentUserID(c), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
