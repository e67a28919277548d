package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

type StoreController struct {
	Svc    *services.StoreService
	Foods  *services.FoodService
	Orders *services.OrderService
}

func NewStoreController(s *services.StoreService, foods *services.FoodService, orders *services.OrderService) *StoreController {
	return &StoreController{Svc: s, Foods: foods, Orders: orders}
}

// GET /stores
func (h *StoreController) List(c *gin.Context) {
	stores, err := h.Svc.List()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, stores)
}

// GET /stores/:id
func (h *StoreController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	store, err := h.Svc.Get(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, store)
}

// GET /stores/:id/foods
func (h *StoreController) ListFoods(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	foods, err := h.Foods.ListByStore(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, foods)
}

// GET /stores/:id/food-groups
func (h *StoreController) FoodGroups(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	groups, err := h.Foods.ListGroups(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, groups)
}

// GET /stores/mine
func (h *StoreController) Mine(c *gin.Context) {
	stores, err := h.Svc.ListByOwner(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, stores)
}

// POST /stores
func (h *StoreController) Create(c *gin.Context) {
	var in services.StoreIn
	if !bind(c, &in) {
		return
	}
	store, err := h.Svc.Create(utils.CurrentUserID(c), &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, store)
}

// PATCH /stores/:id
func (h *StoreController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.StoreUpdateIn
	if !bind(c, &in) {
		return
	}
	store, err := h.Svc.Update(actorOf(c), id, &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, store)
}

// PUT /stores/:id/schedule
func (h *StoreController) UpdateSchedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.UpdateScheduleIn
	if !bind(c, &in) {
		return
	}
	store, err := h.Svc.UpdateSchedule(actorOf(c), id, &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, store)
}

// GET /stores/:id/orders?status=
func (h *StoreController) ListOrders(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	list, err := h.Orders.ListByStore(actorOf(c), id, c.Query("status"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, list)
}

// GET /stores/:id/orders/delivered
func (h *StoreController) Delivered(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	list, err := h.Orders.ListDelivered(actorOf(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, list)
}
