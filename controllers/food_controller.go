package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
)

type FoodController struct {
	Svc *services.FoodService
}

func NewFoodController(s *services.FoodService) *FoodController {
	return &FoodController{Svc: s}
}

// GET /foods/:id
func (h *FoodController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	food, err := h.Svc.Get(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, food)
}

// POST /foods
func (h *FoodController) Create(c *gin.Context) {
	var in services.FoodIn
	if !bind(c, &in) {
		return
	}
	food, err := h.Svc.Create(actorOf(c), &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, food)
}

// PATCH /foods/:id
func (h *FoodController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.FoodUpdateIn
	if !bind(c, &in) {
		return
	}
	food, err := h.Svc.Update(actorOf(c), id, &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, food)
}

// PATCH /foods/:id/availability
func (h *FoodController) SetAvailability(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.AvailabilityIn
	if !bind(c, &in) {
		return
	}
	food, err := h.Svc.SetAvailability(actorOf(c), id, in.IsAvailable)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, food)
}

// PUT /foods/:id/selling-times
func (h *FoodController) SetSellingTimes(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.SellingTimesIn
	if !bind(c, &in) {
		return
	}
	food, err := h.Svc.SetSellingTimes(actorOf(c), id, &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, food)
}

// DELETE /foods/:id
func (h *FoodController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(actorOf(c), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

// POST /food-groups
func (h *FoodController) CreateGroup(c *gin.Context) {
	var in services.FoodGroupIn
	if !bind(c, &in) {
		return
	}
	g, err := h.Svc.CreateGroup(actorOf(c), &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, g)
}

// PATCH /food-groups/:id
func (h *FoodController) RenameGroup(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.RenameGroupIn
	if !bind(c, &in) {
		return
	}
	g, err := h.Svc.RenameGroup(actorOf(c), id, in.GroupName)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, g)
}

// DELETE /food-groups/:id
func (h *FoodController) DeleteGroup(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteGroup(actorOf(c), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
