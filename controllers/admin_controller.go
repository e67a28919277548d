package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
)

type AdminController struct {
	Svc           *services.AdminService
	Orders        *services.OrderService
	Cancellations *services.CancellationService
}

func NewAdminController(s *services.AdminService, orders *services.OrderService, cancellations *services.CancellationService) *AdminController {
	return &AdminController{Svc: s, Orders: orders, Cancellations: cancellations}
}

// GET /admin/users?role=
func (h *AdminController) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Query("role"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, users)
}

// PATCH /admin/users/:id/approve
func (h *AdminController) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.Svc.Approve(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, user)
}

// PATCH /admin/users/:id/reject
func (h *AdminController) Reject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.RejectIn
	if !bindOptional(c, &in) {
		return
	}
	user, err := h.Svc.Reject(c.Request.Context(), id, in.Reason)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, user)
}

// GET /admin/analytics
func (h *AdminController) Analytics(c *gin.Context) {
	out, err := h.Svc.Analytics()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /admin/orders?status=
func (h *AdminController) ListOrders(c *gin.Context) {
	list, err := h.Orders.ListAll(c.Query("status"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, list)
}

// GET /admin/order-cancellations
func (h *AdminController) ListCancellations(c *gin.Context) {
	rows, err := h.Cancellations.ListCancelled()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, rows)
}
