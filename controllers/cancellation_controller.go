package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

type CancellationController struct {
	Svc *services.CancellationService
}

func NewCancellationController(s *services.CancellationService) *CancellationController {
	return &CancellationController{Svc: s}
}

// POST /order-cancellations
func (h *CancellationController) Cancel(c *gin.Context) {
	var in services.CancelOrderIn
	if !bind(c, &in) {
		return
	}
	rec, err := h.Svc.Cancel(c.Request.Context(), utils.CurrentUserID(c), in.OrderID, in.Reason)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, rec)
}

// GET /order-cancellations
func (h *CancellationController) List(c *gin.Context) {
	rows, err := h.Svc.ListCancelled()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, rows)
}
