package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

type UserController struct {
	Svc *services.UserService
}

func NewUserController(s *services.UserService) *UserController {
	return &UserController{Svc: s}
}

// GET /users/me
func (h *UserController) Me(c *gin.Context) {
	user, err := h.Svc.GetProfile(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, user)
}

// PATCH /users/me
func (h *UserController) UpdateMe(c *gin.Context) {
	var in services.UpdatePersonalIn
	if !bind(c, &in) {
		return
	}
	user, err := h.Svc.UpdatePersonal(utils.CurrentUserID(c), &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, user)
}

// PUT /users/me/push-token
func (h *UserController) SetPushToken(c *gin.Context) {
	var in services.PushTokenIn
	if !bind(c, &in) {
		return
	}
	if err := h.Svc.SetPushToken(utils.CurrentUserID(c), in.ExpoPushToken); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"saved": true})
}

// PUT /users/me/online
func (h *UserController) SetOnline(c *gin.Context) {
	var in services.OnlineIn
	if !bind(c, &in) {
		return
	}
	if err := h.Svc.SetOnline(utils.CurrentUserID(c), in.IsOnline); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"isOnline": in.IsOnline})
}
