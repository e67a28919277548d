package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
)

type AuthController struct {
	Svc *services.AuthService
}

func NewAuthController(s *services.AuthService) *AuthController {
	return &AuthController{Svc: s}
}

// POST /auth/register
func (h *AuthController) Register(c *gin.Context) {
	var in services.RegisterIn
	if !bind(c, &in) {
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, user)
}

// POST /auth/verify-email
func (h *AuthController) VerifyEmail(c *gin.Context) {
	var in services.VerifyEmailIn
	if !bind(c, &in) {
		return
	}
	user, err := h.Svc.VerifyEmail(&in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, user)
}

// POST /auth/resend-verification
func (h *AuthController) ResendVerification(c *gin.Context) {
	var in struct {
		Email string `json:"email" binding:"required,email"`
	}
	if !bind(c, &in) {
		return
	}
	if err := h.Svc.ResendVerification(c.Request.Context(), in.Email); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"sent": true})
}

// POST /auth/login
func (h *AuthController) Login(c *gin.Context) {
	var in services.LoginIn
	if !bind(c, &in) {
		return
	}
	token, user, err := h.Svc.Login(&in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"token": token, "user": user})
}
