package controllers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

func actorOf(c *gin.Context) services.Actor {
	return services.Actor{UserID: utils.CurrentUserID(c), Role: utils.CurrentRole(c)}
}

// bind decodes the JSON body into in and answers 400 on failure.
func bind(c *gin.Context, in any) bool {
	if err := c.ShouldBindJSON(in); err != nil {
		resp.BadRequest(c, err.Error())
		return false
	}
	return true
}

// bindOptional is bind for endpoints whose body may be omitted.
func bindOptional(c *gin.Context, in any) bool {
	if err := c.ShouldBindJSON(in); err != nil && !errors.Is(err, io.EOF) {
		resp.BadRequest(c, err.Error())
		return false
	}
	return true
}

// idParam reads a positive id path parameter and answers 400 when it is not one.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParamUint(c, name)
	if !ok {
		resp.BadRequest(c, "invalid "+name)
	}
	return id, ok
}
