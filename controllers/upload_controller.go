package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

type UploadController struct {
	Svc *services.UploadService
}

func NewUploadController(s *services.UploadService) *UploadController {
	return &UploadController{Svc: s}
}

// POST /upload/:folder (multipart field "image")
func (h *UploadController) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxUploadSize+1<<20)
	fh, err := c.FormFile("image")
	if err != nil {
		resp.BadRequest(c, "image file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	defer f.Close()

	url, err := h.Svc.Upload(c.Request.Context(), utils.CurrentUserID(c), services.UploadIn{
		Folder:      c.Param("folder"),
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"url": url})
}
