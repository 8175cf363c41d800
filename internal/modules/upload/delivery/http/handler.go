package handler

import (
	"net/http"

	"anoa.com/kulupportal/internal/middleware"
	upload "anoa.com/kulupportal/internal/modules/upload/service"
	"anoa.com/kulupportal/pkg/apperror"
	"anoa.com/kulupportal/pkg/dto"
	"anoa.com/kulupportal/pkg/response"
	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service upload.UploadService
}

func NewUploadHandler(service upload.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ResponseError(c, apperror.Validation("file_required", "file is required"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, apperror.Validation("file_invalid", "could not read file"))
		return
	}
	defer f.Close()

	res, err := h.service.UploadImage(c.Request.Context(), middleware.CallerFrom(c), c.PostForm("folder"),
		dto.UploadFile{Reader: f, FileName: fileHeader.Filename}, fileHeader.Size)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
