package handler

import (
	"net/http"

	"anoa.com/kulupportal/internal/middleware"
	"anoa.com/kulupportal/internal/modules/content/dto"
	content "anoa.com/kulupportal/internal/modules/content/service"
	"anoa.com/kulupportal/pkg/apperror"
	"anoa.com/kulupportal/pkg/response"
	"anoa.com/kulupportal/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentService      content.ContentService
	announcementService content.AnnouncementService
}

func NewContentHandler(contentService content.ContentService, announcementService content.AnnouncementService) *ContentHandler {
	return &ContentHandler{
		contentService:      contentService,
		announcementService: announcementService,
	}
}

func (h *ContentHandler) GetContact(c *gin.Context) {
	res, err := h.contentService.GetContact(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) UpdateContact(c *gin.Context) {
	var input dto.ContactPage
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, validator.AsAppError(err))
		return
	}

	res, err := h.contentService.UpdateContact(c.Request.Context(), middleware.CallerFrom(c), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) GetSponsors(c *gin.Context) {
	doc, err := h.contentService.GetSponsors(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

func (h *ContentHandler) UpdateSponsors(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.ResponseError(c, apperror.Validation("invalid_request", "could not read body"))
		return
	}

	doc, err := h.contentService.UpdateSponsors(c.Request.Context(), middleware.CallerFrom(c), body)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

func (h *ContentHandler) ListAnnouncements(c *gin.Context) {
	res, err := h.announcementService.ListAnnouncements(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AnnouncementListResponse{Data: res})
}

func (h *ContentHandler) CreateAnnouncement(c *gin.Context) {
	var input dto.CreateAnnouncementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, validator.AsAppError(err))
		return
	}

	res, err := h.announcementService.CreateAnnouncement(c.Request.Context(), middleware.CallerFrom(c), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ContentHandler) UpdateAnnouncement(c *gin.Context) {
	var input dto.UpdateAnnouncementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, validator.AsAppError(err))
		return
	}

	res, err := h.announcementService.UpdateAnnouncement(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.announcementService.DeleteAnnouncement(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
