package handler

import (
	"net/http"
	"strconv"

	"anoa.com/kulupportal/internal/middleware"
	"anoa.com/kulupportal/internal/modules/project/dto"
	project "anoa.com/kulupportal/internal/modules/project/service"
	"anoa.com/kulupportal/pkg/response"
	"anoa.com/kulupportal/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	service project.ProjectService
}

func NewProjectHandler(service project.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var input dto.CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, validator.AsAppError(err))
		return
	}

	res, err := h.service.CreateProject(c.Request.Context(), middleware.CallerFrom(c), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var input dto.UpdateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, validator.AsAppError(err))
		return
	}

	res, err := h.service.UpdateProject(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.service.DeleteProject(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	res, err := h.service.ListMyProjects(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{Data: res})
}

func (h *ProjectHandler) ListAllProjects(c *gin.Context) {
	res, err := h.service.ListAllProjects(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{Data: res})
}

func (h *ProjectHandler) ListCatalogue(c *gin.Context) {
	res, err := h.service.ListCatalogue(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{Data: res})
}

func (h *ProjectHandler) SearchCatalogue(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	res, err := h.service.SearchCatalogue(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{Data: res})
}
