package handler

import (
	"net/http"

	"anoa.com/kulupportal/internal/middleware"
	"anoa.com/kulupportal/internal/modules/member/dto"
	member "anoa.com/kulupportal/internal/modules/member/service"
	"anoa.com/kulupportal/pkg/response"
	"anoa.com/kulupportal/pkg/validator"
	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	profileService member.ProfileService
	memberService  member.MemberService
}

func NewMemberHandler(profileService member.ProfileService, memberService member.MemberService) *MemberHandler {
	return &MemberHandler{
		profileService: profileService,
		memberService:  memberService,
	}
}

func (h *MemberHandler) GetOwnProfile(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	res, err := h.profileService.GetOwnProfile(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *MemberHandler) SubmitOwnProfile(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	var input dto.SubmitProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, validator.AsAppError(err))
		return
	}

	res, err := h.profileService.SubmitOwnProfile(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *MemberHandler) ListMembers(c *gin.Context) {
	res, err := h.memberService.ListMembers(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *MemberHandler) ReviewMember(c *gin.Context) {
	var input dto.ReviewMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, validator.AsAppError(err))
		return
	}

	res, err := h.memberService.ReviewMember(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *MemberHandler) RemoveMember(c *gin.Context) {
	if err := h.memberService.RemoveMember(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
