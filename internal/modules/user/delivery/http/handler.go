package handler

import (
	"net/http"
	"net/url"

	"anoa.com/kulupportal/internal/middleware"
	"anoa.com/kulupportal/internal/modules/user/dto"
	user "anoa.com/kulupportal/internal/modules/user/service"
	"anoa.com/kulupportal/pkg/apperror"
	"anoa.com/kulupportal/pkg/response"
	"anoa.com/kulupportal/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService user.AuthService
	frontendURL string
}

func NewAuthHandler(authService user.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		frontendURL: frontendURL,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, validator.AsAppError(err))
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	loginURL, err := h.authService.GoogleLoginURL(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GoogleLoginResponse{URL: loginURL})
}

// GoogleCallback finishes the provider redirect and sends the browser back
// to the frontend with either a token or an error reason.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	res, err := h.authService.GoogleCallback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		if apperror.Kind(err) == apperror.KindInternal {
			response.ResponseError(c, err)
			return
		}
		q := url.Values{"error": {apperror.Reason(err)}}
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?"+q.Encode())
		return
	}

	q := url.Values{"token": {res.AccessToken}}
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/auth/callback?"+q.Encode())
}

func (h *AuthHandler) Session(c *gin.Context) {
	res, err := h.authService.Session(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
