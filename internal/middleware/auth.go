package middleware

import (
	"errors"
	"net/http"
	"strings"

	"anoa.com/kulupportal/internal/entity"
	userRepo "anoa.com/kulupportal/internal/modules/user/repository"
	"anoa.com/kulupportal/internal/policy"
	"anoa.com/kulupportal/pkg/apperror"
	"anoa.com/kulupportal/pkg/response"
	"anoa.com/kulupportal/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	UserIDKey = "user_id"
	CallerKey = "caller"
	UserKey   = "user"
)

type AuthMiddleware struct {
	userRepo userRepo.UserRepository
	tokens   *token.Service
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, tokens *token.Service) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	// websocket clients cannot set headers
	return c.Query("token")
}

// authenticate resolves the token to a user loaded fresh from the store,
// so role and status changes take effect on the next request.
func (m *AuthMiddleware) authenticate(c *gin.Context) (*entity.User, error) {
	tokenString := extractToken(c)
	if tokenString == "" {
		return nil, apperror.New(http.StatusUnauthorized, "authorization required", apperror.ErrUnauthorized)
	}

	userID, err := m.tokens.Parse(tokenString)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "invalid or expired token", apperror.ErrUnauthorized)
	}

	user, err := m.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusUnauthorized, "user not found", apperror.ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}

func setIdentity(c *gin.Context, user *entity.User) {
	c.Set(UserIDKey, user.ID.String())
	c.Set(UserKey, user)
	c.Set(CallerKey, policy.Caller{ID: user.ID, Role: user.Role})
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.authenticate(c)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		setIdentity(c, user)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if extractToken(c) != "" {
			if user, err := m.authenticate(c); err == nil {
				setIdentity(c, user)
			}
		}
		c.Next()
	}
}

// RequireCapability rejects callers whose role fails allowed. It must run
// after RequireAuth.
func RequireCapability(allowed func(entity.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if !allowed(caller.Role) {
			response.ResponseError(c, apperror.Forbidden("forbidden", "insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller set by the auth middleware, or an
// anonymous caller.
func CallerFrom(c *gin.Context) policy.Caller {
	if v, ok := c.Get(CallerKey); ok {
		if caller, ok := v.(policy.Caller); ok {
			return caller
		}
	}
	return policy.Caller{}
}
