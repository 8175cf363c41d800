package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/internal/modules/user/dto"
	"anoa.com/kulupportal/internal/modules/user/repository"
	"anoa.com/kulupportal/internal/viewmodel"
	"anoa.com/kulupportal/pkg/apperror"
	"anoa.com/kulupportal/pkg/cache"
	commonDto "anoa.com/kulupportal/pkg/dto"
	"anoa.com/kulupportal/pkg/logger"
	"anoa.com/kulupportal/pkg/token"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const stateTTL = 10 * time.Minute

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	GoogleLoginURL(ctx context.Context) (string, error)
	GoogleCallback(ctx context.Context, state, code string) (*dto.AuthResponse, error)
	Session(ctx context.Context, userID string) (*commonDto.MemberResponse, error)
}

type authService struct {
	repo          repository.UserRepository
	tokens        *token.Service
	provider      IdentityProvider
	redisClient   *redis.Client
	allowedDomain string
}

// NewAuthService wires sign-in. allowedDomain, when set, restricts Google
// sign-in to addresses under that domain.
func NewAuthService(repo repository.UserRepository, tokens *token.Service, provider IdentityProvider, redisClient *redis.Client, allowedDomain string) AuthService {
	return &authService{
		repo:          repo,
		tokens:        tokens,
		provider:      provider,
		redisClient:   redisClient,
		allowedDomain: strings.ToLower(allowedDomain),
	}
}

func invalidCredentials() error {
	return apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, invalidCredentials()
	}

	return s.buildAuthResponse(user)
}

func stateKey(state string) string {
	return "oauth_state:" + state
}

// GoogleLoginURL returns the consent URL with a single-use state nonce.
func (s *authService) GoogleLoginURL(ctx context.Context) (string, error) {
	state := uuid.New().String()
	if _, err := cache.CheckAndSet(ctx, s.redisClient, stateKey(state), stateTTL); err != nil {
		return "", err
	}
	return s.provider.AuthCodeURL(state), nil
}

func (s *authService) GoogleCallback(ctx context.Context, state, code string) (*dto.AuthResponse, error) {
	if state == "" || code == "" {
		return nil, apperror.New(http.StatusUnauthorized, "missing state or code", apperror.ErrUnauthorized)
	}

	ok, err := cache.Consume(ctx, s.redisClient, stateKey(state))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.New(http.StatusUnauthorized, "login state expired", apperror.ErrUnauthorized)
	}

	identity, err := s.provider.FetchUser(ctx, code)
	if err != nil {
		logger.Warn(ctx, "google sign-in failed", zap.Error(err))
		return nil, apperror.New(http.StatusUnauthorized, "google sign-in failed", apperror.ErrUnauthorized)
	}

	user, err := s.resolveIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.buildAuthResponse(user)
}

// resolveIdentity finds the account by email or creates it on first
// sign-in as a pending member.
func (s *authService) resolveIdentity(ctx context.Context, identity *dto.GoogleUser) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, apperror.New(http.StatusUnauthorized, "identity has no email", apperror.ErrUnauthorized)
	}
	if s.allowedDomain != "" && !strings.HasSuffix(email, "@"+s.allowedDomain) {
		return nil, apperror.Forbidden("email_domain", fmt.Sprintf("only @%s addresses may sign in", s.allowedDomain))
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return s.refreshIdentity(ctx, user, identity), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &entity.User{
		Email:  email,
		Name:   strings.TrimSpace(identity.Name),
		Role:   entity.RoleMember,
		Status: entity.StatusPending,
	}
	if identity.Picture != "" {
		user.Image = &identity.Picture
	}
	if identity.ID != "" {
		user.GoogleID = &identity.ID
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Info(ctx, "new member signed in", zap.String("user_id", user.ID.String()))
	return user, nil
}

// refreshIdentity keeps the provider avatar and id current. Failures are
// logged and do not block sign-in.
func (s *authService) refreshIdentity(ctx context.Context, user *entity.User, identity *dto.GoogleUser) *entity.User {
	fields := map[string]interface{}{}
	if identity.Picture != "" && (user.Image == nil || *user.Image != identity.Picture) {
		fields["image"] = identity.Picture
		user.Image = &identity.Picture
	}
	if identity.ID != "" && user.GoogleID == nil {
		fields["google_id"] = identity.ID
		user.GoogleID = &identity.ID
	}
	if len(fields) == 0 {
		return user
	}

	if err := s.repo.UpdateAccount(ctx, user.ID, fields); err != nil {
		logger.Warn(ctx, "refresh identity failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	return user
}

func (s *authService) Session(ctx context.Context, userID string) (*commonDto.MemberResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "invalid session", apperror.ErrUnauthorized)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusUnauthorized, "invalid session", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	res := viewmodel.Member(user)
	return &res, nil
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	tok, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        viewmodel.Member(user),
	}, nil
}
