package member

import (
	"context"
	"errors"
	"strings"
	"time"

	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/internal/modules/member/dto"
	userRepo "anoa.com/kulupportal/internal/modules/user/repository"
	"anoa.com/kulupportal/internal/viewmodel"
	"anoa.com/kulupportal/pkg/apperror"
	commonDto "anoa.com/kulupportal/pkg/dto"
	"anoa.com/kulupportal/pkg/validator"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetOwnProfile(ctx context.Context, userID string) (*commonDto.MemberResponse, error)
	SubmitOwnProfile(ctx context.Context, userID string, input dto.SubmitProfileInput) (*commonDto.MemberResponse, error)
}

type profileService struct {
	repo userRepo.UserRepository
	now  func() time.Time
}

func NewProfileService(repo userRepo.UserRepository) ProfileService {
	return &profileService{
		repo: repo,
		now:  time.Now,
	}
}

func findUser(ctx context.Context, repo userRepo.UserRepository, id string) (*entity.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	user, err := repo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("not_found", "user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *profileService) GetOwnProfile(ctx context.Context, userID string) (*commonDto.MemberResponse, error) {
	user, err := findUser(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	res := viewmodel.Member(user)
	return &res, nil
}

// SubmitOwnProfile validates the whole form before writing anything. A
// rejected title change leaves every other field untouched.
func (s *profileService) SubmitOwnProfile(ctx context.Context, userID string, input dto.SubmitProfileInput) (*commonDto.MemberResponse, error) {
	if err := validator.Struct(input); err != nil {
		return nil, apperror.Validation(validator.Reason(err), validator.FormatValidationError(err))
	}

	user, err := findUser(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	title, err := NormalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}

	startYear, err := ParseYear(string(input.MemberStart), "memberStart")
	if err != nil {
		return nil, err
	}
	if startYear == nil {
		return nil, apperror.Validation("memberStart_required", "Başlangıç yılı zorunludur")
	}

	endYear, isActive, err := ParseMemberEnd(string(input.MemberEnd))
	if err != nil {
		return nil, err
	}
	if err := checkYearOrder(startYear, endYear); err != nil {
		return nil, err
	}

	now := s.now()
	existing := user.Profile
	existingTitle := ""
	if existing != nil {
		existingTitle = existing.Title
	}
	titleChanged := title != existingTitle

	if titleChanged && existing != nil {
		if err := CheckTitleCooldown(existing.TitleUpdatedAt, now); err != nil {
			return nil, err
		}
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		email = user.Email
	}

	profile := &entity.Profile{
		UserID:      user.ID,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       email,
		Phone:       strings.TrimSpace(input.Phone),
		Title:       title,
		Position:    strings.TrimSpace(input.Position),
		Company:     strings.TrimSpace(input.Company),
		LinkedinURL: strings.TrimSpace(input.LinkedinURL),
		AvatarURL:   strings.TrimSpace(input.Avatar),
		StartYear:   startYear,
		EndYear:     endYear,
		IsActive:    isActive,
	}

	switch {
	case existing == nil && title != "":
		profile.TitleUpdatedAt = &now
	case existing != nil && titleChanged:
		profile.TitleUpdatedAt = &now
	case existing != nil:
		profile.TitleUpdatedAt = existing.TitleUpdatedAt
		profile.CreatedAt = existing.CreatedAt
	}

	if fullName := strings.TrimSpace(profile.FirstName + " " + profile.LastName); fullName != "" {
		user.Name = fullName
	}
	user.Status = nextSelfEditStatus(user.Status)

	if err := s.repo.SaveWithProfile(ctx, user, profile); err != nil {
		return nil, err
	}

	user.Profile = profile
	res := viewmodel.Member(user)
	return &res, nil
}
