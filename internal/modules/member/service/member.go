package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/kulupportal/internal/entity"
	event "anoa.com/kulupportal/internal/modules/event/service"
	"anoa.com/kulupportal/internal/modules/member/dto"
	userRepo "anoa.com/kulupportal/internal/modules/user/repository"
	"anoa.com/kulupportal/internal/policy"
	"anoa.com/kulupportal/internal/viewmodel"
	"anoa.com/kulupportal/pkg/apperror"
	commonDto "anoa.com/kulupportal/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberService interface {
	ListMembers(ctx context.Context, caller policy.Caller) (*dto.MemberListResponse, error)
	ReviewMember(ctx context.Context, caller policy.Caller, targetID string, input dto.ReviewMemberInput) (*commonDto.MemberResponse, error)
	RemoveMember(ctx context.Context, caller policy.Caller, targetID string) error
}

type memberService struct {
	repo      userRepo.UserRepository
	publisher event.Publisher
	now       func() time.Time
}

func NewMemberService(repo userRepo.UserRepository, publisher event.Publisher) MemberService {
	return &memberService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, apperror.NotFound("not_found", "user not found")
	}
	return uid, nil
}

func (s *memberService) ListMembers(ctx context.Context, caller policy.Caller) (*dto.MemberListResponse, error) {
	if !policy.CanListMembers(caller.Role) {
		return nil, fmt.Errorf("list members: %w", apperror.ErrForbidden)
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.MemberListResponse{
		Data: viewmodel.Members(users),
		Meta: commonDto.PaginationMeta{
			CurrentPage: 1,
			TotalPages:  1,
			TotalItems:  int64(len(users)),
			Limit:       len(users),
		},
	}, nil
}

func parseOptionalRole(value *string) (entity.Role, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", nil
	}
	role, ok := entity.ParseRole(*value)
	if !ok {
		return "", apperror.Validation("role_invalid", "unknown role")
	}
	return role, nil
}

func parseOptionalStatus(value *string) (entity.Status, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", nil
	}
	status, ok := entity.ParseStatus(*value)
	if !ok {
		return "", apperror.Validation("status_invalid", "unknown status")
	}
	return status, nil
}

func hasCorrections(input dto.ReviewMemberInput) bool {
	return input.Title != nil || input.Phone != nil || input.MemberStart != nil || input.MemberEnd != nil
}

// ReviewMember applies a reviewer's role, status and profile corrections.
// Reviewer corrections are not subject to the title cooldown.
func (s *memberService) ReviewMember(ctx context.Context, caller policy.Caller, targetID string, input dto.ReviewMemberInput) (*commonDto.MemberResponse, error) {
	if input.Role != nil {
		if r, ok := entity.ParseRole(*input.Role); ok && r == entity.RoleFounder {
			return nil, apperror.ForbiddenRole("founder role cannot be assigned")
		}
	}
	if !policy.CanManageAllMembers(caller.Role) {
		return nil, s.deny(ctx, targetID, "review member")
	}

	role, err := parseOptionalRole(input.Role)
	if err != nil {
		return nil, err
	}
	status, err := parseOptionalStatus(input.Status)
	if err != nil {
		return nil, err
	}
	if (role != "" || status != "") && !policy.CanApproveMembers(caller.Role) {
		return nil, fmt.Errorf("review member: %w", apperror.ErrForbidden)
	}

	target, err := findUser(ctx, s.repo, targetID)
	if err != nil {
		return nil, err
	}

	nextRole := target.Role
	if role != "" {
		nextRole = role
	}
	if err := policy.CheckRoleAssignment(target.Role, nextRole); err != nil {
		return nil, err
	}

	var profile *entity.Profile
	if hasCorrections(input) {
		profile, err = s.applyCorrections(target, input)
		if err != nil {
			return nil, err
		}
	}

	target.Role = nextRole
	if status != "" {
		target.Status = status
	}

	if err := s.repo.SaveWithProfile(ctx, target, profile); err != nil {
		return nil, err
	}

	if profile != nil {
		target.Profile = profile
	}
	s.publisher.Publish(ctx, target.ID, event.TypeMemberUpdated, target.ID)

	res := viewmodel.Member(target)
	return &res, nil
}

// applyCorrections returns a copy of the target's profile with the
// reviewer's changes applied, validated with the self-service rules.
func (s *memberService) applyCorrections(target *entity.User, input dto.ReviewMemberInput) (*entity.Profile, error) {
	var profile entity.Profile
	if target.Profile != nil {
		profile = *target.Profile
	} else {
		profile = entity.Profile{UserID: target.ID, Email: target.Email, IsActive: true}
	}

	if input.Title != nil {
		title, err := NormalizeTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		if title != profile.Title {
			now := s.now()
			profile.Title = title
			profile.TitleUpdatedAt = &now
		}
	}

	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, apperror.Validation("phone_required", "Telefon zorunludur")
		}
		profile.Phone = phone
	}

	if input.MemberStart != nil {
		start, err := ParseYear(string(*input.MemberStart), "memberStart")
		if err != nil {
			return nil, err
		}
		if start == nil {
			return nil, apperror.Validation("memberStart_required", "Başlangıç yılı zorunludur")
		}
		profile.StartYear = start
	}

	if input.MemberEnd != nil {
		end, active, err := ParseMemberEnd(string(*input.MemberEnd))
		if err != nil {
			return nil, err
		}
		profile.EndYear = end
		profile.IsActive = active
	}

	if err := checkYearOrder(profile.StartYear, profile.EndYear); err != nil {
		return nil, err
	}

	return &profile, nil
}

// deny refuses an unprivileged caller. A founder target is reported as
// ForbiddenRole whoever asks; a missing target is not revealed.
func (s *memberService) deny(ctx context.Context, targetID, op string) error {
	if uid, err := uuid.Parse(strings.TrimSpace(targetID)); err == nil {
		if target, err := s.repo.FindByID(ctx, uid); err == nil {
			if err := policy.CheckRemoval(target.Role); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%s: %w", op, apperror.ErrForbidden)
}

func (s *memberService) RemoveMember(ctx context.Context, caller policy.Caller, targetID string) error {
	if !policy.CanManageAllMembers(caller.Role) {
		return s.deny(ctx, targetID, "remove member")
	}

	target, err := findUser(ctx, s.repo, targetID)
	if err != nil {
		return err
	}

	if err := policy.CheckRemoval(target.Role); err != nil {
		return err
	}

	led, err := s.repo.CountLedProjects(ctx, target.ID)
	if err != nil {
		return err
	}
	if led > 0 {
		return apperror.Validation("member_leads_projects", "Üye bir projenin lideri; önce projeye yeni lider atayın")
	}

	if err := s.repo.Delete(ctx, target.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("not_found", "user not found")
		}
		return err
	}

	s.publisher.Publish(ctx, target.ID, event.TypeMemberRemoved, target.ID)
	return nil
}
