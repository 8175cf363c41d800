package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/internal/modules/content/dto"
	contentRepo "anoa.com/kulupportal/internal/modules/content/repository"
	"anoa.com/kulupportal/internal/policy"
	"anoa.com/kulupportal/pkg/apperror"
	"anoa.com/kulupportal/pkg/validator"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type AnnouncementService interface {
	ListAnnouncements(ctx context.Context, caller policy.Caller) ([]dto.AnnouncementResponse, error)
	CreateAnnouncement(ctx context.Context, caller policy.Caller, input dto.CreateAnnouncementInput) (*dto.AnnouncementResponse, error)
	UpdateAnnouncement(ctx context.Context, caller policy.Caller, id string, input dto.UpdateAnnouncementInput) (*dto.AnnouncementResponse, error)
	DeleteAnnouncement(ctx context.Context, caller policy.Caller, id string) error
}

type announcementService struct {
	repo   contentRepo.AnnouncementRepository
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

func NewAnnouncementService(repo contentRepo.AnnouncementRepository) AnnouncementService {
	return &announcementService{
		repo:   repo,
		strict: bluemonday.StrictPolicy(),
		ugc:    bluemonday.UGCPolicy(),
	}
}

// ListAnnouncements returns what the caller may read. Drafts are only shown
// to callers who can publish.
func (s *announcementService) ListAnnouncements(ctx context.Context, caller policy.Caller) ([]dto.AnnouncementResponse, error) {
	items, err := s.repo.FindAll(ctx, !policy.CanPublishAnnouncements(caller.Role))
	if err != nil {
		return nil, err
	}

	out := make([]dto.AnnouncementResponse, 0, len(items))
	for _, a := range items {
		if !policy.CanViewContent(caller.Role, a.Visibility, a.Tag) {
			continue
		}
		out = append(out, toAnnouncementResponse(a))
	}
	return out, nil
}

func parseDate(value string) (*time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	return nil, apperror.Validation("date_invalid", "Tarih YYYY-AA-GG biçiminde olmalıdır")
}

func (s *announcementService) parseVisibility(caller policy.Caller, value string) (entity.Visibility, error) {
	if strings.TrimSpace(value) == "" {
		return entity.VisibilityMember, nil
	}
	vis, ok := entity.ParseVisibility(value)
	if !ok {
		return "", apperror.Validation("visibility_invalid", "unknown visibility")
	}
	if !policy.CanAssignVisibility(caller.Role, vis) {
		return "", apperror.Forbidden("forbidden", "visibility above caller role")
	}
	return vis, nil
}

func (s *announcementService) encodeLinks(links []dto.AnnouncementLink) (string, error) {
	clean := make([]dto.AnnouncementLink, 0, len(links))
	for _, l := range links {
		url := strings.TrimSpace(l.URL)
		if url == "" {
			continue
		}
		clean = append(clean, dto.AnnouncementLink{Label: plain(s.strict, l.Label), URL: url})
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *announcementService) CreateAnnouncement(ctx context.Context, caller policy.Caller, input dto.CreateAnnouncementInput) (*dto.AnnouncementResponse, error) {
	if !policy.CanPublishAnnouncements(caller.Role) {
		return nil, fmt.Errorf("create announcement: %w", apperror.ErrForbidden)
	}
	if err := validator.Struct(input); err != nil {
		return nil, validator.AsAppError(err)
	}

	title := plain(s.strict, input.Title)
	tag := plain(s.strict, input.Tag)
	if title == "" || tag == "" {
		return nil, apperror.Validation("missing_fields", "Başlık ve etiket zorunludur")
	}

	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	vis, err := s.parseVisibility(caller, input.Visibility)
	if err != nil {
		return nil, err
	}
	links, err := s.encodeLinks(input.Links)
	if err != nil {
		return nil, err
	}

	a := &entity.Announcement{
		Title:       title,
		Tag:         tag,
		Date:        date,
		Published:   input.Published == nil || *input.Published,
		Visibility:  vis,
		Description: strings.TrimSpace(s.ugc.Sanitize(input.Description)),
		FooterLeft:  plain(s.strict, input.FooterLeft),
		Links:       links,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		AuthorID:    caller.ID,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	res := toAnnouncementResponse(a)
	return &res, nil
}

// findManaged loads an announcement the caller may change. Callers cannot
// touch items whose visibility is above their own rank.
func (s *announcementService) findManaged(ctx context.Context, caller policy.Caller, id, op string) (*entity.Announcement, error) {
	if !policy.CanPublishAnnouncements(caller.Role) {
		return nil, fmt.Errorf("%s: %w", op, apperror.ErrForbidden)
	}

	aid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, apperror.NotFound("not_found", "announcement not found")
	}

	a, err := s.repo.FindByID(ctx, aid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("not_found", "announcement not found")
		}
		return nil, err
	}

	if !policy.CanAssignVisibility(caller.Role, a.Visibility) {
		return nil, fmt.Errorf("%s: %w", op, apperror.ErrForbidden)
	}
	return a, nil
}

func (s *announcementService) UpdateAnnouncement(ctx context.Context, caller policy.Caller, id string, input dto.UpdateAnnouncementInput) (*dto.AnnouncementResponse, error) {
	a, err := s.findManaged(ctx, caller, id, "update announcement")
	if err != nil {
		return nil, err
	}
	if err := validator.Struct(input); err != nil {
		return nil, validator.AsAppError(err)
	}

	if input.Title != nil {
		if title := plain(s.strict, *input.Title); title != "" {
			a.Title = title
		}
	}
	if input.Tag != nil {
		if tag := plain(s.strict, *input.Tag); tag != "" {
			a.Tag = tag
		}
	}
	if input.Date != nil {
		date, err := parseDate(*input.Date)
		if err != nil {
			return nil, err
		}
		a.Date = date
	}
	if input.Published != nil {
		a.Published = *input.Published
	}
	if input.Visibility != nil {
		vis, err := s.parseVisibility(caller, *input.Visibility)
		if err != nil {
			return nil, err
		}
		a.Visibility = vis
	}
	if input.Description != nil {
		a.Description = strings.TrimSpace(s.ugc.Sanitize(*input.Description))
	}
	if input.FooterLeft != nil {
		a.FooterLeft = plain(s.strict, *input.FooterLeft)
	}
	if input.Links != nil {
		links, err := s.encodeLinks(input.Links)
		if err != nil {
			return nil, err
		}
		a.Links = links
	}
	if input.ImageURL != nil {
		a.ImageURL = strings.TrimSpace(*input.ImageURL)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	res := toAnnouncementResponse(a)
	return &res, nil
}

func (s *announcementService) DeleteAnnouncement(ctx context.Context, caller policy.Caller, id string) error {
	a, err := s.findManaged(ctx, caller, id, "delete announcement")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, a.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("not_found", "announcement not found")
		}
		return err
	}
	return nil
}

func toAnnouncementResponse(a *entity.Announcement) dto.AnnouncementResponse {
	res := dto.AnnouncementResponse{
		ID:          a.ID,
		Title:       a.Title,
		Tag:         a.Tag,
		Published:   a.Published,
		Visibility:  strings.ToLower(string(a.Visibility)),
		Description: a.Description,
		FooterLeft:  a.FooterLeft,
		Links:       []dto.AnnouncementLink{},
		ImageURL:    a.ImageURL,
		AuthorID:    a.AuthorID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Date != nil {
		res.Date = a.Date.Format(dateLayout)
	}
	if a.Links != "" {
		_ = json.Unmarshal([]byte(a.Links), &res.Links)
	}
	return res
}
