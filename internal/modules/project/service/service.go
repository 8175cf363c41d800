package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"anoa.com/kulupportal/internal/entity"
	event "anoa.com/kulupportal/internal/modules/event/service"
	member "anoa.com/kulupportal/internal/modules/member/service"
	"anoa.com/kulupportal/internal/modules/project/dto"
	projectRepo "anoa.com/kulupportal/internal/modules/project/repository"
	search "anoa.com/kulupportal/internal/modules/search/service"
	userRepo "anoa.com/kulupportal/internal/modules/user/repository"
	"anoa.com/kulupportal/internal/policy"
	"anoa.com/kulupportal/internal/viewmodel"
	"anoa.com/kulupportal/pkg/apperror"
	commonDto "anoa.com/kulupportal/pkg/dto"
	"anoa.com/kulupportal/pkg/logger"
	"anoa.com/kulupportal/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DescriptionMinLength = 50
	DescriptionMaxLength = 170

	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

type ProjectService interface {
	CreateProject(ctx context.Context, caller policy.Caller, input dto.CreateProjectInput) (*commonDto.ProjectResponse, error)
	UpdateProject(ctx context.Context, caller policy.Caller, projectID string, input dto.UpdateProjectInput) (*commonDto.ProjectResponse, error)
	DeleteProject(ctx context.Context, caller policy.Caller, projectID string) error
	ListMyProjects(ctx context.Context, caller policy.Caller) ([]commonDto.ProjectResponse, error)
	ListAllProjects(ctx context.Context, caller policy.Caller) ([]commonDto.ProjectResponse, error)
	ListCatalogue(ctx context.Context) ([]commonDto.ProjectResponse, error)
	SearchCatalogue(ctx context.Context, query string, limit int) ([]commonDto.ProjectResponse, error)
}

type projectService struct {
	repo      projectRepo.ProjectRepository
	userRepo  userRepo.UserRepository
	index     search.ProjectIndex
	publisher event.Publisher
}

func NewProjectService(repo projectRepo.ProjectRepository, userRepo userRepo.UserRepository, index search.ProjectIndex, publisher event.Publisher) ProjectService {
	return &projectService{
		repo:      repo,
		userRepo:  userRepo,
		index:     index,
		publisher: publisher,
	}
}

// CheckDescription trims a project description and enforces its length
// bounds in characters.
func CheckDescription(value string) (string, error) {
	desc := strings.TrimSpace(value)
	n := utf8.RuneCountInString(desc)
	if n < DescriptionMinLength {
		return "", apperror.Validation("description_too_short",
			fmt.Sprintf("Açıklama en az %d karakter olmalıdır", DescriptionMinLength))
	}
	if n > DescriptionMaxLength {
		return "", apperror.Validation("description_too_long",
			fmt.Sprintf("Açıklama en fazla %d karakter olabilir", DescriptionMaxLength))
	}
	return desc, nil
}

func optional(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}

func (s *projectService) resolveLead(ctx context.Context, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, apperror.Validation("lead_not_found", "Proje lideri bulunamadı")
	}
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, apperror.Validation("lead_not_found", "Proje lideri bulunamadı")
		}
		return uuid.Nil, err
	}
	return id, nil
}

// resolveMembers turns the request's membership list into rows. A non-empty
// entry list wins over bare ids, entries without a user id are skipped,
// repeated users keep their first occurrence, and every user must exist.
func (s *projectService) resolveMembers(ctx context.Context, ids []string, entries []dto.MemberEntry) ([]entity.ProjectMembership, error) {
	if len(entries) == 0 {
		entries = make([]dto.MemberEntry, 0, len(ids))
		for _, id := range ids {
			entries = append(entries, dto.MemberEntry{UserID: id})
		}
	}

	seen := make(map[uuid.UUID]struct{}, len(entries))
	rows := make([]entity.ProjectMembership, 0, len(entries))
	userIDs := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		raw := strings.TrimSpace(e.UserID)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperror.Validation("member_not_found", "Üye bulunamadı")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		var label *string
		if e.Role != nil {
			label = optional(*e.Role)
		}
		rows = append(rows, entity.ProjectMembership{UserID: id, Role: label})
		userIDs = append(userIDs, id)
	}

	if len(userIDs) > 0 {
		n, err := s.userRepo.CountExisting(ctx, userIDs)
		if err != nil {
			return nil, err
		}
		if n != int64(len(userIDs)) {
			return nil, apperror.Validation("member_not_found", "Üye bulunamadı")
		}
	}
	return rows, nil
}

func (s *projectService) CreateProject(ctx context.Context, caller policy.Caller, input dto.CreateProjectInput) (*commonDto.ProjectResponse, error) {
	if !policy.CanCreateProject(caller.Role) {
		return nil, fmt.Errorf("create project: %w", apperror.ErrForbidden)
	}
	if err := validator.Struct(input); err != nil {
		return nil, validator.AsAppError(err)
	}

	name := strings.TrimSpace(input.Name)
	imageURL := strings.TrimSpace(input.ImageURL)
	if name == "" || strings.TrimSpace(input.Description) == "" || strings.TrimSpace(input.LeadID) == "" ||
		imageURL == "" || strings.TrimSpace(string(input.Year)) == "" {
		return nil, apperror.Validation("missing_fields", "Ad, açıklama, lider, yıl ve görsel zorunludur")
	}

	desc, err := CheckDescription(input.Description)
	if err != nil {
		return nil, err
	}
	year, err := member.ParseYear(string(input.Year), "year")
	if err != nil {
		return nil, err
	}
	leadID, err := s.resolveLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	members, err := s.resolveMembers(ctx, input.MemberIDs, input.Members)
	if err != nil {
		return nil, err
	}

	p := &entity.Project{
		Name:        name,
		Description: desc,
		Achievement: optional(input.Achievement),
		DriveURL:    optional(input.DriveURL),
		ImageURL:    imageURL,
		Year:        *year,
		LeadID:      leadID,
	}
	if err := s.repo.Create(ctx, p, members); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, created, nil)

	res := viewmodel.ProjectFor(created, caller.ID)
	return &res, nil
}

func parseProjectID(id string) (uuid.UUID, error) {
	pid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, apperror.NotFound("not_found", "project not found")
	}
	return pid, nil
}

// authorize checks the caller may manage the project. A LEAD is compared
// against the stored lead before anything else is read or written.
func (s *projectService) authorize(ctx context.Context, caller policy.Caller, projectID, op string) (uuid.UUID, error) {
	if !policy.CanManageProjectsGlobally(caller.Role) && !policy.CanManageOwnLeadProjects(caller.Role) {
		return uuid.Nil, fmt.Errorf("%s: %w", op, apperror.ErrForbidden)
	}

	pid, err := parseProjectID(projectID)
	if err != nil {
		return uuid.Nil, err
	}

	leadID, err := s.repo.FindLeadID(ctx, pid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, apperror.NotFound("not_found", "project not found")
		}
		return uuid.Nil, err
	}

	if !policy.CanManageProject(caller, leadID) {
		return uuid.Nil, fmt.Errorf("%s: %w", op, apperror.ErrForbidden)
	}
	return pid, nil
}

func (s *projectService) UpdateProject(ctx context.Context, caller policy.Caller, projectID string, input dto.UpdateProjectInput) (*commonDto.ProjectResponse, error) {
	pid, err := s.authorize(ctx, caller, projectID, "update project")
	if err != nil {
		return nil, err
	}
	if err := validator.Struct(input); err != nil {
		return nil, validator.AsAppError(err)
	}

	fields := map[string]interface{}{}
	if name := strings.TrimSpace(input.Name); name != "" {
		fields["name"] = name
	}
	if strings.TrimSpace(input.Description) != "" {
		desc, err := CheckDescription(input.Description)
		if err != nil {
			return nil, err
		}
		fields["description"] = desc
	}
	if v := optional(input.Achievement); v != nil {
		fields["achievement"] = *v
	}
	if v := optional(input.DriveURL); v != nil {
		fields["drive_url"] = *v
	}
	if v := optional(input.ImageURL); v != nil {
		fields["image_url"] = *v
	}
	if strings.TrimSpace(string(input.Year)) != "" {
		year, err := member.ParseYear(string(input.Year), "year")
		if err != nil {
			return nil, err
		}
		fields["year"] = *year
	}
	if strings.TrimSpace(input.LeadID) != "" {
		if !policy.CanManageProjectsGlobally(caller.Role) {
			return nil, apperror.Forbidden("forbidden", "only management can reassign a project lead")
		}
		leadID, err := s.resolveLead(ctx, input.LeadID)
		if err != nil {
			return nil, err
		}
		fields["lead_id"] = leadID
	}

	var members *[]entity.ProjectMembership
	if input.Members != nil || input.MemberIDs != nil {
		rows, err := s.resolveMembers(ctx, input.MemberIDs, input.Members)
		if err != nil {
			return nil, err
		}
		members = &rows
	}

	if len(fields) == 0 && members == nil {
		return nil, apperror.MissingFields()
	}

	before, err := s.repo.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("not_found", "project not found")
		}
		return nil, err
	}

	if err := s.repo.Update(ctx, pid, fields, members); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("not_found", "project not found")
		}
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, updated, before)

	res := viewmodel.ProjectFor(updated, caller.ID)
	return &res, nil
}

func (s *projectService) DeleteProject(ctx context.Context, caller policy.Caller, projectID string) error {
	pid, err := s.authorize(ctx, caller, projectID, "delete project")
	if err != nil {
		return err
	}

	before, err := s.repo.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("not_found", "project not found")
		}
		return err
	}

	if err := s.repo.Delete(ctx, pid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("not_found", "project not found")
		}
		return err
	}

	if err := s.index.DeleteProject(ctx, pid); err != nil {
		logger.Warn(ctx, "remove project from search index", zap.String("project_id", pid.String()), zap.Error(err))
	}
	s.notify(ctx, pid, before)
	return nil
}

// afterWrite refreshes the search document and tells everyone who was or is
// on the project to revalidate.
func (s *projectService) afterWrite(ctx context.Context, p, before *entity.Project) {
	if err := s.index.IndexProject(ctx, p); err != nil {
		logger.Warn(ctx, "index project", zap.String("project_id", p.ID.String()), zap.Error(err))
	}
	s.notify(ctx, p.ID, p, before)
}

func (s *projectService) notify(ctx context.Context, projectID uuid.UUID, projects ...*entity.Project) {
	seen := map[uuid.UUID]struct{}{}
	for _, p := range projects {
		if p == nil {
			continue
		}
		users := []uuid.UUID{p.LeadID}
		for _, m := range p.Members {
			users = append(users, m.UserID)
		}
		for _, id := range users {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			s.publisher.Publish(ctx, id, event.TypeProjectChanged, projectID)
		}
	}
}

func (s *projectService) ListMyProjects(ctx context.Context, caller policy.Caller) ([]commonDto.ProjectResponse, error) {
	if !caller.Authenticated() || !policy.CanListOwnProjects(caller.Role) {
		return nil, fmt.Errorf("list my projects: %w", apperror.ErrForbidden)
	}

	projects, err := s.repo.FindForUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	out := make([]commonDto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, viewmodel.ProjectFor(p, caller.ID))
	}
	return out, nil
}

func (s *projectService) ListAllProjects(ctx context.Context, caller policy.Caller) ([]commonDto.ProjectResponse, error) {
	if !policy.CanViewAllProjects(caller.Role) {
		return nil, fmt.Errorf("list projects: %w", apperror.ErrForbidden)
	}

	var leadFilter *uuid.UUID
	if !policy.CanManageProjectsGlobally(caller.Role) {
		leadFilter = &caller.ID
	}

	projects, err := s.repo.FindAll(ctx, leadFilter)
	if err != nil {
		return nil, err
	}
	return viewmodel.Projects(projects), nil
}

func (s *projectService) ListCatalogue(ctx context.Context) ([]commonDto.ProjectResponse, error) {
	projects, err := s.repo.FindCatalogue(ctx)
	if err != nil {
		return nil, err
	}
	return viewmodel.PublicProjects(projects), nil
}

// SearchCatalogue queries the search index and falls back to a database
// match when the index is disabled or failing.
func (s *projectService) SearchCatalogue(ctx context.Context, query string, limit int) ([]commonDto.ProjectResponse, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.ListCatalogue(ctx)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	if s.index.Enabled() {
		ids, err := s.index.SearchProjects(ctx, q, limit)
		if err == nil {
			if len(ids) == 0 {
				return []commonDto.ProjectResponse{}, nil
			}
			projects, err := s.repo.FindByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return viewmodel.PublicProjects(inOrder(projects, ids)), nil
		}
		logger.Warn(ctx, "project search index failed, using database", zap.Error(err))
	}

	projects, err := s.repo.SearchByName(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	return viewmodel.PublicProjects(projects), nil
}

// inOrder arranges projects in the order of ids and drops ids that no
// longer exist.
func inOrder(projects []*entity.Project, ids []uuid.UUID) []*entity.Project {
	byID := make(map[uuid.UUID]*entity.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	out := make([]*entity.Project, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
