package viewmodel

import (
	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/pkg/dto"
	"github.com/google/uuid"
)

const (
	MyRoleLead   = "lead"
	MyRoleMember = "member"
)

func Project(p *entity.Project) dto.ProjectResponse {
	res := dto.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Achievement: p.Achievement,
		DriveURL:    p.DriveURL,
		ImageURL:    p.ImageURL,
		Year:        p.Year,
		LeadID:      p.LeadID,
		Members:     make([]dto.ProjectMemberResponse, 0, len(p.Members)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if p.Lead != nil {
		res.Lead = &dto.LeadResponse{
			ID:    p.Lead.ID,
			Name:  p.Lead.Name,
			Email: p.Lead.Email,
		}
	}

	for _, m := range p.Members {
		row := dto.ProjectMemberResponse{}
		if m.User != nil {
			row.MemberResponse = Member(m.User)
		} else {
			row.MemberResponse = Member(&entity.User{ID: m.UserID})
		}
		if m.Role != nil {
			row.ProjectRole = *m.Role
		}
		res.Members = append(res.Members, row)
	}

	return res
}

// ProjectFor is Project annotated with the caller's effective role in it.
func ProjectFor(p *entity.Project, callerID uuid.UUID) dto.ProjectResponse {
	res := Project(p)
	res.MyRole = MyRole(p, callerID)
	return res
}

// MyRole is "lead" for the project's lead, otherwise the stored membership
// label, otherwise "member".
func MyRole(p *entity.Project, callerID uuid.UUID) string {
	if p.LeadID == callerID {
		return MyRoleLead
	}
	for _, m := range p.Members {
		if m.UserID == callerID && m.Role != nil && *m.Role != "" {
			return *m.Role
		}
	}
	return MyRoleMember
}

func Projects(projects []*entity.Project) []dto.ProjectResponse {
	out := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, Project(p))
	}
	return out
}

// PublicProject is Project without contact details, for anonymous readers.
func PublicProject(p *entity.Project) dto.ProjectResponse {
	res := Project(p)
	if res.Lead != nil {
		res.Lead.Email = ""
	}
	for i := range res.Members {
		res.Members[i].Email = ""
		res.Members[i].Phone = ""
	}
	return res
}

func PublicProjects(projects []*entity.Project) []dto.ProjectResponse {
	out := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, PublicProject(p))
	}
	return out
}
