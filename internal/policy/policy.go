// Package policy holds every role based access rule. Functions here are
// pure; callers decide how to report a refusal.
package policy

import (
	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/pkg/apperror"
	"github.com/google/uuid"
)

// Caller is the authenticated identity behind a request. A zero Caller is
// an anonymous visitor.
type Caller struct {
	ID   uuid.UUID
	Role entity.Role
}

func (c Caller) Authenticated() bool {
	return c.ID != uuid.Nil
}

// PublicTags are announcement categories anonymous visitors may read.
var PublicTags = []string{"Etkinlik", "Yarışma", "Genel"}

// Rank orders roles for visibility comparisons. GUEST and unknown roles are 0.
func Rank(role entity.Role) int {
	switch role {
	case entity.RoleMember:
		return 1
	case entity.RoleLead:
		return 2
	case entity.RoleManagement:
		return 3
	case entity.RoleFounder:
		return 4
	}
	return 0
}

func visibilityRank(v entity.Visibility) int {
	return Rank(entity.Role(v))
}

func isPrivileged(role entity.Role) bool {
	return role == entity.RoleManagement || role == entity.RoleFounder
}

func CanAccessAdminArea(role entity.Role) bool {
	return role != "" && role != entity.RoleGuest
}

func CanApproveMembers(role entity.Role) bool {
	return isPrivileged(role)
}

func CanManageAllMembers(role entity.Role) bool {
	return isPrivileged(role)
}

func CanManageProjectsGlobally(role entity.Role) bool {
	return isPrivileged(role)
}

// CanManageOwnLeadProjects only grants the capability; ownership is checked
// by CanManageProject.
func CanManageOwnLeadProjects(role entity.Role) bool {
	return role == entity.RoleLead
}

func CanCreateProject(role entity.Role) bool {
	return isPrivileged(role)
}

func CanListMembers(role entity.Role) bool {
	return Rank(role) >= Rank(entity.RoleLead)
}

func CanViewAllProjects(role entity.Role) bool {
	return Rank(role) >= Rank(entity.RoleLead)
}

func CanListOwnProjects(role entity.Role) bool {
	return CanAccessAdminArea(role)
}

// CanManageProject reports whether caller may patch or delete a project
// led by leadID.
func CanManageProject(caller Caller, leadID uuid.UUID) bool {
	if CanManageProjectsGlobally(caller.Role) {
		return true
	}
	return CanManageOwnLeadProjects(caller.Role) && caller.ID != uuid.Nil && caller.ID == leadID
}

// CanViewContent reports whether role may read content with the given
// visibility. Anonymous visitors additionally see public tags.
func CanViewContent(role entity.Role, visibility entity.Visibility, tag string) bool {
	if Rank(role) == 0 {
		return IsPublicTag(tag)
	}
	return Rank(role) >= visibilityRank(visibility)
}

func IsPublicTag(tag string) bool {
	for _, t := range PublicTags {
		if t == tag {
			return true
		}
	}
	return false
}

func CanEditContent(role entity.Role) bool {
	return Rank(role) >= Rank(entity.RoleLead)
}

func CanPublishAnnouncements(role entity.Role) bool {
	return Rank(role) >= Rank(entity.RoleLead)
}

// CanAssignVisibility stops a caller from publishing content they could
// not read themselves.
func CanAssignVisibility(role entity.Role, visibility entity.Visibility) bool {
	return Rank(role) >= visibilityRank(visibility)
}

// CheckRoleAssignment guards every write that touches a user's role.
// A founder can never be changed and nobody can become one.
func CheckRoleAssignment(current, next entity.Role) error {
	if current == entity.RoleFounder {
		return apperror.ForbiddenRole("founder account cannot be modified")
	}
	if next == entity.RoleFounder {
		return apperror.ForbiddenRole("founder role cannot be assigned")
	}
	return nil
}

// CheckRemoval guards member deletion.
func CheckRemoval(target entity.Role) error {
	if target == entity.RoleFounder {
		return apperror.ForbiddenRole("founder account cannot be removed")
	}
	return nil
}
