package policy

import (
	"testing"

	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var allRoles = []entity.Role{
	"",
	entity.RoleGuest,
	entity.RoleMember,
	entity.RoleLead,
	entity.RoleManagement,
	entity.RoleFounder,
}

func TestRank(t *testing.T) {
	require.Equal(t, 0, Rank(""))
	require.Equal(t, 0, Rank(entity.RoleGuest))
	require.Equal(t, 1, Rank(entity.RoleMember))
	require.Equal(t, 2, Rank(entity.RoleLead))
	require.Equal(t, 3, Rank(entity.RoleManagement))
	require.Equal(t, 4, Rank(entity.RoleFounder))
	require.Equal(t, 0, Rank("ADMIN"))
}

func TestCanAccessAdminArea(t *testing.T) {
	for _, r := range allRoles {
		want := r != entity.RoleGuest && r != ""
		require.Equal(t, want, CanAccessAdminArea(r), "role %q", r)
	}
}

func TestPrivilegedPredicates(t *testing.T) {
	tests := []struct {
		role       entity.Role
		privileged bool
		lead       bool
		listing    bool
	}{
		{"", false, false, false},
		{entity.RoleGuest, false, false, false},
		{entity.RoleMember, false, false, false},
		{entity.RoleLead, false, true, true},
		{entity.RoleManagement, true, false, true},
		{entity.RoleFounder, true, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			require.Equal(t, tt.privileged, CanApproveMembers(tt.role))
			require.Equal(t, tt.privileged, CanManageAllMembers(tt.role))
			require.Equal(t, tt.privileged, CanManageProjectsGlobally(tt.role))
			require.Equal(t, tt.privileged, CanCreateProject(tt.role))
			require.Equal(t, tt.lead, CanManageOwnLeadProjects(tt.role))
			require.Equal(t, tt.listing, CanListMembers(tt.role))
			require.Equal(t, tt.listing, CanViewAllProjects(tt.role))
			require.Equal(t, tt.listing, CanEditContent(tt.role))
			require.Equal(t, tt.listing, CanPublishAnnouncements(tt.role))
		})
	}
}

func TestCanManageProject(t *testing.T) {
	leadID := uuid.New()
	other := uuid.New()

	require.True(t, CanManageProject(Caller{ID: leadID, Role: entity.RoleLead}, leadID))
	require.False(t, CanManageProject(Caller{ID: other, Role: entity.RoleLead}, leadID))
	require.True(t, CanManageProject(Caller{ID: other, Role: entity.RoleManagement}, leadID))
	require.True(t, CanManageProject(Caller{ID: other, Role: entity.RoleFounder}, leadID))

	// leading a project is not enough without the LEAD role
	require.False(t, CanManageProject(Caller{ID: leadID, Role: entity.RoleMember}, leadID))
	require.False(t, CanManageProject(Caller{Role: entity.RoleLead}, uuid.Nil))
}

func TestCanViewContent(t *testing.T) {
	tests := []struct {
		name       string
		role       entity.Role
		visibility entity.Visibility
		tag        string
		want       bool
	}{
		{"anonymous public tag", "", entity.VisibilityManagement, "Etkinlik", true},
		{"anonymous private tag", "", entity.VisibilityMember, "Toplantı", false},
		{"guest public tag", entity.RoleGuest, entity.VisibilityMember, "Genel", true},
		{"member reads member", entity.RoleMember, entity.VisibilityMember, "Toplantı", true},
		{"member blocked from lead", entity.RoleMember, entity.VisibilityLead, "Genel", false},
		{"lead reads lead", entity.RoleLead, entity.VisibilityLead, "", true},
		{"lead blocked from management", entity.RoleLead, entity.VisibilityManagement, "", false},
		{"founder reads management", entity.RoleFounder, entity.VisibilityManagement, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanViewContent(tt.role, tt.visibility, tt.tag))
		})
	}
}

func TestCanAssignVisibility(t *testing.T) {
	require.True(t, CanAssignVisibility(entity.RoleLead, entity.VisibilityLead))
	require.False(t, CanAssignVisibility(entity.RoleLead, entity.VisibilityManagement))
	require.True(t, CanAssignVisibility(entity.RoleManagement, entity.VisibilityManagement))
}

func TestCheckRoleAssignment(t *testing.T) {
	// nobody, founder included, can touch a founder or mint a new one
	err := CheckRoleAssignment(entity.RoleFounder, entity.RoleMember)
	require.Equal(t, apperror.KindForbiddenRole, apperror.Kind(err))

	err = CheckRoleAssignment(entity.RoleFounder, entity.RoleFounder)
	require.Equal(t, apperror.KindForbiddenRole, apperror.Kind(err))

	err = CheckRoleAssignment(entity.RoleManagement, entity.RoleFounder)
	require.Equal(t, apperror.KindForbiddenRole, apperror.Kind(err))

	require.NoError(t, CheckRoleAssignment(entity.RoleMember, entity.RoleLead))
	require.NoError(t, CheckRoleAssignment(entity.RoleManagement, entity.RoleMember))

	require.ErrorIs(t, CheckRemoval(entity.RoleFounder), apperror.ErrForbiddenRole)
	require.NoError(t, CheckRemoval(entity.RoleManagement))
}
