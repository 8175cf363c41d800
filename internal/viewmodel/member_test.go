package viewmodel

import (
	"testing"
	"time"

	"anoa.com/kulupportal/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestSplitName(t *testing.T) {
	tests := []struct {
		in          string
		first, last string
	}{
		{"", "", ""},
		{"   ", "", ""},
		{"Ayşe", "Ayşe", ""},
		{"Ayşe Nur  Yılmaz", "Ayşe", "Nur Yılmaz"},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.in)
		require.Equal(t, tt.first, first, tt.in)
		require.Equal(t, tt.last, last, tt.in)
	}
}

func TestMember_FallsBackToAccountName(t *testing.T) {
	u := &entity.User{
		ID:    uuid.New(),
		Email: "ali@uni.edu.tr",
		Name:  "Ali Veli Demir",
		Image: strPtr("https://img/google.png"),
		Role:  entity.RoleLead,
	}

	res := Member(u)
	require.Equal(t, "Ali", res.FirstName)
	require.Equal(t, "Veli Demir", res.LastName)
	require.Equal(t, "lead", res.Role)
	require.Equal(t, "pending", res.Status)
	require.Equal(t, "https://img/google.png", res.Avatar)
	require.Empty(t, res.MemberEnd)
}

func TestMember_Defaults(t *testing.T) {
	res := Member(&entity.User{ID: uuid.New()})
	require.Equal(t, "guest", res.Role)
	require.Equal(t, "pending", res.Status)

	res = Member(nil)
	require.Equal(t, "guest", res.Role)
}

func TestMember_ProfileWins(t *testing.T) {
	u := &entity.User{
		ID:     uuid.New(),
		Email:  "zeynep@uni.edu.tr",
		Name:   "Google Name",
		Image:  strPtr("https://img/google.png"),
		Role:   entity.RoleMember,
		Status: entity.StatusApproved,
		Profile: &entity.Profile{
			FirstName: "Zeynep",
			LastName:  "Kaya",
			Phone:     "5551112233",
			Title:     "Kaptan",
			AvatarURL: "https://img/custom.png",
			StartYear: intPtr(2021),
			IsActive:  true,
		},
	}

	res := Member(u)
	require.Equal(t, "Zeynep", res.FirstName)
	require.Equal(t, "Kaya", res.LastName)
	require.Equal(t, "approved", res.Status)
	require.Equal(t, "2021", res.MemberStart)
	require.Equal(t, MemberEndActive, res.MemberEnd)
	require.Equal(t, "https://img/custom.png", res.Avatar)

	u.Profile.IsActive = false
	u.Profile.EndYear = intPtr(2024)
	require.Equal(t, "2024", Member(u).MemberEnd)
}

func TestMyRole(t *testing.T) {
	lead := uuid.New()
	labelled := uuid.New()
	plain := uuid.New()

	p := &entity.Project{
		ID:        uuid.New(),
		LeadID:    lead,
		CreatedAt: time.Now(),
		Members: []entity.ProjectMembership{
			{UserID: lead, Role: strPtr("Ekip Lideri")},
			{UserID: labelled, Role: strPtr("Tasarımcı")},
			{UserID: plain},
		},
	}

	require.Equal(t, MyRoleLead, MyRole(p, lead))
	require.Equal(t, "Tasarımcı", MyRole(p, labelled))
	require.Equal(t, MyRoleMember, MyRole(p, plain))

	res := ProjectFor(p, labelled)
	require.Len(t, res.Members, 3)
	require.Equal(t, "Ekip Lideri", res.Members[0].ProjectRole)
	require.Equal(t, "", res.Members[2].ProjectRole)
	require.Equal(t, "Tasarımcı", res.MyRole)
}

func TestPublicProjectHidesContact(t *testing.T) {
	member := &entity.User{ID: uuid.New(), Name: "Ali Veli", Email: "ali@uni.edu.tr",
		Profile: &entity.Profile{FirstName: "Ali", LastName: "Veli", Phone: "555"}}
	p := &entity.Project{
		ID:      uuid.New(),
		LeadID:  member.ID,
		Lead:    member,
		Members: []entity.ProjectMembership{{UserID: member.ID, User: member}},
	}

	res := PublicProject(p)
	require.Empty(t, res.Lead.Email)
	require.Empty(t, res.Members[0].Email)
	require.Empty(t, res.Members[0].Phone)
	require.Equal(t, "Ali", res.Members[0].FirstName)

	// the full projection is unaffected
	require.Equal(t, "ali@uni.edu.tr", Project(p).Lead.Email)
}
