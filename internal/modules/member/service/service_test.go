package member

import (
	"context"
	"strings"
	"testing"
	"time"

	"anoa.com/kulupportal/internal/entity"
	event "anoa.com/kulupportal/internal/modules/event/service"
	"anoa.com/kulupportal/internal/modules/member/dto"
	userRepo "anoa.com/kulupportal/internal/modules/user/repository"
	"anoa.com/kulupportal/internal/policy"
	"anoa.com/kulupportal/internal/testutil"
	"anoa.com/kulupportal/pkg/apperror"
	commonDto "anoa.com/kulupportal/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	repo     userRepo.UserRepository
	profiles *profileService
	members  *memberService
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	repo := userRepo.NewUserRepository(db)
	f := &fixture{
		db:    db,
		repo:  repo,
		clock: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.profiles = NewProfileService(repo).(*profileService)
	f.profiles.now = func() time.Time { return f.clock }
	f.members = NewMemberService(repo, event.NewPublisher(nil)).(*memberService)
	f.members.now = func() time.Time { return f.clock }
	return f
}

func validInput(title string) dto.SubmitProfileInput {
	return dto.SubmitProfileInput{
		FirstName:   "Elif",
		LastName:    "Şahin",
		Phone:       "5551234567",
		Title:       title,
		MemberStart: "2022",
		MemberEnd:   "active",
	}
}

func strPtr(v string) *string { return &v }

func yearPtr(v string) *commonDto.YearValue {
	y := commonDto.YearValue(v)
	return &y
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		ok    bool
	}{
		{"empty clears", "   ", true},
		{"one char", "a", false},
		{"two chars", "ab", true},
		{"forty chars", strings.Repeat("a", 40), true},
		{"forty one chars", strings.Repeat("a", 41), false},
		{"turkish letters", "Yazılım Şefi", true},
		{"punctuation", "Dr. O'Neil-Ak", true},
		{"symbols", "lider!", false},
		{"banned case insensitive", "Salak Lider", false},
		{"banned inside word", "Kaptanamk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeTitle(tt.title)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.Equal(t, apperror.KindValidation, apperror.Kind(err))
			require.Equal(t, "title_invalid", apperror.Reason(err))
		})
	}
}

func TestParseMemberEnd(t *testing.T) {
	end, active, err := ParseMemberEnd("active")
	require.NoError(t, err)
	require.Nil(t, end)
	require.True(t, active)

	end, active, err = ParseMemberEnd("")
	require.NoError(t, err)
	require.Nil(t, end)
	require.True(t, active)

	end, active, err = ParseMemberEnd("2024")
	require.NoError(t, err)
	require.Equal(t, 2024, *end)
	require.False(t, active)

	_, _, err = ParseMemberEnd("soon")
	require.Equal(t, apperror.KindValidation, apperror.Kind(err))
}

func TestSubmitOwnProfile_CreatesProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, f.db, "Elif Google", entity.RoleMember, entity.StatusPending)

	res, err := f.profiles.SubmitOwnProfile(ctx, u.ID.String(), validInput("Kaptan"))
	require.NoError(t, err)
	require.Equal(t, "Elif", res.FirstName)
	require.Equal(t, "Kaptan", res.Title)
	require.Equal(t, "2022", res.MemberStart)
	require.Equal(t, "active", res.MemberEnd)
	require.Equal(t, "pending", res.Status)

	stored, err := f.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Elif Şahin", stored.Name)
	require.Equal(t, u.Email, stored.Profile.Email)
	require.NotNil(t, stored.Profile.TitleUpdatedAt)
	require.True(t, stored.Profile.IsActive)
	require.Nil(t, stored.Profile.EndYear)
}

func TestSubmitOwnProfile_NoTitleLeavesTimestampEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, f.db, "Can Er", entity.RoleMember, entity.StatusPending)

	_, err := f.profiles.SubmitOwnProfile(ctx, u.ID.String(), validInput(""))
	require.NoError(t, err)

	stored, err := f.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, stored.Profile.TitleUpdatedAt)

	// the first title is not rate limited
	_, err = f.profiles.SubmitOwnProfile(ctx, u.ID.String(), validInput("Kaptan"))
	require.NoError(t, err)
}

func TestSubmitOwnProfile_RequiredFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, f.db, "Can Er", entity.RoleMember, entity.StatusPending)

	in := validInput("")
	in.MemberStart = ""
	_, err := f.profiles.SubmitOwnProfile(ctx, u.ID.String(), in)
	require.Equal(t, "memberStart_required", apperror.Reason(err))

	in = validInput("")
	in.Phone = ""
	_, err = f.profiles.SubmitOwnProfile(ctx, u.ID.String(), in)
	require.Equal(t, "phone_required", apperror.Reason(err))

	in = validInput("")
	in.Email = "not-an-email"
	_, err = f.profiles.SubmitOwnProfile(ctx, u.ID.String(), in)
	require.Equal(t, apperror.KindValidation, apperror.Kind(err))

	in = validInput("")
	in.MemberStart = "iki bin"
	_, err = f.profiles.SubmitOwnProfile(ctx, u.ID.String(), in)
	require.Equal(t, "memberStart_invalid", apperror.Reason(err))

	in = validInput("")
	in.MemberEnd = "2020"
	_, err = f.profiles.SubmitOwnProfile(ctx, u.ID.String(), in)
	require.Equal(t, "memberEnd_invalid", apperror.Reason(err))

	stored, err := f.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, stored.Profile)
}

func TestSubmitOwnProfile_TitleCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, f.db, "Elif Google", entity.RoleMember, entity.StatusPending)
	id := u.ID.String()

	_, err := f.profiles.SubmitOwnProfile(ctx, id, validInput("Kaptan"))
	require.NoError(t, err)
	first := f.clock

	// same title with other changes is never rate limited
	f.clock = first.Add(time.Hour)
	in := validInput("Kaptan")
	in.Company = "Aselsan"
	_, err = f.profiles.SubmitOwnProfile(ctx, id, in)
	require.NoError(t, err)

	f.clock = first.Add(23*time.Hour + 59*time.Minute)
	in = validInput("Yeni Ünvan")
	in.Company = "Roketsan"
	_, err = f.profiles.SubmitOwnProfile(ctx, id, in)
	require.Equal(t, apperror.KindRateLimited, apperror.Kind(err))
	require.Equal(t, "title_rate_limited", apperror.Reason(err))

	// the rejected submission changed nothing
	stored, err := f.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Kaptan", stored.Profile.Title)
	require.Equal(t, "Aselsan", stored.Profile.Company)

	f.clock = first.Add(24 * time.Hour)
	_, err = f.profiles.SubmitOwnProfile(ctx, id, in)
	require.NoError(t, err)

	stored, err = f.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Yeni Ünvan", stored.Profile.Title)
	require.True(t, stored.Profile.TitleUpdatedAt.Equal(f.clock))
}

func TestSubmitOwnProfile_StatusPreservation(t *testing.T) {
	tests := []struct {
		current entity.Status
		want    string
	}{
		{entity.StatusPending, "pending"},
		{entity.StatusApproved, "approved"},
		{entity.StatusRejected, "rejected"},
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			f := newFixture(t)
			u := testutil.CreateUser(t, f.db, "Elif Google", entity.RoleMember, tt.current)

			res, err := f.profiles.SubmitOwnProfile(context.Background(), u.ID.String(), validInput(""))
			require.NoError(t, err)
			require.Equal(t, tt.want, res.Status)
		})
	}
}

func TestSubmitOwnProfile_EndedMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, f.db, "Elif Google", entity.RoleMember, entity.StatusApproved)

	in := validInput("")
	in.MemberEnd = "2024"
	res, err := f.profiles.SubmitOwnProfile(ctx, u.ID.String(), in)
	require.NoError(t, err)
	require.Equal(t, "2024", res.MemberEnd)

	stored, err := f.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, stored.Profile.IsActive)
	require.Equal(t, 2024, *stored.Profile.EndYear)
}

func TestGetOwnProfile_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.profiles.GetOwnProfile(context.Background(), uuid.NewString())
	require.Equal(t, apperror.KindNotFound, apperror.Kind(err))
}

func TestListMembers_Access(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "Member A", entity.RoleMember, entity.StatusApproved)
	lead := testutil.CreateUser(t, f.db, "Lead One", entity.RoleLead, entity.StatusApproved)

	_, err := f.members.ListMembers(ctx, policy.Caller{ID: uuid.New(), Role: entity.RoleMember})
	require.Equal(t, apperror.KindForbidden, apperror.Kind(err))

	res, err := f.members.ListMembers(ctx, policy.Caller{ID: lead.ID, Role: entity.RoleLead})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	require.EqualValues(t, 2, res.Meta.TotalItems)
}

func TestReviewMember_ApproveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgmt := testutil.CreateUser(t, f.db, "Mgmt One", entity.RoleManagement, entity.StatusApproved)
	u := testutil.CreateUser(t, f.db, "Member A", entity.RoleMember, entity.StatusPending)
	caller := policy.Caller{ID: mgmt.ID, Role: mgmt.Role}

	in := dto.ReviewMemberInput{Status: strPtr("approved")}
	first, err := f.members.ReviewMember(ctx, caller, u.ID.String(), in)
	require.NoError(t, err)
	second, err := f.members.ReviewMember(ctx, caller, u.ID.String(), in)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, "approved", second.Status)

	// re-review both ways
	_, err = f.members.ReviewMember(ctx, caller, u.ID.String(), dto.ReviewMemberInput{Status: strPtr("REJECTED")})
	require.NoError(t, err)
	res, err := f.members.ReviewMember(ctx, caller, u.ID.String(), dto.ReviewMemberInput{Status: strPtr("approved"), Role: strPtr("lead")})
	require.NoError(t, err)
	require.Equal(t, "approved", res.Status)
	require.Equal(t, "lead", res.Role)
}

func TestReviewMember_FounderProtection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := testutil.CreateUser(t, f.db, "Founder", entity.RoleFounder, entity.StatusApproved)
	mgmt := testutil.CreateUser(t, f.db, "Mgmt One", entity.RoleManagement, entity.StatusApproved)
	member := testutil.CreateUser(t, f.db, "Member A", entity.RoleMember, entity.StatusApproved)

	callers := []policy.Caller{
		{ID: founder.ID, Role: entity.RoleFounder},
		{ID: mgmt.ID, Role: entity.RoleManagement},
		{ID: member.ID, Role: entity.RoleMember},
	}

	for _, caller := range callers {
		t.Run(string(caller.Role), func(t *testing.T) {
			_, err := f.members.ReviewMember(ctx, caller, member.ID.String(), dto.ReviewMemberInput{Role: strPtr("founder")})
			require.Equal(t, apperror.KindForbiddenRole, apperror.Kind(err))

			_, err = f.members.ReviewMember(ctx, caller, founder.ID.String(), dto.ReviewMemberInput{Role: strPtr("member")})
			require.Equal(t, apperror.KindForbiddenRole, apperror.Kind(err))

			err = f.members.RemoveMember(ctx, caller, founder.ID.String())
			require.Equal(t, apperror.KindForbiddenRole, apperror.Kind(err))
		})
	}

	stored, err := f.repo.FindByID(ctx, founder.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RoleFounder, stored.Role)
}

func TestReviewMember_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgmt := testutil.CreateUser(t, f.db, "Mgmt One", entity.RoleManagement, entity.StatusApproved)
	lead := testutil.CreateUser(t, f.db, "Lead One", entity.RoleLead, entity.StatusApproved)
	u := testutil.CreateUser(t, f.db, "Member A", entity.RoleMember, entity.StatusPending)
	caller := policy.Caller{ID: mgmt.ID, Role: mgmt.Role}

	_, err := f.members.ReviewMember(ctx, caller, u.ID.String(), dto.ReviewMemberInput{Role: strPtr("admin")})
	require.Equal(t, "role_invalid", apperror.Reason(err))

	_, err = f.members.ReviewMember(ctx, caller, u.ID.String(), dto.ReviewMemberInput{Status: strPtr("maybe")})
	require.Equal(t, "status_invalid", apperror.Reason(err))

	_, err = f.members.ReviewMember(ctx, caller, uuid.NewString(), dto.ReviewMemberInput{Status: strPtr("approved")})
	require.Equal(t, apperror.KindNotFound, apperror.Kind(err))

	// a lead never changes member roles or statuses
	_, err = f.members.ReviewMember(ctx, policy.Caller{ID: lead.ID, Role: entity.RoleLead}, u.ID.String(), dto.ReviewMemberInput{Status: strPtr("approved")})
	require.Equal(t, apperror.KindForbidden, apperror.Kind(err))
}

func TestReviewMember_ProfileCorrectionsSkipCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgmt := testutil.CreateUser(t, f.db, "Mgmt One", entity.RoleManagement, entity.StatusApproved)
	u := testutil.CreateUser(t, f.db, "Elif Google", entity.RoleMember, entity.StatusApproved)
	caller := policy.Caller{ID: mgmt.ID, Role: mgmt.Role}

	_, err := f.profiles.SubmitOwnProfile(ctx, u.ID.String(), validInput("Kaptan"))
	require.NoError(t, err)

	f.clock = f.clock.Add(time.Minute)
	res, err := f.members.ReviewMember(ctx, caller, u.ID.String(), dto.ReviewMemberInput{
		Title:     strPtr("Onur Üyesi"),
		Phone:     strPtr("5559990000"),
		MemberEnd: yearPtr("2024"),
	})
	require.NoError(t, err)
	require.Equal(t, "Onur Üyesi", res.Title)
	require.Equal(t, "2024", res.MemberEnd)
	require.Equal(t, "Elif", res.FirstName)

	stored, err := f.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, stored.Profile.TitleUpdatedAt.Equal(f.clock))
	require.False(t, stored.Profile.IsActive)

	_, err = f.members.ReviewMember(ctx, caller, u.ID.String(), dto.ReviewMemberInput{Title: strPtr("Salak")})
	require.Equal(t, "title_invalid", apperror.Reason(err))

	_, err = f.members.ReviewMember(ctx, caller, u.ID.String(), dto.ReviewMemberInput{MemberStart: yearPtr("2030")})
	require.Equal(t, "memberEnd_invalid", apperror.Reason(err))
}

func TestRemoveMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgmt := testutil.CreateUser(t, f.db, "Mgmt One", entity.RoleManagement, entity.StatusApproved)
	lead := testutil.CreateUser(t, f.db, "Lead One", entity.RoleLead, entity.StatusApproved)
	u := testutil.CreateUser(t, f.db, "Member A", entity.RoleMember, entity.StatusApproved)
	caller := policy.Caller{ID: mgmt.ID, Role: mgmt.Role}

	err := f.members.RemoveMember(ctx, policy.Caller{ID: lead.ID, Role: entity.RoleLead}, u.ID.String())
	require.Equal(t, apperror.KindForbidden, apperror.Kind(err))

	require.NoError(t, f.members.RemoveMember(ctx, caller, u.ID.String()))
	_, err = f.repo.FindByID(ctx, u.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = f.members.RemoveMember(ctx, caller, u.ID.String())
	require.Equal(t, apperror.KindNotFound, apperror.Kind(err))

	p := &entity.Project{Name: "Rover", Description: "d", ImageURL: "img", Year: 2024, LeadID: lead.ID}
	require.NoError(t, f.db.Omit("Lead", "Members").Create(p).Error)
	err = f.members.RemoveMember(ctx, caller, lead.ID.String())
	require.Equal(t, "member_leads_projects", apperror.Reason(err))
}
