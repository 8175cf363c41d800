package bootstrap_test

import (
	"testing"

	"anoa.com/kulupportal/internal/bootstrap"
	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedFounder(t *testing.T) {
	db := testutil.NewDB(t)

	require.Error(t, bootstrap.SeedFounder(db, "", "x"))

	require.NoError(t, bootstrap.SeedFounder(db, " Kurucu@Uni.edu.tr ", "parola"))

	var founder entity.User
	require.NoError(t, db.Where("email = ?", "kurucu@uni.edu.tr").First(&founder).Error)
	require.Equal(t, entity.RoleFounder, founder.Role)
	require.Equal(t, entity.StatusApproved, founder.Status)
	require.NotNil(t, founder.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(*founder.PasswordHash), []byte("parola")))

	// a second run leaves the existing founder alone
	require.NoError(t, bootstrap.SeedFounder(db, "baska@uni.edu.tr", "parola"))
	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSeedFounder_PromotesExistingAccount(t *testing.T) {
	db := testutil.NewDB(t)
	existing := testutil.CreateUser(t, db, "Eski Uye", entity.RoleMember, entity.StatusPending)

	require.NoError(t, bootstrap.SeedFounder(db, existing.Email, "parola"))

	var reloaded entity.User
	require.NoError(t, db.First(&reloaded, "id = ?", existing.ID).Error)
	require.Equal(t, entity.RoleFounder, reloaded.Role)
	require.Equal(t, entity.StatusApproved, reloaded.Status)
}
