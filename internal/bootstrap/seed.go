package bootstrap

import (
	"context"
	"errors"
	"strings"

	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Project{},
		&entity.ProjectMembership{},
		&entity.ContactSettings{},
		&entity.SponsorsSettings{},
		&entity.Announcement{},
	)
}

// SeedFounder creates the founder account with a local password when no
// founder exists yet. It is only called in development.
func SeedFounder(db *gorm.DB, email, password string) error {
	ctx := context.Background()
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return errors.New("founder email and password are required for seeding")
	}

	var count int64
	if err := db.Model(&entity.User{}).
		Where("role = ?", entity.RoleFounder).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info(ctx, "founder already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hash := string(hashed)

	founder := entity.User{
		Email:        email,
		Name:         "Kulüp Kurucusu",
		PasswordHash: &hash,
		Role:         entity.RoleFounder,
		Status:       entity.StatusApproved,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing entity.User
		err := tx.Where("email = ?", email).First(&existing).Error
		switch {
		case err == nil:
			// promote the existing account rather than failing on the unique email
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"role":          entity.RoleFounder,
				"status":        entity.StatusApproved,
				"password_hash": hash,
			}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&founder).Error; err != nil {
				return err
			}
		default:
			return err
		}

		logger.Info(ctx, "founder account seeded", zap.String("email", email))
		return nil
	})
}
