package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:150" json:"name"`
	Image        *string   `gorm:"type:text" json:"image,omitempty"`
	PasswordHash *string   `gorm:"size:255" json:"-"`
	GoogleID     *string   `gorm:"size:100;uniqueIndex" json:"google_id,omitempty"`
	Role         Role      `gorm:"size:20;not null;default:MEMBER;index" json:"role"`
	Status       Status    `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Profile      *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Profile is created lazily on the first profile save.
// EndYear is nil exactly when IsActive is true.
type Profile struct {
	UserID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	FirstName      string     `gorm:"size:100" json:"first_name"`
	LastName       string     `gorm:"size:100" json:"last_name"`
	Email          string     `gorm:"size:100" json:"email"`
	Phone          string     `gorm:"size:30" json:"phone"`
	Title          string     `gorm:"size:40" json:"title"`
	Position       string     `gorm:"size:100" json:"position"`
	Company        string     `gorm:"size:100" json:"company"`
	LinkedinURL    string     `gorm:"type:text" json:"linkedin_url"`
	AvatarURL      string     `gorm:"type:text" json:"avatar_url"`
	StartYear      *int       `json:"start_year"`
	EndYear        *int       `json:"end_year"`
	IsActive       bool       `gorm:"not null" json:"is_active"`
	TitleUpdatedAt *time.Time `json:"title_updated_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
