package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string              `gorm:"size:150;not null" json:"name"`
	Description string              `gorm:"size:170;not null" json:"description"`
	Achievement *string             `gorm:"type:text" json:"achievement"`
	DriveURL    *string             `gorm:"type:text" json:"drive_url"`
	ImageURL    string              `gorm:"type:text;not null" json:"image_url"`
	Year        int                 `gorm:"not null;index" json:"year"`
	LeadID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"lead_id"`
	Lead        *User               `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	Members     []ProjectMembership `gorm:"constraint:OnDelete:CASCADE" json:"members,omitempty"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProjectMembership joins a user to a project with a free-text role label
// such as "Ekip Lideri". The (project, user) pair is unique.
type ProjectMembership struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_user;index" json:"user_id"`
	Role      *string   `gorm:"size:100" json:"role"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (m *ProjectMembership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
