package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactSettings backs the contact page. Only the most recently updated
// row is ever read.
type ContactSettings struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	BannerSubtitle string    `gorm:"type:text"`
	BannerText     string    `gorm:"type:text"`
	JoinText       string    `gorm:"type:text"`
	JoinHref       string    `gorm:"type:text"`
	EmailValue     string    `gorm:"type:text"`
	EmailHref      string    `gorm:"type:text"`
	InstagramValue string    `gorm:"type:text"`
	InstagramHref  string    `gorm:"type:text"`
	XValue         string    `gorm:"type:text"`
	XHref          string    `gorm:"type:text"`
	LinkedinValue  string    `gorm:"type:text"`
	LinkedinHref   string    `gorm:"type:text"`
	WebValue       string    `gorm:"type:text"`
	WebHref        string    `gorm:"type:text"`
	Address        string    `gorm:"type:text"`
	MapURL         string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime;index"`
}

func (c *ContactSettings) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// SponsorsSettings stores the sponsors page as one JSON document.
type SponsorsSettings struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Data      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`
}

func (s *SponsorsSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Announcement struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Tag         string     `gorm:"size:50;not null;index" json:"tag"`
	Date        *time.Time `gorm:"index" json:"date"`
	Published   bool       `gorm:"not null" json:"published"`
	Visibility  Visibility `gorm:"size:20;not null" json:"visibility"`
	Description string     `gorm:"type:text" json:"description"`
	FooterLeft  string     `gorm:"size:200" json:"footer_left"`
	Links       string     `gorm:"type:text" json:"-"`
	ImageURL    string     `gorm:"type:text" json:"image_url"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
