package dto

import (
	"time"

	"github.com/google/uuid"
)

type ContactLink struct {
	Value string `json:"value"`
	Href  string `json:"href"`
}

// ContactPage is both the contact page document and its update payload.
// Missing fields are stored as empty strings.
type ContactPage struct {
	BannerSubtitle string      `json:"bannerSubtitle"`
	BannerText     string      `json:"bannerText"`
	JoinText       string      `json:"joinText"`
	JoinHref       string      `json:"joinHref"`
	Email          ContactLink `json:"email"`
	Instagram      ContactLink `json:"instagram"`
	X              ContactLink `json:"x"`
	Linkedin       ContactLink `json:"linkedin"`
	Web            ContactLink `json:"web"`
	Address        string      `json:"address"`
	MapURL         string      `json:"mapUrl"`
}

type AnnouncementLink struct {
	Label string `json:"label" binding:"max=100"`
	URL   string `json:"url" binding:"omitempty,url"`
}

type CreateAnnouncementInput struct {
	Title       string             `json:"title" binding:"required,max=200"`
	Tag         string             `json:"tag" binding:"required,max=50"`
	Date        string             `json:"date"`
	Published   *bool              `json:"published"`
	Visibility  string             `json:"visibility"`
	Description string             `json:"description"`
	FooterLeft  string             `json:"footerLeft" binding:"max=200"`
	Links       []AnnouncementLink `json:"links" binding:"dive"`
	ImageURL    string             `json:"imageUrl" binding:"omitempty,url"`
}

// UpdateAnnouncementInput changes only the fields that are sent. A non-nil
// Links replaces the whole list.
type UpdateAnnouncementInput struct {
	Title       *string            `json:"title" binding:"omitempty,max=200"`
	Tag         *string            `json:"tag" binding:"omitempty,max=50"`
	Date        *string            `json:"date"`
	Published   *bool              `json:"published"`
	Visibility  *string            `json:"visibility"`
	Description *string            `json:"description"`
	FooterLeft  *string            `json:"footerLeft" binding:"omitempty,max=200"`
	Links       []AnnouncementLink `json:"links" binding:"omitempty,dive"`
	ImageURL    *string            `json:"imageUrl" binding:"omitempty,url"`
}

type AnnouncementResponse struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Tag         string             `json:"tag"`
	Date        string             `json:"date,omitempty"`
	Published   bool               `json:"published"`
	Visibility  string             `json:"visibility"`
	Description string             `json:"description"`
	FooterLeft  string             `json:"footerLeft"`
	Links       []AnnouncementLink `json:"links"`
	ImageURL    string             `json:"imageUrl"`
	AuthorID    uuid.UUID          `json:"authorId"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type AnnouncementListResponse struct {
	Data []AnnouncementResponse `json:"data"`
}
