package dto

import commonDto "anoa.com/kulupportal/pkg/dto"

// MemberEntry is a project membership with an optional free-text label
// such as "Tasarım".
type MemberEntry struct {
	UserID string  `json:"userId"`
	Role   *string `json:"role"`
}

type CreateProjectInput struct {
	Name        string              `json:"name" binding:"max=150"`
	Description string              `json:"description"`
	Achievement string              `json:"achievement" binding:"max=500"`
	DriveURL    string              `json:"driveUrl" binding:"omitempty,url"`
	LeadID      string              `json:"leadId"`
	ImageURL    string              `json:"imageUrl" binding:"omitempty,url"`
	Year        commonDto.YearValue `json:"year"`
	MemberIDs   []string            `json:"memberIds"`
	Members     []MemberEntry       `json:"members"`
}

// UpdateProjectInput is a partial update. Empty strings mean "not
// supplied". A non-nil Members or MemberIDs replaces the whole membership
// set. Members wins when it is non-empty, otherwise MemberIDs is used.
// Entries without a userId are ignored.
type UpdateProjectInput struct {
	Name        string              `json:"name" binding:"max=150"`
	Description string              `json:"description"`
	Achievement string              `json:"achievement" binding:"max=500"`
	DriveURL    string              `json:"driveUrl" binding:"omitempty,url"`
	LeadID      string              `json:"leadId"`
	ImageURL    string              `json:"imageUrl" binding:"omitempty,url"`
	Year        commonDto.YearValue `json:"year"`
	MemberIDs   []string            `json:"memberIds"`
	Members     []MemberEntry       `json:"members"`
}

type ProjectListResponse struct {
	Data []commonDto.ProjectResponse `json:"data"`
}
