package dto

import commonDto "anoa.com/kulupportal/pkg/dto"

// SubmitProfileInput is the self-service profile form. MemberEnd is a year
// or "active".
type SubmitProfileInput struct {
	FirstName   string              `json:"firstName" binding:"required,max=100"`
	LastName    string              `json:"lastName" binding:"required,max=100"`
	Email       string              `json:"email" binding:"omitempty,email,max=100"`
	Phone       string              `json:"phone" binding:"required,max=30"`
	Title       string              `json:"title"`
	Position    string              `json:"position" binding:"max=100"`
	Company     string              `json:"company" binding:"max=100"`
	LinkedinURL string              `json:"linkedinUrl" binding:"omitempty,url"`
	Avatar      string              `json:"avatar" binding:"omitempty,url"`
	MemberStart commonDto.YearValue `json:"memberStart" binding:"required"`
	MemberEnd   commonDto.YearValue `json:"memberEnd"`
}

// ReviewMemberInput is a privileged patch. Every field is optional.
type ReviewMemberInput struct {
	Role        *string              `json:"role"`
	Status      *string              `json:"status"`
	Title       *string              `json:"title"`
	Phone       *string              `json:"phone"`
	MemberStart *commonDto.YearValue `json:"memberStart"`
	MemberEnd   *commonDto.YearValue `json:"memberEnd"`
}

type MemberListResponse struct {
	Data []commonDto.MemberResponse `json:"data"`
	Meta commonDto.PaginationMeta   `json:"meta"`
}
