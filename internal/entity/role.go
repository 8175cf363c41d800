package entity

import "strings"

type Role string

const (
	RoleGuest      Role = "GUEST"
	RoleMember     Role = "MEMBER"
	RoleLead       Role = "LEAD"
	RoleManagement Role = "MANAGEMENT"
	RoleFounder    Role = "FOUNDER"
)

// ParseRole accepts any letter case. ok is false for unknown values.
func ParseRole(value string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(value))); r {
	case RoleGuest, RoleMember, RoleLead, RoleManagement, RoleFounder:
		return r, true
	}
	return "", false
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func ParseStatus(value string) (Status, bool) {
	switch s := Status(strings.ToUpper(strings.TrimSpace(value))); s {
	case StatusPending, StatusApproved, StatusRejected:
		return s, true
	}
	return "", false
}

// Visibility is the minimum role a reader needs to see a piece of content.
type Visibility string

const (
	VisibilityMember     Visibility = "MEMBER"
	VisibilityLead       Visibility = "LEAD"
	VisibilityManagement Visibility = "MANAGEMENT"
)

func ParseVisibility(value string) (Visibility, bool) {
	switch v := Visibility(strings.ToUpper(strings.TrimSpace(value))); v {
	case VisibilityMember, VisibilityLead, VisibilityManagement:
		return v, true
	}
	return "", false
}
