// Package viewmodel turns stored records into the shapes returned to
// clients. Every member-shaped response goes through Member.
package viewmodel

import (
	"strconv"
	"strings"

	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/pkg/dto"
)

const MemberEndActive = "active"

// SplitName splits a combined display name on whitespace. The first token
// is the first name and the rest is the last name.
func SplitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func Member(u *entity.User) dto.MemberResponse {
	if u == nil {
		return dto.MemberResponse{Role: "guest", Status: "pending"}
	}

	first, last := SplitName(u.Name)
	res := dto.MemberResponse{
		ID:        u.ID,
		FirstName: first,
		LastName:  last,
		Email:     u.Email,
		Role:      lowerOr(string(u.Role), "guest"),
		Status:    lowerOr(string(u.Status), "pending"),
	}
	if u.Image != nil {
		res.Avatar = *u.Image
	}

	p := u.Profile
	if p == nil {
		return res
	}

	if p.FirstName != "" {
		res.FirstName = p.FirstName
	}
	if p.LastName != "" {
		res.LastName = p.LastName
	}
	if res.Email == "" {
		res.Email = p.Email
	}
	res.Phone = p.Phone
	res.Title = p.Title
	res.Position = p.Position
	res.Company = p.Company
	res.LinkedinURL = p.LinkedinURL
	if p.AvatarURL != "" {
		res.Avatar = p.AvatarURL
	}
	if p.StartYear != nil {
		res.MemberStart = strconv.Itoa(*p.StartYear)
	}
	switch {
	case p.EndYear != nil:
		res.MemberEnd = strconv.Itoa(*p.EndYear)
	case p.IsActive:
		res.MemberEnd = MemberEndActive
	}

	return res
}

func Members(users []*entity.User) []dto.MemberResponse {
	out := make([]dto.MemberResponse, 0, len(users))
	for _, u := range users {
		out = append(out, Member(u))
	}
	return out
}

func lowerOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return strings.ToLower(v)
}
