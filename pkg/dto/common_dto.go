package dto

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MemberResponse is the external shape of every member-like record.
type MemberResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Title       string    `json:"title"`
	Position    string    `json:"position"`
	Company     string    `json:"company"`
	LinkedinURL string    `json:"linkedinUrl"`
	MemberStart string    `json:"memberStart"`
	MemberEnd   string    `json:"memberEnd"`
	Status      string    `json:"status"`
	Role        string    `json:"role"`
	Avatar      string    `json:"avatar"`
}

// ProjectMemberResponse is a member row inside a project, with the
// free-text per-project role label.
type ProjectMemberResponse struct {
	MemberResponse
	ProjectRole string `json:"projectRole"`
}

type LeadResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type ProjectResponse struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Achievement *string                 `json:"achievement"`
	DriveURL    *string                 `json:"driveUrl"`
	ImageURL    string                  `json:"imageUrl"`
	Year        int                     `json:"year"`
	LeadID      uuid.UUID               `json:"leadId"`
	Lead        *LeadResponse           `json:"lead,omitempty"`
	Members     []ProjectMemberResponse `json:"members"`
	MyRole      string                  `json:"myRole,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

// UploadFile is an image received from a multipart form.
type UploadFile struct {
	Reader   io.Reader
	FileName string
}

// YearValue accepts a year sent either as a JSON number or a string.
type YearValue string

func (y *YearValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*y = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*y = YearValue(v)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*y = YearValue(n.String())
	}
	return nil
}
