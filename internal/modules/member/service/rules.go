package member

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/internal/viewmodel"
	"anoa.com/kulupportal/pkg/apperror"
)

const (
	TitleMinLength = 2
	TitleMaxLength = 40
	TitleCooldown  = 24 * time.Hour

	minYear = 1900
	maxYear = 2100
)

var (
	bannedTitleTerms = []string{"amk", "sik", "orospu", "yarrak", "salak", "aptal", "mal"}
	titlePattern     = regexp.MustCompile(`^[\p{L}\p{N}\s.'-]+$`)
)

// NormalizeTitle trims and validates a community title. An empty title is
// valid and clears it.
func NormalizeTitle(value string) (string, error) {
	title := strings.TrimSpace(value)
	if title == "" {
		return "", nil
	}

	if n := utf8.RuneCountInString(title); n < TitleMinLength || n > TitleMaxLength {
		return "", apperror.Validation("title_invalid",
			fmt.Sprintf("Ünvan %d-%d karakter olmalıdır.", TitleMinLength, TitleMaxLength))
	}
	if !titlePattern.MatchString(title) {
		return "", apperror.Validation("title_invalid", "Ünvan yalnızca harf, sayı ve basit noktalama içerebilir.")
	}

	lowered := strings.ToLower(title)
	for _, term := range bannedTitleTerms {
		if strings.Contains(lowered, term) {
			return "", apperror.Validation("title_invalid", "Ünvan uygunsuz içerik içeremez.")
		}
	}

	return title, nil
}

// CheckTitleCooldown rejects a title change made less than TitleCooldown
// after the previous one.
func CheckTitleCooldown(lastChange *time.Time, now time.Time) error {
	if lastChange == nil {
		return nil
	}
	if now.Sub(*lastChange) < TitleCooldown {
		return apperror.RateLimited("title_rate_limited", "Ünvan 24 saatte bir değiştirilebilir.")
	}
	return nil
}

// ParseYear parses an optional year. Empty input yields nil.
func ParseYear(value, field string) (*int, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(v)
	if err != nil || year < minYear || year > maxYear {
		return nil, apperror.Validation(field+"_invalid", fmt.Sprintf("%s geçerli bir yıl olmalıdır", field))
	}
	return &year, nil
}

// ParseMemberEnd maps "active" or an empty value to an open membership and
// anything else to an end year.
func ParseMemberEnd(value string) (*int, bool, error) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, viewmodel.MemberEndActive) {
		return nil, true, nil
	}
	year, err := ParseYear(v, "memberEnd")
	if err != nil {
		return nil, false, err
	}
	return year, false, nil
}

func checkYearOrder(start, end *int) error {
	if start != nil && end != nil && *end < *start {
		return apperror.Validation("memberEnd_invalid", "Bitiş yılı başlangıç yılından önce olamaz")
	}
	return nil
}

// nextSelfEditStatus keeps a reviewed decision and sends everything else
// back to review.
func nextSelfEditStatus(current entity.Status) entity.Status {
	if current == entity.StatusApproved || current == entity.StatusRejected {
		return current
	}
	return entity.StatusPending
}
