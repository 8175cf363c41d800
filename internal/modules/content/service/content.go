package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/internal/modules/content/dto"
	contentRepo "anoa.com/kulupportal/internal/modules/content/repository"
	"anoa.com/kulupportal/internal/policy"
	"anoa.com/kulupportal/pkg/apperror"
	"anoa.com/kulupportal/pkg/cache"
	"anoa.com/kulupportal/pkg/logger"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ContactCacheKey  = "content:contact"
	SponsorsCacheKey = "content:sponsors"
)

type ContentService interface {
	// GetContact returns nil when the page was never saved.
	GetContact(ctx context.Context) (*dto.ContactPage, error)
	UpdateContact(ctx context.Context, caller policy.Caller, input dto.ContactPage) (*dto.ContactPage, error)
	// GetSponsors returns JSON null when the page was never saved.
	GetSponsors(ctx context.Context) (json.RawMessage, error)
	UpdateSponsors(ctx context.Context, caller policy.Caller, payload json.RawMessage) (json.RawMessage, error)
}

type contentService struct {
	repo        contentRepo.ContentRepository
	redisClient *redis.Client
	cacheTTL    time.Duration
	sanitizer   *bluemonday.Policy
}

func NewContentService(repo contentRepo.ContentRepository, redisClient *redis.Client, cacheTTL time.Duration) ContentService {
	return &contentService{
		repo:        repo,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// plain strips every tag and leaves readable text.
func plain(p *bluemonday.Policy, value string) string {
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(value)))
}

func (s *contentService) GetContact(ctx context.Context) (*dto.ContactPage, error) {
	return cache.Remember(ctx, s.redisClient, ContactCacheKey, s.cacheTTL, func(ctx context.Context) (*dto.ContactPage, error) {
		record, err := s.repo.LatestContact(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return toContactPage(record), nil
	})
}

func (s *contentService) UpdateContact(ctx context.Context, caller policy.Caller, input dto.ContactPage) (*dto.ContactPage, error) {
	if !policy.CanEditContent(caller.Role) {
		return nil, fmt.Errorf("update contact: %w", apperror.ErrForbidden)
	}

	record := &entity.ContactSettings{
		BannerSubtitle: plain(s.sanitizer, input.BannerSubtitle),
		BannerText:     plain(s.sanitizer, input.BannerText),
		JoinText:       plain(s.sanitizer, input.JoinText),
		JoinHref:       plain(s.sanitizer, input.JoinHref),
		EmailValue:     plain(s.sanitizer, input.Email.Value),
		EmailHref:      plain(s.sanitizer, input.Email.Href),
		InstagramValue: plain(s.sanitizer, input.Instagram.Value),
		InstagramHref:  plain(s.sanitizer, input.Instagram.Href),
		XValue:         plain(s.sanitizer, input.X.Value),
		XHref:          plain(s.sanitizer, input.X.Href),
		LinkedinValue:  plain(s.sanitizer, input.Linkedin.Value),
		LinkedinHref:   plain(s.sanitizer, input.Linkedin.Href),
		WebValue:       plain(s.sanitizer, input.Web.Value),
		WebHref:        plain(s.sanitizer, input.Web.Href),
		Address:        plain(s.sanitizer, input.Address),
		MapURL:         plain(s.sanitizer, input.MapURL),
	}

	if err := s.repo.SaveContact(ctx, record); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ContactCacheKey)

	return toContactPage(record), nil
}

func (s *contentService) GetSponsors(ctx context.Context) (json.RawMessage, error) {
	doc, err := cache.Remember(ctx, s.redisClient, SponsorsCacheKey, s.cacheTTL, func(ctx context.Context) (*json.RawMessage, error) {
		record, err := s.repo.LatestSponsors(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		raw := json.RawMessage(record.Data)
		return &raw, nil
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return json.RawMessage("null"), nil
	}
	return *doc, nil
}

func (s *contentService) UpdateSponsors(ctx context.Context, caller policy.Caller, payload json.RawMessage) (json.RawMessage, error) {
	if !policy.CanEditContent(caller.Role) {
		return nil, fmt.Errorf("update sponsors: %w", apperror.ErrForbidden)
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, apperror.Validation("sponsors_invalid", "Sponsor verisi bir JSON nesnesi veya dizisi olmalıdır")
	}

	var doc any
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, apperror.Validation("sponsors_invalid", "Sponsor verisi geçerli JSON değil")
	}

	clean, err := json.Marshal(s.sanitizeTree(doc))
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveSponsors(ctx, &entity.SponsorsSettings{Data: string(clean)}); err != nil {
		return nil, err
	}
	s.invalidate(ctx, SponsorsCacheKey)

	return clean, nil
}

// sanitizeTree strips markup from every string in a decoded JSON document.
func (s *contentService) sanitizeTree(v any) any {
	switch t := v.(type) {
	case string:
		return plain(s.sanitizer, t)
	case []any:
		for i := range t {
			t[i] = s.sanitizeTree(t[i])
		}
		return t
	case map[string]any:
		for k, val := range t {
			t[k] = s.sanitizeTree(val)
		}
		return t
	default:
		return v
	}
}

func (s *contentService) invalidate(ctx context.Context, key string) {
	if err := cache.Invalidate(ctx, s.redisClient, key); err != nil {
		logger.Warn(ctx, "invalidate content cache", zap.String("key", key), zap.Error(err))
	}
}

func toContactPage(c *entity.ContactSettings) *dto.ContactPage {
	return &dto.ContactPage{
		BannerSubtitle: c.BannerSubtitle,
		BannerText:     c.BannerText,
		JoinText:       c.JoinText,
		JoinHref:       c.JoinHref,
		Email:          dto.ContactLink{Value: c.EmailValue, Href: c.EmailHref},
		Instagram:      dto.ContactLink{Value: c.InstagramValue, Href: c.InstagramHref},
		X:              dto.ContactLink{Value: c.XValue, Href: c.XHref},
		Linkedin:       dto.ContactLink{Value: c.LinkedinValue, Href: c.LinkedinHref},
		Web:            dto.ContactLink{Value: c.WebValue, Href: c.WebHref},
		Address:        c.Address,
		MapURL:         c.MapURL,
	}
}
