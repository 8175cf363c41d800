package repository

import (
	"context"
	"errors"

	"anoa.com/kulupportal/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentRepository interface {
	LatestContact(ctx context.Context) (*entity.ContactSettings, error)
	SaveContact(ctx context.Context, contact *entity.ContactSettings) error
	LatestSponsors(ctx context.Context) (*entity.SponsorsSettings, error)
	SaveSponsors(ctx context.Context, sponsors *entity.SponsorsSettings) error
}

type AnnouncementRepository interface {
	Create(ctx context.Context, a *entity.Announcement) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Announcement, error)
	FindAll(ctx context.Context, publishedOnly bool) ([]*entity.Announcement, error)
	Update(ctx context.Context, a *entity.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) LatestContact(ctx context.Context) (*entity.ContactSettings, error) {
	var contact entity.ContactSettings
	if err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// SaveContact overwrites the latest row, creating the first one if none
// exists yet.
func (r *contentRepository) SaveContact(ctx context.Context, contact *entity.ContactSettings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest entity.ContactSettings
		err := tx.Order("updated_at DESC").First(&latest).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			contact.ID = uuid.Nil
			return tx.Create(contact).Error
		case err != nil:
			return err
		}
		contact.ID = latest.ID
		contact.CreatedAt = latest.CreatedAt
		return tx.Save(contact).Error
	})
}

func (r *contentRepository) LatestSponsors(ctx context.Context) (*entity.SponsorsSettings, error) {
	var sponsors entity.SponsorsSettings
	if err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		First(&sponsors).Error; err != nil {
		return nil, err
	}
	return &sponsors, nil
}

func (r *contentRepository) SaveSponsors(ctx context.Context, sponsors *entity.SponsorsSettings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest entity.SponsorsSettings
		err := tx.Order("updated_at DESC").First(&latest).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sponsors.ID = uuid.Nil
			return tx.Create(sponsors).Error
		case err != nil:
			return err
		}
		sponsors.ID = latest.ID
		sponsors.CreatedAt = latest.CreatedAt
		return tx.Save(sponsors).Error
	})
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, a *entity.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *announcementRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Announcement, error) {
	var a entity.Announcement
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepository) FindAll(ctx context.Context, publishedOnly bool) ([]*entity.Announcement, error) {
	var items []*entity.Announcement
	query := r.db.WithContext(ctx)

	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *announcementRepository) Update(ctx context.Context, a *entity.Announcement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *announcementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Announcement{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
