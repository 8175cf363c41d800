package repository

import (
	"context"
	"strings"

	"anoa.com/kulupportal/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project, members []entity.ProjectMembership) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Project, error)
	FindLeadID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	FindAll(ctx context.Context, leadID *uuid.UUID) ([]*entity.Project, error)
	FindForUser(ctx context.Context, userID uuid.UUID) ([]*entity.Project, error)
	FindCatalogue(ctx context.Context) ([]*entity.Project, error)
	SearchByName(ctx context.Context, query string, limit int) ([]*entity.Project, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}, members *[]entity.ProjectMembership) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lead").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Members.User.Profile")
}

// insertMembers skips rows whose (project, user) pair already exists.
func insertMembers(tx *gorm.DB, projectID uuid.UUID, members []entity.ProjectMembership) error {
	if len(members) == 0 {
		return nil
	}
	rows := make([]entity.ProjectMembership, 0, len(members))
	for _, m := range members {
		rows = append(rows, entity.ProjectMembership{
			ProjectID: projectID,
			UserID:    m.UserID,
			Role:      m.Role,
		})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&rows).Error
}

func (r *projectRepository) Create(ctx context.Context, project *entity.Project, members []entity.ProjectMembership) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		return insertMembers(tx, project.ID, members)
	})
}

func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	var project entity.Project
	if err := withRelations(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Project, error) {
	var projects []*entity.Project
	if len(ids) == 0 {
		return projects, nil
	}
	if err := withRelations(r.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) FindLeadID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var project entity.Project
	if err := r.db.WithContext(ctx).
		Select("id", "lead_id").
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return uuid.Nil, err
	}
	return project.LeadID, nil
}

// FindAll returns every project, newest first. A non-nil leadID narrows
// the result to projects led by that user.
func (r *projectRepository) FindAll(ctx context.Context, leadID *uuid.UUID) ([]*entity.Project, error) {
	var projects []*entity.Project
	query := withRelations(r.db.WithContext(ctx))

	if leadID != nil {
		query = query.Where("lead_id = ?", *leadID)
	}

	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]*entity.Project, error) {
	var projects []*entity.Project
	db := r.db.WithContext(ctx)
	memberOf := db.Model(&entity.ProjectMembership{}).
		Select("project_id").
		Where("user_id = ?", userID)

	if err := withRelations(db).
		Where("lead_id = ? OR id IN (?)", userID, memberOf).
		Order("year DESC").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) FindCatalogue(ctx context.Context) ([]*entity.Project, error) {
	var projects []*entity.Project
	if err := withRelations(r.db.WithContext(ctx)).
		Order("year DESC").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// SearchByName is the database fallback used when the search index is
// unavailable.
func (r *projectRepository) SearchByName(ctx context.Context, query string, limit int) ([]*entity.Project, error) {
	var projects []*entity.Project
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	q := withRelations(r.db.WithContext(ctx)).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("year DESC").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update applies column changes and, when members is non-nil, replaces the
// whole membership set. Both happen in one transaction.
func (r *projectRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}, members *[]entity.ProjectMembership) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			res := tx.Model(&entity.Project{}).Where("id = ?", id).Updates(fields)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		if members == nil {
			return nil
		}

		if err := tx.Where("project_id = ?", id).Delete(&entity.ProjectMembership{}).Error; err != nil {
			return err
		}
		return insertMembers(tx, id, *members)
	})
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&entity.ProjectMembership{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entity.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
