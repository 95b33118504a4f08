package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvpagent/mvpagent/internal/domain"
)

// GormProjectStore persists projects through gorm.
type GormProjectStore struct {
	db *gorm.DB
}

// NewGormProjectStore creates a project store over the given connection.
func NewGormProjectStore(db *gorm.DB) *GormProjectStore {
	return &GormProjectStore{db: db}
}

// Get returns the project with the given ID, or domain.ErrProjectNotFound.
func (s *GormProjectStore) Get(ctx context.Context, id uuid.UUID) (domain.Project, error) {
	var project domain.Project
	err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	if err != nil {
		return domain.Project{}, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

// List returns all projects, newest first.
func (s *GormProjectStore) List(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Put inserts or replaces a project.
func (s *GormProjectStore) Put(ctx context.Context, project domain.Project) error {
	if err := s.db.WithContext(ctx).Save(&project).Error; err != nil {
		return fmt.Errorf("failed to store project: %w", err)
	}
	return nil
}

// Delete removes a project and every feature it owns. Deleting a project
// that does not exist returns domain.ErrProjectNotFound.
func (s *GormProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.Project{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrProjectNotFound
		}
		if err := tx.Delete(&domain.Feature{}, "project_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete project features: %w", err)
		}
		return nil
	})
}

// GormFeatureStore persists features through gorm.
type GormFeatureStore struct {
	db *gorm.DB
}

// NewGormFeatureStore creates a feature store over the given connection.
func NewGormFeatureStore(db *gorm.DB) *GormFeatureStore {
	return &GormFeatureStore{db: db}
}

// Get returns the feature with the given ID, or domain.ErrFeatureNotFound.
func (s *GormFeatureStore) Get(ctx context.Context, id uuid.UUID) (domain.Feature, error) {
	var feature domain.Feature
	err := s.db.WithContext(ctx).First(&feature, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Feature{}, domain.ErrFeatureNotFound
	}
	if err != nil {
		return domain.Feature{}, fmt.Errorf("failed to load feature: %w", err)
	}
	return feature, nil
}

// ListByProject returns the project's features, oldest first.
func (s *GormFeatureStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Feature, error) {
	var features []domain.Feature
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&features).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}
	return features, nil
}

// Put inserts or replaces a feature.
func (s *GormFeatureStore) Put(ctx context.Context, feature domain.Feature) error {
	if err := s.db.WithContext(ctx).Save(&feature).Error; err != nil {
		return fmt.Errorf("failed to store feature: %w", err)
	}
	return nil
}
