package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mvpagent/mvpagent/internal/domain"
)

// MemoryProjectStore is a map-backed project store. It backs tests and the
// no-database mode; contents are lost on restart.
type MemoryProjectStore struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]domain.Project
	features *MemoryFeatureStore
}

// NewMemoryProjectStore creates an empty in-memory project store. The
// feature store, when given, is used to cascade project deletion; nil is
// allowed.
func NewMemoryProjectStore(features *MemoryFeatureStore) *MemoryProjectStore {
	return &MemoryProjectStore{
		projects: make(map[uuid.UUID]domain.Project),
		features: features,
	}
}

// Get returns the project with the given ID, or domain.ErrProjectNotFound.
func (s *MemoryProjectStore) Get(_ context.Context, id uuid.UUID) (domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	return project, nil
}

// List returns all projects, newest first.
func (s *MemoryProjectStore) List(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

// Put inserts or replaces a project.
func (s *MemoryProjectStore) Put(_ context.Context, project domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects[project.ID] = project
	return nil
}

// Delete removes a project and cascades to its features.
func (s *MemoryProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if _, ok := s.projects[id]; !ok {
		s.mu.Unlock()
		return domain.ErrProjectNotFound
	}
	delete(s.projects, id)
	s.mu.Unlock()

	if s.features != nil {
		s.features.deleteByProject(id)
	}
	return nil
}

// MemoryFeatureStore is a map-backed feature store.
type MemoryFeatureStore struct {
	mu       sync.RWMutex
	features map[uuid.UUID]domain.Feature
}

// NewMemoryFeatureStore creates an empty in-memory feature store.
func NewMemoryFeatureStore() *MemoryFeatureStore {
	return &MemoryFeatureStore{features: make(map[uuid.UUID]domain.Feature)}
}

// Get returns the feature with the given ID, or domain.ErrFeatureNotFound.
func (s *MemoryFeatureStore) Get(_ context.Context, id uuid.UUID) (domain.Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feature, ok := s.features[id]
	if !ok {
		return domain.Feature{}, domain.ErrFeatureNotFound
	}
	return feature, nil
}

// ListByProject returns the project's features, oldest first.
func (s *MemoryFeatureStore) ListByProject(_ context.Context, projectID uuid.UUID) ([]domain.Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	features := make([]domain.Feature, 0)
	for _, f := range s.features {
		if f.ProjectID == projectID {
			features = append(features, f)
		}
	}
	sort.Slice(features, func(i, j int) bool {
		return features[i].CreatedAt.Before(features[j].CreatedAt)
	})
	return features, nil
}

// Put inserts or replaces a feature.
func (s *MemoryFeatureStore) Put(_ context.Context, feature domain.Feature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.features[feature.ID] = feature
	return nil
}

func (s *MemoryFeatureStore) deleteByProject(projectID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, f := range s.features {
		if f.ProjectID == projectID {
			delete(s.features, id)
		}
	}
}
