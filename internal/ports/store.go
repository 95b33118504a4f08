package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/mvpagent/mvpagent/internal/domain"
)

// ProjectStore is the persistence collaborator for projects. The core never
// owns storage directly; a store implementation is injected at wiring time
// so tests can substitute an in-memory one.
type ProjectStore interface {
	// Get returns the project with the given ID, or
	// domain.ErrProjectNotFound.
	Get(ctx context.Context, id uuid.UUID) (domain.Project, error)

	// List returns all projects, newest first.
	List(ctx context.Context) ([]domain.Project, error)

	// Put inserts or replaces a project.
	Put(ctx context.Context, project domain.Project) error

	// Delete removes a project and all features it owns.
	Delete(ctx context.Context, id uuid.UUID) error
}

// FeatureStore is the persistence collaborator for features. Features are
// soft-lifecycle only: they change status but are never removed while the
// owning project exists.
type FeatureStore interface {
	// Get returns the feature with the given ID, or
	// domain.ErrFeatureNotFound.
	Get(ctx context.Context, id uuid.UUID) (domain.Feature, error)

	// ListByProject returns all features owned by a project, oldest first.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Feature, error)

	// Put inserts or replaces a feature.
	Put(ctx context.Context, feature domain.Feature) error
}
