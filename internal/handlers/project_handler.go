package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mvpagent/mvpagent/internal/domain"
	"github.com/mvpagent/mvpagent/internal/estimation"
	"github.com/mvpagent/mvpagent/internal/logger"
	"github.com/mvpagent/mvpagent/internal/mvp"
	"github.com/mvpagent/mvpagent/internal/ports"
	"github.com/mvpagent/mvpagent/internal/validation"
)

// ProjectHandler serves project and feature CRUD plus the project-scoped
// operations: validation-on-create, effort estimation, and MVP generation.
type ProjectHandler struct {
	projects  ports.ProjectStore
	features  ports.FeatureStore
	validator *validation.Validator
	estimator *estimation.Estimator
	generator *mvp.Generator
	validate  *validator.Validate
	log       *logger.Logger
}

// NewProjectHandler creates the handler.
func NewProjectHandler(
	projects ports.ProjectStore,
	features ports.FeatureStore,
	v *validation.Validator,
	estimator *estimation.Estimator,
	generator *mvp.Generator,
	log *logger.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projects:  projects,
		features:  features,
		validator: v,
		estimator: estimator,
		generator: generator,
		validate:  validator.New(),
		log:       log,
	}
}

// parseID extracts a UUID path parameter, responding 400 when malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID",
			"path parameter "+param+" is not a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// CreateProject registers a new project.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req domain.ProjectCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondForError(c, err)
		return
	}

	project := domain.NewProject(req)
	if err := h.projects.Put(c.Request.Context(), project); err != nil {
		h.log.Error("failed to store project", "error", err)
		respondForError(c, err)
		return
	}

	h.log.Info("project created", "project_id", project.ID, "name", project.Name)
	c.JSON(http.StatusCreated, project)
}

// ListProjects returns all projects, newest first.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		respondForError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": len(projects)})
}

// GetProject returns a single project.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		respondForError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// UpdateProject replaces a project's mutable fields.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.ProjectCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondForError(c, err)
		return
	}

	project, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		respondForError(c, err)
		return
	}

	project.Name = req.Name
	project.Description = req.Description
	project.Industry = req.Industry
	project.TargetUsers = req.TargetUsers
	project.ReferenceURL = req.ReferenceURL
	project.TechStack = req.TechStack
	project.TeamSize = req.TeamSize
	if req.TeamExperience.Valid() {
		project.TeamExperience = req.TeamExperience
	}
	project.UpdatedAt = time.Now().UTC()

	if err := h.projects.Put(c.Request.Context(), project); err != nil {
		respondForError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project and its features.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		respondForError(c, err)
		return
	}

	h.log.Info("project deleted", "project_id", id)
	c.Status(http.StatusNoContent)
}

// CreateFeature adds a feature to a project. With ?validate=true the
// feature is scored immediately and its status follows the decision.
func (h *ProjectHandler) CreateFeature(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), projectID)
	if err != nil {
		respondForError(c, err)
		return
	}

	var req domain.FeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondForError(c, err)
		return
	}

	feature := domain.NewFeature(projectID, req)

	if c.Query("validate") == "true" {
		resp, err := h.validator.ValidateFeature(c.Request.Context(), req, project.Context())
		if err != nil {
			respondForError(c, err)
			return
		}
		feature.ApplyValidation(resp.Result)
	}

	if err := h.features.Put(c.Request.Context(), feature); err != nil {
		respondForError(c, err)
		return
	}

	h.log.Info("feature created",
		"project_id", projectID,
		"feature_id", feature.ID,
		"status", feature.Status,
	)
	c.JSON(http.StatusCreated, feature)
}

// ListFeatures returns a project's features, oldest first.
func (h *ProjectHandler) ListFeatures(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.projects.Get(c.Request.Context(), projectID); err != nil {
		respondForError(c, err)
		return
	}

	features, err := h.features.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		respondForError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"features": features, "total": len(features)})
}

// loadFeature fetches a feature and checks it belongs to the project in the
// path. A feature under a different project reads as not found.
func (h *ProjectHandler) loadFeature(c *gin.Context) (domain.Feature, bool) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return domain.Feature{}, false
	}
	featureID, ok := parseID(c, "featureID")
	if !ok {
		return domain.Feature{}, false
	}

	feature, err := h.features.Get(c.Request.Context(), featureID)
	if err != nil || feature.ProjectID != projectID {
		respondForError(c, domain.ErrFeatureNotFound)
		return domain.Feature{}, false
	}
	return feature, true
}

// GetFeature returns a single feature.
func (h *ProjectHandler) GetFeature(c *gin.Context) {
	feature, ok := h.loadFeature(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, feature)
}

// UpdateFeature replaces a feature's definition. Any previous validation
// result is kept; re-validate to refresh it.
func (h *ProjectHandler) UpdateFeature(c *gin.Context) {
	feature, ok := h.loadFeature(c)
	if !ok {
		return
	}

	var req domain.FeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondForError(c, err)
		return
	}

	feature.Name = req.Name
	feature.Description = req.Description
	feature.UserStory = req.UserStory
	feature.AcceptanceCriteria = req.AcceptanceCriteria
	if req.Priority.Valid() {
		feature.Priority = req.Priority
	}
	feature.UpdatedAt = time.Now().UTC()

	if err := h.features.Put(c.Request.Context(), feature); err != nil {
		respondForError(c, err)
		return
	}
	c.JSON(http.StatusOK, feature)
}

type updateStatusRequest struct {
	Status domain.FeatureStatus `json:"status"`
}

// UpdateFeatureStatus moves a feature through its lifecycle.
func (h *ProjectHandler) UpdateFeatureStatus(c *gin.Context) {
	feature, ok := h.loadFeature(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if !req.Status.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS",
			"status must be one of pending, approved, rejected, in-development, completed", nil)
		return
	}

	feature.Status = req.Status
	feature.UpdatedAt = time.Now().UTC()

	if err := h.features.Put(c.Request.Context(), feature); err != nil {
		respondForError(c, err)
		return
	}
	c.JSON(http.StatusOK, feature)
}

// Estimate computes the effort rollup for a project's buildable features.
func (h *ProjectHandler) Estimate(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), projectID)
	if err != nil {
		respondForError(c, err)
		return
	}

	features, err := h.features.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		respondForError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.estimator.EstimateProject(features, project))
}

// GenerateMVP assembles the MVP definition for a project. The request body
// is optional; when present it carries selection constraints.
func (h *ProjectHandler) GenerateMVP(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), projectID)
	if err != nil {
		respondForError(c, err)
		return
	}

	var opts mvp.Options
	if err := c.ShouldBindJSON(&opts); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	features, err := h.features.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		respondForError(c, err)
		return
	}

	definition, err := h.generator.Generate(project, features, opts)
	if err != nil {
		respondForError(c, err)
		return
	}
	c.JSON(http.StatusOK, definition)
}
