package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
	"github.com/dtroode/portfolio-server/internal/store"
)

const entityProject = "project"

func projectKey(p model.Project) string { return p.ID }

// Projects manages the project list.
type Projects struct {
	state  *store.Store[[]model.Project]
	docs   model.DocumentStore
	images *ImageResolver
	alerts AlertSink
	logger *logger.Logger
	newID  func() string
}

// NewProjects creates a Projects service with an empty list.
func NewProjects(docs model.DocumentStore, images *ImageResolver, alerts AlertSink, logger *logger.Logger, opts ...Option) *Projects {
	return &Projects{
		state:  newState([]model.Project{}, opts),
		docs:   docs,
		images: images,
		alerts: alerts,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// List returns the current projects.
func (s *Projects) List() []model.Project {
	return slices.Clone(s.state.Get())
}

// Lookup returns the listed project with id.
func (s *Projects) Lookup(id string) (model.Project, bool) {
	list := s.state.Get()
	i := slices.IndexFunc(list, func(p model.Project) bool { return p.ID == id })
	if i < 0 {
		return model.Project{}, false
	}
	return list[i], true
}

// Subscribe calls fn with the list after every change.
func (s *Projects) Subscribe(fn func([]model.Project)) func() {
	return s.state.Subscribe(fn)
}

// Fetch replaces the list with the projects stored remotely.
func (s *Projects) Fetch(ctx context.Context) error {
	err := s.state.Load(ctx, func(ctx context.Context) ([]model.Project, error) {
		docs, err := s.docs.List(ctx, model.CollectionProjects)
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}

		projects := make([]model.Project, 0, len(docs))
		for _, d := range docs {
			projects = append(projects, model.ProjectFromDocument(d.ID, d.Data))
		}
		return projects, nil
	})
	if err != nil {
		s.logger.Error("Projects service: fetch failed", "error", err)
		return fmt.Errorf("failed to fetch projects: %w", err)
	}

	s.logger.Debug("Projects service: projects fetched", "count", len(s.state.Get()))
	return nil
}

// Get reads one project straight from the document store. The local list is
// not touched.
func (s *Projects) Get(ctx context.Context, id string) (model.Project, error) {
	doc, err := s.docs.Get(ctx, model.CollectionProjects, id)
	if err != nil {
		return model.Project{}, mutationFailed(ctx, s.logger, s.alerts, entityProject, "get", id,
			fmt.Errorf("failed to get project document: %w", err))
	}
	return model.ProjectFromDocument(id, doc), nil
}

// Create adds a project under a new id. Pending images show up as empty
// strings until every upload and the remote write succeed.
func (s *Projects) Create(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	in.ID = s.newID()
	return s.save(ctx, "create", in, func(cur []model.Project, local model.Project) ([]model.Project, error) {
		return store.Append(cur, local, projectKey)
	})
}

// Update replaces the project with the same id.
func (s *Projects) Update(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	if strings.TrimSpace(in.ID) == "" {
		return model.Project{}, mutationFailed(ctx, s.logger, s.alerts, entityProject, "update", in.ID,
			fmt.Errorf("%w: project id is required", model.ErrInvalidInput))
	}
	return s.save(ctx, "update", in, func(cur []model.Project, local model.Project) ([]model.Project, error) {
		return store.Replace(cur, local.ID, local, projectKey)
	})
}

// Delete removes the project with id.
func (s *Projects) Delete(ctx context.Context, id string) error {
	err := s.state.Mutate(ctx,
		func(cur []model.Project) ([]model.Project, error) {
			return store.Remove(cur, id, projectKey)
		},
		func(ctx context.Context) (func([]model.Project) []model.Project, error) {
			if err := s.docs.Delete(ctx, model.CollectionProjects, id); err != nil {
				return nil, fmt.Errorf("failed to delete project document: %w", err)
			}
			return nil, nil
		},
	)
	if err != nil {
		return mutationFailed(ctx, s.logger, s.alerts, entityProject, "delete", id, err)
	}

	s.logger.Info("Projects service: project deleted", "project_id", id)
	return nil
}

func (s *Projects) save(
	ctx context.Context,
	op string,
	in model.ProjectInput,
	place func(cur []model.Project, local model.Project) ([]model.Project, error),
) (model.Project, error) {
	if err := in.Validate(); err != nil {
		return model.Project{}, mutationFailed(ctx, s.logger, s.alerts, entityProject, op, in.ID, err)
	}

	local := model.Project{
		ID:          in.ID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		CoverImage:  in.CoverImage.Placeholder(),
		Images:      model.JoinImageURLs(model.Placeholders(in.Images)),
		Link:        in.Link,
		Github:      in.Github,
		Type:        in.Type,
		Keywords:    model.NormalizeKeywords(in.Keywords),
	}

	refs := make([]model.ImageRef, 0, len(in.Images)+1)
	refs = append(refs, in.CoverImage)
	refs = append(refs, in.Images...)

	var final model.Project
	err := s.state.Mutate(ctx,
		func(cur []model.Project) ([]model.Project, error) {
			return place(cur, local)
		},
		func(ctx context.Context) (func([]model.Project) []model.Project, error) {
			res, err := s.images.ResolveAll(ctx, refs)
			if err != nil {
				return nil, err
			}

			final = local
			final.CoverImage = res.URLs[0]
			final.Images = model.JoinImageURLs(res.URLs[1:])
			if err := s.docs.Set(ctx, model.CollectionProjects, final.ID, final.Document()); err != nil {
				s.images.Discard(context.WithoutCancel(ctx), res.Uploaded)
				return nil, fmt.Errorf("failed to save project document: %w", err)
			}

			return func(cur []model.Project) []model.Project {
				return store.Upsert(cur, final, projectKey)
			}, nil
		},
	)
	if err != nil {
		return model.Project{}, mutationFailed(ctx, s.logger, s.alerts, entityProject, op, in.ID, err)
	}

	s.logger.Info("Projects service: project saved",
		"operation", op,
		"project_id", final.ID,
		"uploads", len(refs))
	return final, nil
}
