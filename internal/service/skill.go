package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
	"github.com/dtroode/portfolio-server/internal/store"
)

const entitySkill = "skill"

func skillKey(s model.Skill) string { return s.Name }

// Skills manages the skill list.
type Skills struct {
	state  *store.Store[[]model.Skill]
	docs   model.DocumentStore
	images *ImageResolver
	alerts AlertSink
	logger *logger.Logger
}

// NewSkills creates a Skills service with an empty list.
func NewSkills(docs model.DocumentStore, images *ImageResolver, alerts AlertSink, logger *logger.Logger, opts ...Option) *Skills {
	return &Skills{
		state:  newState([]model.Skill{}, opts),
		docs:   docs,
		images: images,
		alerts: alerts,
		logger: logger,
	}
}

// List returns the current skills.
func (s *Skills) List() []model.Skill {
	return slices.Clone(s.state.Get())
}

// Subscribe calls fn with the list after every change.
func (s *Skills) Subscribe(fn func([]model.Skill)) func() {
	return s.state.Subscribe(fn)
}

// Fetch replaces the list with the skills stored remotely.
func (s *Skills) Fetch(ctx context.Context) error {
	err := s.state.Load(ctx, func(ctx context.Context) ([]model.Skill, error) {
		docs, err := s.docs.List(ctx, model.CollectionSkills)
		if err != nil {
			return nil, fmt.Errorf("failed to list skills: %w", err)
		}

		skills := make([]model.Skill, 0, len(docs))
		for _, d := range docs {
			skill, err := model.SkillFromDocument(d.ID, d.Data)
			if err != nil {
				return nil, err
			}
			skills = append(skills, skill)
		}
		return skills, nil
	})
	if err != nil {
		s.logger.Error("Skills service: fetch failed", "error", err)
		return fmt.Errorf("failed to fetch skills: %w", err)
	}

	s.logger.Debug("Skills service: skills fetched", "count", len(s.state.Get()))
	return nil
}

// Create adds a skill. The skill shows up in the list right away with an
// empty image until the upload and the remote write succeed.
func (s *Skills) Create(ctx context.Context, in model.SkillInput) (model.Skill, error) {
	return s.save(ctx, "create", in, func(cur []model.Skill, local model.Skill) ([]model.Skill, error) {
		return store.Append(cur, local, skillKey)
	})
}

// Update replaces the skill with the same name.
func (s *Skills) Update(ctx context.Context, in model.SkillInput) (model.Skill, error) {
	return s.save(ctx, "update", in, func(cur []model.Skill, local model.Skill) ([]model.Skill, error) {
		return store.Replace(cur, local.Name, local, skillKey)
	})
}

// Delete removes the named skill.
func (s *Skills) Delete(ctx context.Context, name string) error {
	err := s.state.Mutate(ctx,
		func(cur []model.Skill) ([]model.Skill, error) {
			return store.Remove(cur, name, skillKey)
		},
		func(ctx context.Context) (func([]model.Skill) []model.Skill, error) {
			if err := s.docs.Delete(ctx, model.CollectionSkills, name); err != nil {
				return nil, fmt.Errorf("failed to delete skill document: %w", err)
			}
			return nil, nil
		},
	)
	if err != nil {
		return mutationFailed(ctx, s.logger, s.alerts, entitySkill, "delete", name, err)
	}

	s.logger.Info("Skills service: skill deleted", "skill", name)
	return nil
}

func (s *Skills) save(
	ctx context.Context,
	op string,
	in model.SkillInput,
	place func(cur []model.Skill, local model.Skill) ([]model.Skill, error),
) (model.Skill, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return model.Skill{}, mutationFailed(ctx, s.logger, s.alerts, entitySkill, op, in.Name, err)
	}

	local := model.Skill{
		Name:        in.Name,
		Image:       in.Image.Placeholder(),
		Level:       in.Level,
		Description: in.Description,
	}

	var final model.Skill
	err := s.state.Mutate(ctx,
		func(cur []model.Skill) ([]model.Skill, error) {
			return place(cur, local)
		},
		func(ctx context.Context) (func([]model.Skill) []model.Skill, error) {
			res, err := s.images.ResolveAll(ctx, []model.ImageRef{in.Image})
			if err != nil {
				return nil, err
			}

			final = local
			final.Image = res.URLs[0]
			if err := s.docs.Set(ctx, model.CollectionSkills, final.Name, final.Document()); err != nil {
				s.images.Discard(context.WithoutCancel(ctx), res.Uploaded)
				return nil, fmt.Errorf("failed to save skill document: %w", err)
			}

			return func(cur []model.Skill) []model.Skill {
				return store.Upsert(cur, final, skillKey)
			}, nil
		},
	)
	if err != nil {
		return model.Skill{}, mutationFailed(ctx, s.logger, s.alerts, entitySkill, op, in.Name, err)
	}

	s.logger.Info("Skills service: skill saved",
		"operation", op,
		"skill", final.Name,
		"level", final.Level)
	return final, nil
}
