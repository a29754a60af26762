package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
	"github.com/dtroode/portfolio-server/internal/store"
)

const entityProfile = "profile"

// Profile manages the owner's singleton profile.
type Profile struct {
	state  *store.Store[model.User]
	docs   model.DocumentStore
	images *ImageResolver
	alerts AlertSink
	logger *logger.Logger
}

// NewProfile creates a Profile service holding an empty profile until the
// first fetch.
func NewProfile(docs model.DocumentStore, images *ImageResolver, alerts AlertSink, logger *logger.Logger, opts ...Option) *Profile {
	return &Profile{
		state:  newState(model.User{}, opts),
		docs:   docs,
		images: images,
		alerts: alerts,
		logger: logger,
	}
}

// Get returns the current profile.
func (s *Profile) Get() model.User {
	return s.state.Get()
}

// Subscribe calls fn with the profile after every change.
func (s *Profile) Subscribe(fn func(model.User)) func() {
	return s.state.Subscribe(fn)
}

// Fetch loads the stored profile. A missing document keeps the current one.
func (s *Profile) Fetch(ctx context.Context) error {
	err := s.state.Load(ctx, func(ctx context.Context) (model.User, error) {
		doc, err := s.docs.Get(ctx, model.CollectionUser, model.UserDocumentID)
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Profile service: no stored profile, keeping defaults")
			return s.state.Get(), nil
		}
		if err != nil {
			return model.User{}, fmt.Errorf("failed to get profile document: %w", err)
		}
		return model.UserFromDocument(doc), nil
	})
	if err != nil {
		s.logger.Error("Profile service: fetch failed", "error", err)
		return fmt.Errorf("failed to fetch profile: %w", err)
	}
	return nil
}

// Save merges patch onto the current profile and persists the result.
func (s *Profile) Save(ctx context.Context, patch model.UserPatch) (model.User, error) {
	var local, final model.User
	err := s.state.Mutate(ctx,
		func(cur model.User) (model.User, error) {
			local = patch.Apply(cur)
			if patch.Image != nil {
				local.Image = patch.Image.Placeholder()
			}
			return local, nil
		},
		func(ctx context.Context) (func(model.User) model.User, error) {
			final = local

			var uploaded []model.UploadedImage
			if patch.Image != nil {
				res, err := s.images.ResolveAll(ctx, []model.ImageRef{*patch.Image})
				if err != nil {
					return nil, err
				}
				final.Image = res.URLs[0]
				uploaded = res.Uploaded
			}

			if err := s.docs.Set(ctx, model.CollectionUser, model.UserDocumentID, final.Document()); err != nil {
				s.images.Discard(context.WithoutCancel(ctx), uploaded)
				return nil, fmt.Errorf("failed to save profile document: %w", err)
			}

			return func(model.User) model.User { return final }, nil
		},
	)
	if err != nil {
		return model.User{}, mutationFailed(ctx, s.logger, s.alerts, entityProfile, "save", model.UserDocumentID, err)
	}

	s.logger.Info("Profile service: profile saved")
	return final, nil
}
