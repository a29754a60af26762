package handler

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/portfolio-server/internal/api/apierrors"
	"github.com/dtroode/portfolio-server/internal/api/grpc/portfoliov1"
	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
	"github.com/dtroode/portfolio-server/internal/service"
)

// AuthService logs the owner in.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// ProfileService manages the owner profile.
type ProfileService interface {
	Get() model.User
	Fetch(ctx context.Context) error
	Save(ctx context.Context, patch model.UserPatch) (model.User, error)
}

// SkillService manages the skill list.
type SkillService interface {
	List() []model.Skill
	Fetch(ctx context.Context) error
	Create(ctx context.Context, in model.SkillInput) (model.Skill, error)
	Update(ctx context.Context, in model.SkillInput) (model.Skill, error)
	Delete(ctx context.Context, name string) error
}

// ProjectService manages the project list.
type ProjectService interface {
	List() []model.Project
	Lookup(id string) (model.Project, bool)
	Fetch(ctx context.Context) error
	Get(ctx context.Context, id string) (model.Project, error)
	Create(ctx context.Context, in model.ProjectInput) (model.Project, error)
	Update(ctx context.Context, in model.ProjectInput) (model.Project, error)
	Delete(ctx context.Context, id string) error
}

// AlertFeed exposes recent mutation failures.
type AlertFeed interface {
	Recent() []model.Alert
	Subscribe(fn func([]model.Alert)) func()
}

// watchBuffer is how many alerts a slow watcher may lag behind.
const watchBuffer = 16

// Portfolio handles gRPC endpoints of the portfolio service.
type Portfolio struct {
	portfoliov1.UnimplementedPortfolioServer
	auth     AuthService
	profile  ProfileService
	skills   SkillService
	projects ProjectService
	alerts   AlertFeed
	logger   *logger.Logger
}

// NewPortfolio creates a new Portfolio handler.
func NewPortfolio(
	auth AuthService,
	profile ProfileService,
	skills SkillService,
	projects ProjectService,
	alerts AlertFeed,
	logger *logger.Logger,
) *Portfolio {
	return &Portfolio{
		auth:     auth,
		profile:  profile,
		skills:   skills,
		projects: projects,
		alerts:   alerts,
		logger:   logger,
	}
}

// Login exchanges owner credentials for an access token.
func (h *Portfolio) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)
	email, err := f.string("email")
	if err != nil {
		return nil, handleError(err)
	}
	password, err := f.string("password")
	if err != nil {
		return nil, handleError(err)
	}

	token, err := h.auth.Login(ctx, email, password)
	if err != nil {
		return nil, handleError(err)
	}

	return mustStruct(map[string]any{"accessToken": token}), nil
}

// GetProfile returns the profile as currently held.
func (h *Portfolio) GetProfile(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return mustStruct(userMap(h.profile.Get())), nil
}

// SaveProfile merges the present fields onto the profile.
func (h *Portfolio) SaveProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	patch, err := decodeUserPatch(req)
	if err != nil {
		return nil, handleError(err)
	}

	user, err := h.profile.Save(ctx, patch)
	if err != nil {
		return nil, handleError(err)
	}

	return mustStruct(userMap(user)), nil
}

func (h *Portfolio) ListSkills(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return listStruct("skills", h.skills.List(), skillMap), nil
}

func (h *Portfolio) CreateSkill(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := decodeSkillInput(req)
	if err != nil {
		return nil, handleError(err)
	}
	return h.saveSkill(ctx, in, h.skills.Create)
}

// UpdateSkill replaces the named skill. A request without an "image" field
// keeps the skill's current image; send null or "" to clear it.
func (h *Portfolio) UpdateSkill(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := decodeSkillInput(req)
	if err != nil {
		return nil, handleError(err)
	}
	if _, ok := req.GetFields()["image"]; !ok {
		in.Image = h.currentSkillImage(in.Name)
	}
	return h.saveSkill(ctx, in, h.skills.Update)
}

func (h *Portfolio) saveSkill(
	ctx context.Context,
	in model.SkillInput,
	save func(context.Context, model.SkillInput) (model.Skill, error),
) (*structpb.Struct, error) {
	skill, err := save(ctx, in)
	if err != nil {
		return nil, handleError(err)
	}

	return mustStruct(skillMap(skill)), nil
}

func (h *Portfolio) currentSkillImage(name string) model.ImageRef {
	name = strings.TrimSpace(name)
	for _, sk := range h.skills.List() {
		if sk.Name == name {
			return model.ResolvedImage(sk.Image)
		}
	}
	return model.ResolvedImage("")
}

func (h *Portfolio) DeleteSkill(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, err := fieldsOf(req).string("name")
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.skills.Delete(ctx, name); err != nil {
		return nil, handleError(err)
	}

	return &structpb.Struct{}, nil
}

func (h *Portfolio) ListProjects(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return listStruct("projects", h.projects.List(), projectMap), nil
}

// GetProject reads one project from the document store.
func (h *Portfolio) GetProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := fieldsOf(req).string("id")
	if err != nil {
		return nil, handleError(err)
	}

	project, err := h.projects.Get(ctx, id)
	if err != nil {
		return nil, handleError(err)
	}

	return mustStruct(projectMap(project)), nil
}

func (h *Portfolio) CreateProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := decodeProjectInput(req)
	if err != nil {
		return nil, handleError(err)
	}

	project, err := h.projects.Create(ctx, in)
	if err != nil {
		return nil, handleError(err)
	}

	return mustStruct(projectMap(project)), nil
}

// UpdateProject opens a draft over the listed project, applies the present
// fields and saves it. Besides plain fields the request may carry
// addImages, removeImages (indexes), addKeywords and removeKeywords (indexes).
func (h *Portfolio) UpdateProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)
	id, err := f.string("id")
	if err != nil {
		return nil, handleError(err)
	}

	current, ok := h.projects.Lookup(id)
	if !ok {
		return nil, handleError(apierrors.NewErrNotFound("project"))
	}

	draft := service.NewProjectDraft(current)
	if err := applyProjectEdits(draft, f); err != nil {
		return nil, handleError(err)
	}

	project, err := h.projects.Update(ctx, draft.Input())
	if err != nil {
		return nil, handleError(err)
	}

	return mustStruct(projectMap(project)), nil
}

func applyProjectEdits(d *service.ProjectDraft, f fields) error {
	for key, dst := range map[string]*string{
		"name":        &d.Name,
		"description": &d.Description,
		"link":        &d.Link,
		"github":      &d.Github,
		"type":        &d.Type,
	} {
		v, err := f.optionalString(key)
		if err != nil {
			return err
		}
		if v != nil {
			*dst = *v
		}
	}

	if f.has("coverImage") {
		ref, err := f.image("coverImage")
		if err != nil {
			return err
		}
		d.SetCoverImage(ref)
	}

	if f.has("images") {
		refs, err := f.images("images")
		if err != nil {
			return err
		}
		d.ReplaceScreenshots(refs)
	}
	removeImages, err := f.ints("removeImages")
	if err != nil {
		return err
	}
	// Highest index first so earlier removals do not shift later ones.
	slices.Sort(removeImages)
	removeImages = slices.Compact(removeImages)
	for _, i := range slices.Backward(removeImages) {
		if err := d.RemoveScreenshot(i); err != nil {
			return err
		}
	}
	addImages, err := f.images("addImages")
	if err != nil {
		return err
	}
	d.AddScreenshots(addImages...)

	if f.has("keywords") {
		keywords, err := f.strings("keywords")
		if err != nil {
			return err
		}
		d.ReplaceKeywords(keywords)
	}
	removeKeywords, err := f.ints("removeKeywords")
	if err != nil {
		return err
	}
	slices.Sort(removeKeywords)
	removeKeywords = slices.Compact(removeKeywords)
	for _, i := range slices.Backward(removeKeywords) {
		if err := d.DeleteKeyword(i); err != nil {
			return err
		}
	}
	addKeywords, err := f.strings("addKeywords")
	if err != nil {
		return err
	}
	for _, k := range addKeywords {
		d.AddKeyword(k)
	}

	return nil
}

func (h *Portfolio) DeleteProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := fieldsOf(req).string("id")
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.projects.Delete(ctx, id); err != nil {
		return nil, handleError(err)
	}

	return &structpb.Struct{}, nil
}

// Refresh reloads profile, skills and projects from the document store.
func (h *Portfolio) Refresh(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.profile.Fetch(gctx) })
	g.Go(func() error { return h.skills.Fetch(gctx) })
	g.Go(func() error { return h.projects.Fetch(gctx) })

	if err := g.Wait(); err != nil {
		h.logger.Error("Portfolio handler: refresh failed", "error", err)
		return nil, status.Error(codes.Unavailable, "refresh failed")
	}

	return mustStruct(map[string]any{
		"skills":   len(h.skills.List()),
		"projects": len(h.projects.List()),
	}), nil
}

func (h *Portfolio) ListAlerts(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return listStruct("alerts", h.alerts.Recent(), alertMap), nil
}

// WatchAlerts streams alerts raised after the call starts.
func (h *Portfolio) WatchAlerts(_ *structpb.Struct, stream portfoliov1.Portfolio_WatchAlertsServer) error {
	updates := make(chan model.Alert, watchBuffer)
	unsubscribe := h.alerts.Subscribe(func(list []model.Alert) {
		if len(list) == 0 {
			return
		}
		select {
		case updates <- list[len(list)-1]:
		default:
			h.logger.Warn("Portfolio handler: alert watcher is lagging, dropping alert")
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case alert := <-updates:
			if err := stream.Send(mustStruct(alertMap(alert))); err != nil {
				return err
			}
		}
	}
}
