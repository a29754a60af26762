package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
)

// ProfileReader exposes the current profile.
type ProfileReader interface {
	Get() model.User
}

// SkillReader exposes the current skill list.
type SkillReader interface {
	List() []model.Skill
}

// ProjectReader exposes the current project list.
type ProjectReader interface {
	List() []model.Project
	Lookup(id string) (model.Project, bool)
}

// Pinger checks the document store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Public serves the read-only portfolio API from local state.
type Public struct {
	profile  ProfileReader
	skills   SkillReader
	projects ProjectReader
	logger   *logger.Logger
}

// NewPublic creates a new Public handler.
func NewPublic(profile ProfileReader, skills SkillReader, projects ProjectReader, logger *logger.Logger) *Public {
	return &Public{
		profile:  profile,
		skills:   skills,
		projects: projects,
		logger:   logger,
	}
}

type userResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Hero    string `json:"hero"`
	AboutMe string `json:"aboutMe"`
	Image   string `json:"image"`
	Address string `json:"address"`
}

type skillResponse struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Level       int    `json:"level"`
	Description string `json:"description"`
}

type projectResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CoverImage  string   `json:"coverImage"`
	Images      []string `json:"images"`
	Link        string   `json:"link"`
	Github      string   `json:"github"`
	Type        string   `json:"type"`
	Keywords    []string `json:"keywords"`
}

func newProjectResponse(p model.Project) projectResponse {
	images := p.ImageURLs()
	if images == nil {
		images = []string{}
	}
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CoverImage:  p.CoverImage,
		Images:      images,
		Link:        p.Link,
		Github:      p.Github,
		Type:        p.Type,
		Keywords:    keywords,
	}
}

func newSkillsResponse(skills []model.Skill) []skillResponse {
	out := make([]skillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, skillResponse(s))
	}
	return out
}

func newProjectsResponse(projects []model.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, newProjectResponse(p))
	}
	return out
}

// GetProfile handles GET /api/profile
func (h *Public) GetProfile(w http.ResponseWriter, r *http.Request) {
	u := h.profile.Get()
	h.respondJSON(w, http.StatusOK, userResponse(u))
}

// ListSkills handles GET /api/skills
func (h *Public) ListSkills(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, newSkillsResponse(h.skills.List()))
}

// ListProjects handles GET /api/projects
func (h *Public) ListProjects(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, newProjectsResponse(h.projects.List()))
}

// GetProject handles GET /api/projects/{id}
func (h *Public) GetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	project, ok := h.projects.Lookup(id)
	if !ok {
		h.respondError(w, http.StatusNotFound, "project not found")
		return
	}

	h.respondJSON(w, http.StatusOK, newProjectResponse(project))
}

// Health handles GET /healthz. A nil pinger reports healthy.
func Health(pinger Pinger, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				logger.Error("Health check failed", "error", err)
				writeJSON(logger, w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (h *Public) respondJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(h.logger, w, status, data)
}

func (h *Public) respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(h.logger, w, status, map[string]string{"error": message})
}

func writeJSON(logger *logger.Logger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}
