package handler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
)

const (
	eventsBuffer       = 16
	eventsWriteWait    = 10 * time.Second
	eventsPingInterval = 30 * time.Second
)

// Event types sent on the events stream.
const (
	EventProfile  = "profile"
	EventSkills   = "skills"
	EventProjects = "projects"
)

// ProfileFeed is a ProfileReader that reports changes.
type ProfileFeed interface {
	ProfileReader
	Subscribe(fn func(model.User)) func()
}

// SkillFeed is a SkillReader that reports changes.
type SkillFeed interface {
	SkillReader
	Subscribe(fn func([]model.Skill)) func()
}

// ProjectFeed is a ProjectReader that reports changes.
type ProjectFeed interface {
	ProjectReader
	Subscribe(fn func([]model.Project)) func()
}

type event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Events streams state changes to visitors over a websocket.
type Events struct {
	profile        ProfileFeed
	skills         SkillFeed
	projects       ProjectFeed
	originPatterns []string
	logger         *logger.Logger
}

// NewEvents creates an Events handler accepting connections from origins.
// "*" accepts any origin.
func NewEvents(profile ProfileFeed, skills SkillFeed, projects ProjectFeed, origins []string, logger *logger.Logger) *Events {
	return &Events{
		profile:        profile,
		skills:         skills,
		projects:       projects,
		originPatterns: originHosts(origins),
		logger:         logger,
	}
}

// originHosts turns CORS origins into the host patterns websocket.Accept
// matches against.
func originHosts(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
			continue
		}
		out = append(out, o)
	}
	return out
}

// Stream handles GET /api/events. It sends the current profile, skills and
// projects, then one event per change until the client disconnects.
func (h *Events) Stream(w http.ResponseWriter, r *http.Request) {
	// Clear the server timeouts on the connection about to be hijacked.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.logger.Warn("Events handler: websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := conn.CloseRead(r.Context())

	updates := make(chan event, eventsBuffer)
	push := func(e event) {
		select {
		case updates <- e:
		default:
			h.logger.Warn("Events handler: client is lagging, dropping event", "type", e.Type)
		}
	}

	unsubscribe := []func(){
		h.profile.Subscribe(func(u model.User) { push(profileEvent(u)) }),
		h.skills.Subscribe(func(list []model.Skill) { push(skillsEvent(list)) }),
		h.projects.Subscribe(func(list []model.Project) { push(projectsEvent(list)) }),
	}
	defer func() {
		for _, fn := range unsubscribe {
			fn()
		}
	}()

	for _, e := range []event{
		profileEvent(h.profile.Get()),
		skillsEvent(h.skills.List()),
		projectsEvent(h.projects.List()),
	} {
		if err := h.write(ctx, conn, e); err != nil {
			return
		}
	}

	ticker := time.NewTicker(eventsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-updates:
			if err := h.write(ctx, conn, e); err != nil {
				return
			}
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, eventsWriteWait)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				h.logger.Debug("Events handler: ping failed", "error", err)
				return
			}
		}
	}
}

func (h *Events) write(ctx context.Context, conn *websocket.Conn, e event) error {
	wctx, cancel := context.WithTimeout(ctx, eventsWriteWait)
	defer cancel()

	if err := wsjson.Write(wctx, conn, e); err != nil {
		h.logger.Debug("Events handler: write failed", "type", e.Type, "error", err)
		return err
	}
	return nil
}

func profileEvent(u model.User) event {
	return event{Type: EventProfile, Data: userResponse(u)}
}

func skillsEvent(list []model.Skill) event {
	return event{Type: EventSkills, Data: newSkillsResponse(list)}
}

func projectsEvent(list []model.Project) event {
	return event{Type: EventProjects, Data: newProjectsResponse(list)}
}
