// Package editor holds the session controller: the state machine that
// resumes or creates a project when the editor opens and drives saves.
package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cipherstudio/studio/internal/projects"
)

// State is the controller lifecycle. Initialization runs at most once per
// controller: a single mutex-guarded enum replaces the pair of boolean
// latches older clients used, so the "in flight" and "done" flags can
// never drift apart.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateSaving
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// API is the slice of the backend client the controller consumes.
type API interface {
	CreateProject(ctx context.Context, userID string) (string, error)
	GetProject(ctx context.Context, id string) (map[string]string, error)
	SaveProject(ctx context.Context, id string, files map[string]string) error
}

// Sessions is the client-local pointer store for "last opened project".
type Sessions interface {
	LastProject(user string) string
	SetLastProject(user, projectID string) error
	ClearLastProject(user string) error
}

type Config struct {
	User     string
	API      API
	Sessions Sessions
	Sandbox  Sandbox
	Confirm  Confirmer
	OnStatus func(status string)
	Log      *zap.Logger

	// RevertDelay is how long the "Project Saved!" status lingers before
	// reverting to "Ready". Zero means the 2s default.
	RevertDelay time.Duration
}

type Controller struct {
	user        string
	api         API
	sessions    Sessions
	sandbox     Sandbox
	confirm     Confirmer
	onStatus    func(string)
	log         *zap.Logger
	revertDelay time.Duration

	mu        sync.Mutex
	state     State
	status    string
	statusGen int
	projectID string
	files     map[string]string
	active    string
}

func New(cfg Config) *Controller {
	c := &Controller{
		user:        cfg.User,
		api:         cfg.API,
		sessions:    cfg.Sessions,
		sandbox:     cfg.Sandbox,
		confirm:     cfg.Confirm,
		onStatus:    cfg.OnStatus,
		log:         cfg.Log,
		revertDelay: cfg.RevertDelay,
	}
	if c.sandbox == nil {
		c.sandbox = nopSandbox{}
	}
	if c.confirm == nil {
		c.confirm = acceptAll{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.revertDelay == 0 {
		c.revertDelay = 2 * time.Second
	}
	c.status = "Initializing..."
	return c
}

// Init resolves the session pointer into a loaded project, creating one
// when needed. It runs at most once: any call after the first — including
// concurrent ones racing the first — is a no-op.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateUninitialized {
		c.mu.Unlock()
		return nil
	}
	c.state = StateInitializing
	c.mu.Unlock()

	c.setStatus("Initializing...")

	if last := c.sessions.LastProject(c.user); last != "" {
		if err := c.load(ctx, last); err == nil {
			return nil
		}
		// The pointer is stale; forget it and start over with a fresh
		// project, exactly as if none had been remembered.
		if err := c.sessions.ClearLastProject(c.user); err != nil {
			c.log.Warn("clear stale project pointer failed", zap.Error(err))
		}
	}

	return c.createAndLoad(ctx)
}

func (c *Controller) createAndLoad(ctx context.Context) error {
	c.setStatus("Creating new project...")

	id, err := c.api.CreateProject(ctx, c.user)
	if err != nil {
		c.fail(fmt.Sprintf("Error: %v. Check that the backend server is reachable.", err))
		return err
	}
	c.log.Info("new project created", zap.String("project_id", id))

	if err := c.load(ctx, id); err != nil {
		c.fail(fmt.Sprintf("Error: %v. Check that the backend server is reachable.", err))
		return err
	}
	return nil
}

func (c *Controller) load(ctx context.Context, id string) error {
	c.setStatus(fmt.Sprintf("Loading project %s...", id))

	files, err := c.api.GetProject(ctx, id)
	if err != nil {
		c.log.Warn("load project failed", zap.String("project_id", id), zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.projectID = id
	c.files = files
	c.active = projects.DefaultActiveFile
	c.state = StateReady
	c.mu.Unlock()

	if err := c.sessions.SetLastProject(c.user, id); err != nil {
		c.log.Warn("persist project pointer failed", zap.Error(err))
	}

	c.render()
	c.setStatus("Loaded project: " + id)
	return nil
}

// Save submits the full in-memory file set. With no project loaded it
// warns and returns; a save already in flight makes it a no-op.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.projectID == "" || len(c.files) == 0 {
		c.mu.Unlock()
		c.log.Warn("cannot save: no project loaded")
		return nil
	}
	if c.state != StateReady {
		c.mu.Unlock()
		c.log.Warn("save skipped", zap.Stringer("state", c.state))
		return nil
	}
	c.state = StateSaving
	id := c.projectID
	files := copyFiles(c.files)
	c.mu.Unlock()

	c.setStatus("Saving...")
	err := c.api.SaveProject(ctx, id, files)

	c.mu.Lock()
	c.state = StateReady
	c.mu.Unlock()

	if err != nil {
		// The unsaved file set stays in memory so the user can retry.
		c.setStatus(fmt.Sprintf("Error: %v", err))
		return err
	}

	gen := c.setStatus("Project Saved!")
	time.AfterFunc(c.revertDelay, func() {
		c.revertStatus(gen, "Ready")
	})
	return nil
}

func (c *Controller) fail(status string) {
	c.mu.Lock()
	c.state = StateFailed
	c.mu.Unlock()
	c.setStatus(status)
}

// setStatus publishes a status line and returns its generation, so a
// delayed revert can tell whether it is still current.
func (c *Controller) setStatus(status string) int {
	c.mu.Lock()
	c.status = status
	c.statusGen++
	gen := c.statusGen
	c.mu.Unlock()

	if c.onStatus != nil {
		c.onStatus(status)
	}
	return gen
}

func (c *Controller) revertStatus(gen int, status string) {
	c.mu.Lock()
	if c.statusGen != gen || c.state != StateReady {
		c.mu.Unlock()
		return
	}
	c.status = status
	c.statusGen++
	c.mu.Unlock()

	if c.onStatus != nil {
		c.onStatus(status)
	}
}

func (c *Controller) render() {
	c.mu.Lock()
	files := copyFiles(c.files)
	active := c.active
	c.mu.Unlock()
	c.sandbox.Render(files, projects.EntryFile, active)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) ProjectID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectID
}

func copyFiles(files map[string]string) map[string]string {
	out := make(map[string]string, len(files))
	for k, v := range files {
		out[k] = v
	}
	return out
}
