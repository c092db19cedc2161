package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cipherstudio/studio/internal/projects"
)

// fakeAPI is an in-memory backend that counts calls.
type fakeAPI struct {
	mu        sync.Mutex
	creates   int
	gets      int
	saves     int
	createErr error
	saveErr   error
	projects  map[string]map[string]string
	nextID    int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{projects: make(map[string]map[string]string)}
}

func (f *fakeAPI) CreateProject(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("proj-%d", f.nextID)
	f.projects[id] = projects.DefaultFiles()
	return id, nil
}

func (f *fakeAPI) GetProject(_ context.Context, id string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	files, ok := f.projects[id]
	if !ok {
		return nil, errors.New("project not found on server")
	}
	out := make(map[string]string, len(files))
	for k, v := range files {
		out[k] = v
	}
	return out, nil
}

func (f *fakeAPI) SaveProject(_ context.Context, id string, files map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.projects[id]; !ok {
		return errors.New("project not found on server")
	}
	f.projects[id] = files
	return nil
}

func (f *fakeAPI) counts() (creates, gets, saves int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.gets, f.saves
}

// fakeSessions is an in-memory last-project pointer store.
type fakeSessions struct {
	mu     sync.Mutex
	last   map[string]string
	clears int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{last: make(map[string]string)}
}

func (f *fakeSessions) LastProject(user string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last[user]
}

func (f *fakeSessions) SetLastProject(user, projectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last[user] = projectID
	return nil
}

func (f *fakeSessions) ClearLastProject(user string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	delete(f.last, user)
	return nil
}

// statusLog records every published status line.
type statusLog struct {
	mu    sync.Mutex
	lines []string
}

func (s *statusLog) add(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *statusLog) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func newTestController(api API, sessions Sessions, statuses *statusLog) *Controller {
	cfg := Config{
		User:        "alice",
		API:         api,
		Sessions:    sessions,
		RevertDelay: 10 * time.Millisecond,
	}
	if statuses != nil {
		cfg.OnStatus = statuses.add
	}
	return New(cfg)
}

func TestInitCreatesWhenNoPointer(t *testing.T) {
	api := newFakeAPI()
	sessions := newFakeSessions()
	statuses := &statusLog{}
	ctrl := newTestController(api, sessions, statuses)

	require.NoError(t, ctrl.Init(context.Background()))

	creates, gets, _ := api.counts()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, gets)
	assert.Equal(t, StateReady, ctrl.State())
	assert.Equal(t, "proj-1", ctrl.ProjectID())
	assert.Equal(t, projects.DefaultActiveFile, ctrl.ActiveFile())
	assert.Equal(t, "proj-1", sessions.LastProject("alice"))
	assert.Equal(t, "Loaded project: proj-1", ctrl.Status())

	lines := statuses.all()
	assert.Contains(t, lines, "Creating new project...")
	assert.Contains(t, lines, "Loading project proj-1...")
}

func TestInitResumesPointer(t *testing.T) {
	api := newFakeAPI()
	sessions := newFakeSessions()

	id, err := api.CreateProject(context.Background(), "alice")
	require.NoError(t, err)
	require.NoError(t, sessions.SetLastProject("alice", id))
	api.mu.Lock()
	api.creates = 0
	api.mu.Unlock()

	ctrl := newTestController(api, sessions, nil)
	require.NoError(t, ctrl.Init(context.Background()))

	creates, _, _ := api.counts()
	assert.Equal(t, 0, creates, "a valid pointer must not create a project")
	assert.Equal(t, id, ctrl.ProjectID())
	assert.Equal(t, StateReady, ctrl.State())
}

func TestInitRunsOnce(t *testing.T) {
	api := newFakeAPI()
	ctrl := newTestController(api, newFakeSessions(), nil)

	require.NoError(t, ctrl.Init(context.Background()))
	require.NoError(t, ctrl.Init(context.Background()))
	require.NoError(t, ctrl.Init(context.Background()))

	creates, _, _ := api.counts()
	assert.Equal(t, 1, creates)
}

func TestInitConcurrentCallsCreateOneProject(t *testing.T) {
	api := newFakeAPI()
	ctrl := newTestController(api, newFakeSessions(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ctrl.Init(context.Background())
		}()
	}
	wg.Wait()

	creates, _, _ := api.counts()
	assert.Equal(t, 1, creates, "racing Init calls must not duplicate the project")
}

func TestInitStalePointerFallsBackToCreate(t *testing.T) {
	api := newFakeAPI()
	sessions := newFakeSessions()
	require.NoError(t, sessions.SetLastProject("alice", "gone-forever"))

	ctrl := newTestController(api, sessions, nil)
	require.NoError(t, ctrl.Init(context.Background()))

	creates, _, _ := api.counts()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, sessions.clears)
	assert.Equal(t, "proj-1", ctrl.ProjectID())
	assert.Equal(t, "proj-1", sessions.LastProject("alice"))
}

func TestInitCreateFailure(t *testing.T) {
	api := newFakeAPI()
	api.createErr = errors.New("connection refused")
	ctrl := newTestController(api, newFakeSessions(), nil)

	err := ctrl.Init(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, ctrl.State())
	assert.Contains(t, ctrl.Status(), "Error: connection refused")
	assert.Contains(t, ctrl.Status(), "Check that the backend server is reachable.")
}

func TestSaveWithoutProjectIsNoOp(t *testing.T) {
	api := newFakeAPI()
	ctrl := newTestController(api, newFakeSessions(), nil)

	require.NoError(t, ctrl.Save(context.Background()))
	_, _, saves := api.counts()
	assert.Equal(t, 0, saves)
}

func TestSaveSuccessStatusFlow(t *testing.T) {
	api := newFakeAPI()
	statuses := &statusLog{}
	ctrl := newTestController(api, newFakeSessions(), statuses)
	require.NoError(t, ctrl.Init(context.Background()))

	edited := ctrl.Files()
	edited["/App.js"] = "edited"
	require.NoError(t, ctrl.SetFiles(edited))

	require.NoError(t, ctrl.Save(context.Background()))
	assert.Equal(t, "Project Saved!", ctrl.Status())
	assert.Equal(t, StateReady, ctrl.State())

	assert.Eventually(t, func() bool {
		return ctrl.Status() == "Ready"
	}, time.Second, 5*time.Millisecond, "saved status should revert")

	lines := statuses.all()
	assert.Contains(t, lines, "Saving...")
	api.mu.Lock()
	assert.Equal(t, "edited", api.projects[ctrl.ProjectID()]["/App.js"])
	api.mu.Unlock()
}

func TestSaveFailureKeepsFiles(t *testing.T) {
	api := newFakeAPI()
	ctrl := newTestController(api, newFakeSessions(), nil)
	require.NoError(t, ctrl.Init(context.Background()))

	edited := ctrl.Files()
	edited["/App.js"] = "unsaved work"
	require.NoError(t, ctrl.SetFiles(edited))

	api.saveErr = errors.New("boom")
	err := ctrl.Save(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateReady, ctrl.State(), "a failed save must allow a retry")
	assert.Contains(t, ctrl.Status(), "Error: boom")
	assert.Equal(t, "unsaved work", ctrl.Files()["/App.js"])
}

func TestSaveLaterStatusCancelsRevert(t *testing.T) {
	api := newFakeAPI()
	ctrl := newTestController(api, newFakeSessions(), nil)
	require.NoError(t, ctrl.Init(context.Background()))

	require.NoError(t, ctrl.Save(context.Background()))
	// A second save's "Project Saved!" must survive the first save's
	// delayed revert.
	require.NoError(t, ctrl.Save(context.Background()))

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, "Ready", ctrl.Status())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "saving", StateSaving.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(99).String())
}
