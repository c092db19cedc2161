package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/projects", r.URL.Path)

		var body struct {
			UserID string `json:"userId"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body.UserID)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"projectId": "proj-1"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	id, err := c.CreateProject(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "proj-1", id)
}

func TestCreateProjectServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Error creating project"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.CreateProject(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error creating project")
	assert.Contains(t, err.Error(), "500")
}

func TestGetProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/projects/proj-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "proj-1",
			"files": map[string]string{"/App.js": "hello"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	p, err := c.GetProject(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "proj-1", p.ID)
	assert.Equal(t, map[string]string{"/App.js": "hello"}, p.Files)
}

func TestGetProjectNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Project not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetProject(context.Background(), "stale-id")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestSaveProject(t *testing.T) {
	var gotFiles map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/projects/proj-1", r.URL.Path)

		var body struct {
			Files map[string]string `json:"files"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotFiles = body.Files
		json.NewEncoder(w).Encode(map[string]string{"message": "Project saved successfully"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	files := map[string]string{"/App.js": "edited"}
	require.NoError(t, c.SaveProject(context.Background(), "proj-1", files))
	assert.Equal(t, files, gotFiles)
}

func TestSaveProjectNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.SaveProject(context.Background(), "gone", map[string]string{"/App.js": "x"})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUnreachableBackend(t *testing.T) {
	c := New("http://127.0.0.1:1", nil)
	_, err := c.CreateProject(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call backend")
}
