package projects

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	store Store
	cache *Cache
	log   *zap.Logger
}

// Register mounts the project routes. cache may be nil when Redis is not
// configured.
func Register(rg gin.IRouter, store Store, cache *Cache, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{store: store, cache: cache, log: log}

	rg.POST("/projects", h.create)
	rg.GET("/projects/:id", h.get)
	rg.POST("/projects/:id", h.save)
}

type createReq struct {
	UserID string `json:"userId"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required to create a project."})
		return
	}

	p, err := h.store.Create(c.Request.Context(), strings.TrimSpace(req.UserID))
	if err != nil {
		if errors.Is(err, ErrOwnerRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required to create a project."})
			return
		}
		h.log.Error("create project failed", zap.String("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating project"})
		return
	}

	if h.cache != nil {
		h.cache.Put(c.Request.Context(), p)
	}
	h.log.Info("project created", zap.String("project_id", p.ID), zap.String("user_id", p.OwnerID))
	c.JSON(http.StatusCreated, gin.H{"projectId": p.ID})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")

	// Known gap: the caller's identity is not checked here. Anyone who
	// knows a project id can read it.
	if h.cache != nil {
		if p := h.cache.Get(c.Request.Context(), id); p != nil {
			c.JSON(http.StatusOK, gin.H{"id": p.ID, "files": p.Files})
			return
		}
	}

	p, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		h.log.Error("fetch project failed", zap.String("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error fetching project"})
		return
	}

	if h.cache != nil {
		h.cache.Put(c.Request.Context(), p)
	}
	c.JSON(http.StatusOK, gin.H{"id": p.ID, "files": p.Files})
}

type saveReq struct {
	Files map[string]string `json:"files"`
}

func (h *Handler) save(c *gin.Context) {
	id := c.Param("id")

	var req saveReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'files' in body"})
		return
	}

	p, err := h.store.SaveFiles(c.Request.Context(), id, req.Files)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFiles):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'files' in body"})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		default:
			h.log.Error("save project failed", zap.String("project_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error saving project"})
		}
		return
	}

	if h.cache != nil {
		h.cache.Put(c.Request.Context(), p)
	}
	h.log.Info("project saved", zap.String("project_id", id), zap.Int("files", len(req.Files)))
	c.JSON(http.StatusOK, gin.H{"message": "Project saved successfully"})
}
