package users

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// The user endpoints are stubs: registration persists a row when a database
// is wired, but the responses simulate success either way and the login
// token is not a real credential. Actual login/registration happens against
// the client-local credential store.

type Handler struct {
	repo *Repo
	log  *zap.Logger
}

// Register mounts the stub user routes. repo may be nil when running
// without a database.
func Register(rg gin.IRouter, repo *Repo, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{repo: repo, log: log}

	rg.POST("/api/users", h.register)
	rg.POST("/api/users/login", h.login)
}

type registerReq struct {
	Email string `json:"email"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	_ = c.ShouldBindJSON(&req)

	userID := fmt.Sprintf("user_%d", time.Now().UnixMilli())
	if h.repo != nil && req.Email != "" {
		id, err := h.repo.Ensure(c.Request.Context(), req.Email)
		if err != nil {
			h.log.Warn("user upsert failed", zap.String("email", req.Email), zap.Error(err))
		} else {
			userID = id
		}
	}

	h.log.Info("user registration (simulated)", zap.String("email", req.Email))
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully (simulated)",
		"userId":  userID,
	})
}

func (h *Handler) login(c *gin.Context) {
	h.log.Info("user login (simulated)")
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful (simulated)",
		"token":   "fake-jwt-token",
	})
}
