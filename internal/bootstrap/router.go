package bootstrap

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httpapi "github.com/cipherstudio/studio/internal/api/http"
	"github.com/cipherstudio/studio/internal/api/http/middleware"
	"github.com/cipherstudio/studio/internal/projects"
	"github.com/cipherstudio/studio/internal/users"
)

// SetGinMode silences gin's debug noise outside development.
func SetGinMode(env string) {
	switch env {
	case "production", "staging":
		gin.SetMode(gin.ReleaseMode)
	}
}

type RouterDeps struct {
	ServiceName    string
	Version        string
	DB             *pgxpool.Pool
	Redis          *redis.Client
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	Log            *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	if dep.Log == nil {
		dep.Log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log))
	r.Use(middleware.CORS(dep.AllowedOrigins))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	projectRepo := projects.NewRepo(dep.DB)
	var cache *projects.Cache
	if dep.Redis != nil {
		cache = projects.NewCache(dep.Redis, dep.Log)
	}

	// The wire surface is fixed by the frontend: /projects and /api/users
	// live at the root, not under a version prefix.
	limited := r.Group("")
	limited.Use(middleware.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))
	projects.Register(limited, projectRepo, cache, dep.Log)

	users.Register(r, users.NewRepo(dep.DB), dep.Log)

	return r
}
