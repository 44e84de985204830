package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/skillforge-backend/internal/container"
	handlers "github.com/skillforge/skillforge-backend/internal/interface/http"
	"github.com/skillforge/skillforge-backend/internal/interface/middleware"
	"github.com/skillforge/skillforge-backend/pkg/helpers"
)

// Module wires catalog HTTP handlers and JWT middleware into routes.
// Public: GET /api/courses, /api/courses/trending, /api/courses/category/:category, /api/courses/:id
// Protected: POST /api/courses, POST /api/courses/:id/enroll,
// POST /api/courses/:id/thumbnail, GET /api/me/courses

type Module struct {
	Handler *handlers.CatalogHandler
	JWT     *helpers.JWTManager
}

func New(h *handlers.CatalogHandler, jwt *helpers.JWTManager) *Module {
	return &Module{Handler: h, JWT: jwt}
}

func (m *Module) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Public reads with a per-IP limiter; internal addresses bypass it.
	browseLimiter := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	courses := rg.Group("/courses")
	courses.Use(browseLimiter)
	{
		courses.GET("", m.Handler.ListPublished)
		courses.GET("/trending", m.Handler.ListTrending)
		courses.GET("/category/:category", m.Handler.ListByCategory)
		courses.GET("/:id", m.Handler.GetByID)
	}

	// Protected mutations and per-user reads.
	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/courses", m.Handler.Create)
		auth.POST("/courses/:id/enroll", m.Handler.Enroll)
		auth.POST("/courses/:id/thumbnail", m.Handler.UploadThumbnail)
		auth.GET("/me/courses", m.Handler.ListForUser)
	}
}
