package server

import (
	"io/fs"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"leadrouter/cmd/web"
	_ "leadrouter/docs"
	"leadrouter/internal/logging"
)

var defaultCORSOrigins = []string{"http://localhost:5173"}

func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(logging.Middleware(s.logger()), gin.CustomRecovery(s.recoverPanic))

	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/", s.rootHandler)

	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/api/assign", s.assignHandler)
	r.GET("/api/campaigns", s.listCampaignsHandler)
	r.GET("/api/assignments", s.listAssignmentsHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	staticFiles, _ := fs.Sub(web.Files, "assets")
	r.StaticFS("/assets", http.FS(staticFiles))

	r.GET("/web", s.intakePageHandler)
	r.POST("/web/assign", s.intakeSubmitHandler)

	return r
}

// recoverPanic keeps panics out of the response body; the request log
// line still records the 500.
func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.logger().Error("handler panic", zap.String("path", c.Request.URL.Path), zap.Any("panic", recovered))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func (s *Server) rootHandler(c *gin.Context) {
	c.Redirect(http.StatusFound, "/web")
}

// healthHandler godoc
// @Summary Health check
// @Description Returns current service/database health details.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (s *Server) healthHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": "database not configured"})
		return
	}
	c.JSON(http.StatusOK, s.db.Health())
}
