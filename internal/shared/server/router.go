package server

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"decision-backend/internal/decisions"
	"decision-backend/internal/shared/config"
	"decision-backend/internal/shared/metrics"
	"decision-backend/internal/shared/server/middleware"
	"decision-backend/internal/shared/server/respond"
)

// RouterDeps carries the dependencies the router wires into routes.
type RouterDeps struct {
	Config          config.Config
	DB              *sql.DB
	DecisionHandler *decisions.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{"message": "Hello from the decision backend!"})
	})
	r.GET("/test", diag{db: deps.DB, databaseURL: deps.Config.DatabaseURL}.probe)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/hello", func(c *gin.Context) {
		respond.OK(c, gin.H{"message": "Hello from the backend API!"})
	})
	if deps.DecisionHandler != nil {
		deps.DecisionHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
