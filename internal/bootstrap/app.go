package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"decision-backend/internal/decisions"
	"decision-backend/internal/shared/config"
	"decision-backend/internal/shared/server"
	"decision-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	DecisionsRepo    decisions.Repo
	DecisionsService *decisions.Service
	DecisionsHandler *decisions.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB := buildDB(ctx, cfg)

	var repo decisions.Repo
	if sqlDB != nil {
		repo = &decisions.PGRepo{DB: sqlDB}
	} else {
		repo = decisions.NewMemoryRepo()
	}

	svc := &decisions.Service{Repo: repo}
	handler := decisions.NewHandler(svc)

	app := &App{
		Config:           cfg,
		DB:               sqlDB,
		DecisionsRepo:    repo,
		DecisionsService: svc,
		DecisionsHandler: handler,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		DB:              sqlDB,
		DecisionHandler: handler,
	})

	return app, nil
}

// buildDB connects the vault database. The vault is optional: an empty URL,
// a failed connect or failed migrations all fall back to the in-memory
// repository rather than failing startup.
func buildDB(ctx context.Context, cfg config.Config) *sql.DB {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory decision vault")
		return nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("bootstrap: database connect failed; using in-memory decision vault: %v", err)
		return nil
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("bootstrap: migrations failed; using in-memory decision vault: %v", err)
		sqlDB.Close()
		return nil
	}

	return sqlDB
}
