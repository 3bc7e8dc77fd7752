package app

import (
	"context"

	"lectern/config"
	"lectern/internal/controllers"
	"lectern/internal/database"
	"lectern/internal/events"
	"lectern/internal/handlers/middleware"
	"lectern/internal/jobs"
	"lectern/internal/repositories"
	"lectern/internal/services"
	"lectern/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)

	repos := repositories.New(db)
	svcs := services.New(repos, db, config, eventBus)

	websocket, err := websockets.New(db, eventBus, config, repos.User)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config, repos)
	ctrls := controllers.New(&svcs, repos, eventBus, db)

	if config.SchedulerEnabled {
		cleanupJob := jobs.NewCacheCleanupJob(repos, db)
		if err := svcs.Scheduler.AddJob(cleanupJob); err != nil {
			return &App{}, log.Err("failed to register cache cleanup job", err)
		}
		svcs.Scheduler.Start()
		log.Info("Registered cache cleanup job with scheduler")
	}

	app := &App{
		Database:    db,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Config:      config,
		Services:    svcs,
		Repos:       repos,
		Controllers: ctrls,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Recommendation,
		a.Controllers.Interaction,
		a.Controllers.Recommendation,
		a.Repos.User,
		a.Repos.Course,
		a.Repos.Interaction,
		a.Repos.RecommendationCache,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Recommendation != nil {
		a.Services.Recommendation.Close()
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
