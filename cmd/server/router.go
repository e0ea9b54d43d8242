package main

import (
	"context"
	"time"

	"noteful/cmd/server/handlers"
	eventsHandlers "noteful/cmd/server/handlers/events"
	foldersHandlers "noteful/cmd/server/handlers/folders"
	"noteful/cmd/server/handlers/httperr"
	notesHandlers "noteful/cmd/server/handlers/notes"
	tagsHandlers "noteful/cmd/server/handlers/tags"
	usersHandlers "noteful/cmd/server/handlers/users"
	"noteful/cmd/server/middlewares"
	"noteful/internal/clients/mongo"
	"noteful/internal/config"
	"noteful/internal/logger"
	"noteful/internal/services/events"
	foldersServices "noteful/internal/services/folders"
	notesServices "noteful/internal/services/notes"
	tagsServices "noteful/internal/services/tags"
	usersServices "noteful/internal/services/users"
	"noteful/internal/utils/validation"

	_ "noteful/docs" // Load swagger docs

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	RateLimitExpiration = 1 * time.Minute
)

// services holds everything the router dispatches to.
type services struct {
	tags       tagsHandlers.Service
	folders    foldersHandlers.Service
	notes      notesHandlers.Service
	users      usersHandlers.Service
	hub        eventsHandlers.Hub
	collectors []prometheus.Collector
}

// buildServices wires repositories, the event hub and services on db.
func buildServices(ctx context.Context, cfg config.Config, db *mongodrv.Database) (services, error) {
	log := logger.L()

	tagsRepo, err := mongo.NewTagsRepo(ctx, db, cfg.CascadeTransactions)
	if err != nil {
		return services{}, err
	}
	foldersRepo, err := mongo.NewFoldersRepo(ctx, db, cfg.CascadeTransactions)
	if err != nil {
		return services{}, err
	}
	notesRepo, err := mongo.NewNotesRepo(ctx, db)
	if err != nil {
		return services{}, err
	}
	usersRepo, err := mongo.NewUsersRepo(ctx, db)
	if err != nil {
		return services{}, err
	}

	hub := events.NewHub(cfg.WSOutboxBuffer)
	refs := mongo.NoteRefs{Folders: foldersRepo, Tags: tagsRepo}

	return services{
		tags:       tagsServices.NewService(tagsRepo, hub, log),
		folders:    foldersServices.NewService(foldersRepo, hub, log),
		notes:      notesServices.NewService(notesRepo, refs, hub, log),
		users:      usersServices.NewService(usersRepo, cfg, log),
		hub:        hub,
		collectors: []prometheus.Collector{mongo.CascadeDeletes},
	}, nil
}

// setupRouter configures and returns a Fiber app with all routes
func setupRouter(cfg config.Config, svc services) *fiber.App {
	v := validation.MustNew()

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
		Immutable:    true, // make Fiber copy all request-derived strings
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Content-Type, Authorization",
		ExposeHeaders: "Location",
	}))

	if cfg.RouteMetricsEnabled {
		middlewares.AttachMetrics(app, svc.collectors...)
	}

	// Health check endpoint, outside the API group to avoid request logging
	app.Get("/healthz", handlers.Healthz)

	app.Get("/docs/*", swagger.HandlerDefault)

	var api fiber.Router
	if cfg.RequestLoggingEnabled {
		api = app.Group("/api", fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
		logger.L().Info("request logging enabled")
	} else {
		api = app.Group("/api")
		logger.L().Info("request logging disabled")
	}

	jwtMiddleware := middlewares.JWT(cfg)
	resourceAuth := middlewares.Optional(cfg.AuthRequired, jwtMiddleware)

	// Users
	usersH := usersHandlers.NewHandlers(svc.users, v)
	api.Post("/users", usersH.SignUp)
	api.Post("/login", middlewares.SignInLimiter(cfg.SignInRatePerMin, RateLimitExpiration), usersH.SignIn)
	api.Post("/refresh", jwtMiddleware, usersH.Refresh)

	// Tags
	tagsH := tagsHandlers.NewHandlers(svc.tags, v)
	tagsGrp := api.Group("/tags", resourceAuth)
	tagsGrp.Get("/", tagsH.List)
	tagsGrp.Get("/:id", tagsH.Get)
	tagsGrp.Post("/", tagsH.Create)
	tagsGrp.Put("/:id", tagsH.Update)
	tagsGrp.Delete("/:id", tagsH.Delete)

	// Folders
	foldersH := foldersHandlers.NewHandlers(svc.folders, v)
	foldersGrp := api.Group("/folders", resourceAuth)
	foldersGrp.Get("/", foldersH.List)
	foldersGrp.Get("/:id", foldersH.Get)
	foldersGrp.Post("/", foldersH.Create)
	foldersGrp.Put("/:id", foldersH.Update)
	foldersGrp.Delete("/:id", foldersH.Delete)

	// Notes
	notesH := notesHandlers.NewHandlers(svc.notes, v)
	notesGrp := api.Group("/notes", resourceAuth)
	notesGrp.Get("/", notesH.List)
	notesGrp.Get("/:id", notesH.Get)
	notesGrp.Post("/", notesH.Create)
	notesGrp.Put("/:id", notesH.Update)
	notesGrp.Delete("/:id", notesH.Delete)

	// Resource event stream
	streamH := eventsHandlers.NewStreamHandlers(svc.hub, cfg.JWTSecret, cfg.AuthRequired, cfg.WSMaxSessionSec)
	app.Use("/ws", eventsHandlers.LogConnections(cfg.JWTSecret))
	app.Get("/ws/stream", streamH.Upgrade, websocket.New(streamH.Stream))

	// Anything unmatched, and handlers that fall through with c.Next()
	app.Use(handlers.NotFound)

	return app
}
