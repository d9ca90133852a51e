package server

import (
	"time"

	"backend-vibenav/internal/auth"
	"backend-vibenav/internal/config"
	"backend-vibenav/internal/db"
	"backend-vibenav/internal/feedback"
	"backend-vibenav/internal/features"
	"backend-vibenav/internal/nav"
	"backend-vibenav/internal/route"
	"backend-vibenav/internal/stream"
	"backend-vibenav/internal/valhalla"
	"backend-vibenav/internal/vibe"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	scorer := vibe.NewScorer(s.Cfg.Scoring())

	// A nil pool stored in the Querier interface compares non-nil, so the
	// services' storage guards would dereference it. Keep nil as nil.
	var querier db.Querier
	if s.DB != nil {
		querier = s.DB
	}

	routeSvc := route.NewService(querier)
	if s.Cfg.ValhallaURL != "" {
		engine := valhalla.NewClient(s.Cfg.ValhallaURL, time.Duration(s.Cfg.EngineTimeoutMs)*time.Millisecond)
		routeSvc.WithEngine(route.NewEngineBuilder(engine, features.NewPostgresLookup(querier), scorer))
	}

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, querier))
	route.RegisterRoutes(s.App.Group("/routes"), routeSvc, jwtMiddleware)
	feedback.RegisterRoutes(s.App.Group("/feedback"), feedback.NewService(querier), jwtMiddleware)
	nav.RegisterRoutes(s.App.Group("/nav"), nav.NewManager(routeSvc, s.Stream), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
