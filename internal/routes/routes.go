package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arman-d/DermaCareBack/internal/cache"
	"github.com/arman-d/DermaCareBack/internal/config"
	"github.com/arman-d/DermaCareBack/internal/handlers"
	"github.com/arman-d/DermaCareBack/internal/identity"
	"github.com/arman-d/DermaCareBack/internal/middleware"
	"github.com/arman-d/DermaCareBack/internal/repository"
	"github.com/arman-d/DermaCareBack/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	serviceRepo := repository.NewServiceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	var cacheSvc cache.CacheService = cache.Noop{}
	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cacheSvc = cache.NewRedisCache(client)
	} else {
		log.Println("REDIS_ADDR not set; cache invalidation is a no-op")
	}

	identityBackend := identity.NewHTTPBackend(cfg.IdentityURL, cfg.IdentityKey)

	availabilityService := services.NewAvailabilityService(serviceRepo, orderRepo)
	orderService := services.NewOrderService(db, orderRepo, sessionRepo, serviceRepo, cacheSvc)
	sessionService := services.NewSessionService(sessionRepo, orderRepo, cacheSvc)

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	orderHandler := handlers.NewOrderHandler(orderService)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	// Fast-path UX gate over the page routes; never authorizes API calls.
	app.Use(middleware.RoleGate(cfg.RoleCookieSecret))

	api := app.Group("/api/v1")

	api.Get("/availability", availabilityHandler.GetAvailability)

	protected := api.Group("", middleware.AuthRequired(identityBackend))

	orders := protected.Group("/orders")
	orders.Post("", orderHandler.BookOrder)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id/status", orderHandler.UpdateStatus)
	orders.Get("/:orderId/sessions", sessionHandler.ListSessions)
	orders.Post("/:orderId/sessions", sessionHandler.BulkCreateSessions)
	orders.Patch("/:orderId/sessions", sessionHandler.PatchSession)
}
